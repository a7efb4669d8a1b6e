package tenant

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a tenant. It is the primary key of the organization that owns
// the tenant database.
type ID int64

// ParseID parses a base-10 integer tenant identifier. Surrounding whitespace is
// ignored; the sign is accepted, so zero and negative values parse successfully
// and are rejected later by whoever looks the tenant up.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return ID(v), nil
}

func (id ID) Int64() int64 { return int64(id) }

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

package tenantdb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenancy/pkg/tenant"
	"github.com/dmitrymomot/tenancy/pkg/tenantdb"
)

func tenantdbID(v int64) tenant.ID { return tenant.ID(v) }

func TestRouter(t *testing.T) {
	t.Parallel()

	core := &fakeHandle{name: "core"}
	opener := newCountingOpener()
	opener.SetFail(13, errors.New("unreachable"))
	registry := tenantdb.NewRegistry(core, opener)
	router := tenantdb.NewRouter(registry)

	tenantCtx := tenant.WithID(context.Background(), 4)

	tests := []struct {
		name       string
		ctx        context.Context
		op         tenantdb.Operation
		wantCore   bool
		wantTenant tenant.ID
	}{
		{name: "core family in core scope", ctx: context.Background(), op: tenantdb.Operation{Kind: tenantdb.Read, Family: tenantdb.FamilyCore}, wantCore: true},
		{name: "core family in tenant scope", ctx: tenantCtx, op: tenantdb.Operation{Kind: tenantdb.Write, Family: tenantdb.FamilyCore}, wantCore: true},
		{name: "tenant family in core scope", ctx: context.Background(), op: tenantdb.Operation{Kind: tenantdb.Read, Family: tenantdb.FamilyTenant}, wantCore: true},
		{name: "tenant read in tenant scope", ctx: tenantCtx, op: tenantdb.Operation{Kind: tenantdb.Read, Family: tenantdb.FamilyTenant}, wantTenant: 4},
		{name: "tenant write in tenant scope", ctx: tenantCtx, op: tenantdb.Operation{Kind: tenantdb.Write, Family: tenantdb.FamilyTenant}, wantTenant: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			route, err := router.Route(tt.ctx, tt.op)
			require.NoError(t, err)
			if tt.wantCore {
				assert.False(t, route.Scoped)
				assert.Same(t, core, route.DB)
				return
			}
			assert.True(t, route.Scoped)
			assert.Equal(t, tt.wantTenant, route.Tenant)
			assert.Equal(t, "tenant_4", route.DB.(*fakeHandle).name)
		})
	}

	t.Run("reads and writes share the tenant handle", func(t *testing.T) {
		t.Parallel()
		ctx := tenant.WithID(context.Background(), 12)
		r, err := router.DB(ctx, tenantdb.Operation{Kind: tenantdb.Read, Family: tenantdb.FamilyTenant})
		require.NoError(t, err)
		w, err := router.DB(ctx, tenantdb.Operation{Kind: tenantdb.Write, Family: tenantdb.FamilyTenant})
		require.NoError(t, err)
		assert.Same(t, r, w)
	})

	t.Run("registry failure surfaces", func(t *testing.T) {
		t.Parallel()
		ctx := tenant.WithID(context.Background(), 13)
		_, err := router.DB(ctx, tenantdb.Operation{Family: tenantdb.FamilyTenant})
		assert.Error(t, err)
	})
}

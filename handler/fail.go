package handler

import "net/http"

// Fail returns a Response that hands err to the ErrorHandler configured on
// Wrap, so handler failures are mapped and logged in one place. Rendered
// outside Wrap it falls back to JSONError.
func Fail(err error) Response {
	return failure{err: err}
}

type failure struct {
	err error
}

func (f failure) Render(w http.ResponseWriter, r *http.Request) error {
	return JSONError(f.err).Render(w, r)
}

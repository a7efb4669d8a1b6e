// Package handler provides typed HTTP handlers that bind requests into
// structs and answer with JSON envelopes.
//
//	type CreateOrgRequest struct {
//		Name string `json:"name" form:"name"`
//	}
//
//	r.Post("/organizations", handler.Wrap(createOrg,
//		handler.WithBinders[CreateOrgRequest](binder.JSON(), binder.Form()),
//		handler.WithErrorHandler[CreateOrgRequest](errorHandler),
//	))
//
// Every response body has the shape {"data": ...} or
// {"error": {"code": ..., "message": ...}}. Errors wrapping an HTTPError take
// its status and key; validator.ValidationErrors become 422 with per-field
// details; anything else is a 500 with a generic message.
package handler

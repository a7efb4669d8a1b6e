// Package binder fills request structs from HTTP requests.
//
// Each binder reads one source and only touches fields carrying its tag:
// JSON uses encoding/json names, Form reads `form` tags, Query reads `query`
// tags. JSON and Form return ErrBinderNotApplicable for requests in another
// content type, which lets one endpoint accept both:
//
//	type LoginRequest struct {
//		Email    string `json:"email" form:"email"`
//		Password string `json:"password" form:"password"`
//	}
//
//	r.Post("/login", handler.Wrap(login,
//		handler.WithBinders[LoginRequest](binder.JSON(), binder.Form()),
//	))
package binder

// Package api exposes the identity and organization flows over HTTP.
//
// Every /api request passes through the tenant middleware: with an X-TENANT
// header the request is bound to that tenant and register, login and
// /users/me act on the tenant's own users; without it they act on core
// users. Organization management and email verification exist only in core
// scope. Responses use the handler package JSON envelope.
package api

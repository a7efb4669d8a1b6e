// Package email sends transactional emails (currently only address
// verification) through Postmark, falling back to a LogSender when no
// Postmark credentials are configured.
package email

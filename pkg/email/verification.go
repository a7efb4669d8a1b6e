package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

const TagEmailVerification = "email-verification"

var verificationTemplate = template.Must(template.New("verify").Parse(
	`<p>Welcome to {{.AppName}}.</p>
<p>Please confirm your email address by opening the link below:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>The link expires in {{.ExpiresIn}}.</p>`))

// VerificationEmail builds the message sent after core registration.
// The link points at GET {baseURL}/api/auth/verify?token=...
func VerificationEmail(appName, baseURL, to, token, expiresIn string) (SendEmailParams, error) {
	link := strings.TrimRight(baseURL, "/") + "/api/auth/verify?token=" + url.QueryEscape(token)

	var body bytes.Buffer
	if err := verificationTemplate.Execute(&body, struct {
		AppName, Link, ExpiresIn string
	}{appName, link, expiresIn}); err != nil {
		return SendEmailParams{}, fmt.Errorf("render verification email: %w", err)
	}

	return SendEmailParams{
		SendTo:   to,
		Subject:  "Verify your email for " + appName,
		BodyHTML: body.String(),
		Tag:      TagEmailVerification,
	}, nil
}

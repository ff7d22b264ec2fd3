package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const VerificationEmailSubject = "Verification code!"

var verificationEmailTmpl = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Verification Code</title></head>
<body style="font-family: Roboto, Verdana, sans-serif;">
  <h2>Hello {{.Username}},</h2>
  <p>Thank you for registering. Please use the following verification code to complete your registration:</p>
  <p style="font-size: 24px; letter-spacing: 4px;"><strong>{{.Code}}</strong></p>
  <p>This code expires in {{.ValidFor}}.</p>
  <p>If you did not request this code, please ignore this email.</p>
</body>
</html>
`))

// RenderVerificationEmail returns the HTML body sent to a pending account.
func RenderVerificationEmail(username, code string, validFor time.Duration) (string, error) {
	var buf bytes.Buffer
	err := verificationEmailTmpl.Execute(&buf, struct {
		Username string
		Code     string
		ValidFor string
	}{username, code, humanDuration(validFor)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func humanDuration(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d > time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", d/time.Minute)
	}
	return d.String()
}

// Package email builds the subjects and HTML bodies shared by every
// notifier implementation, so the copy and link format stay identical no
// matter which delivery mechanism is configured.
package email

import "fmt"

// VerificationLink returns the URL a verification mail points at.
func VerificationLink(baseURL, token string) string {
	return fmt.Sprintf("%s/verify-email?token=%s", baseURL, token)
}

// PasswordResetLink returns the URL a password-reset mail points at.
func PasswordResetLink(baseURL, token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", baseURL, token)
}

// Verification returns the subject and HTML body for an email-verification
// message.
func Verification(appName, token, baseURL string) (subject, html string) {
	link := VerificationLink(baseURL, token)
	subject = fmt.Sprintf("Verify your %s email", appName)
	html = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>Verify your email</h1>
  <p>Thank you for signing up for %s!</p>
  <p>Please click the link below to verify your email address:</p>
  <p><a href="%s" style="background-color: #0070f3; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Verify Email</a></p>
  <p>Or copy and paste this URL into your browser:</p>
  <p style="word-break: break-all;">%s</p>
  <p>This link will expire in 24 hours.</p>
</div>`, appName, link, link)
	return subject, html
}

// PasswordReset returns the subject and HTML body for a password-reset
// message.
func PasswordReset(appName, token, baseURL string) (subject, html string) {
	link := PasswordResetLink(baseURL, token)
	subject = fmt.Sprintf("Reset your %s password", appName)
	html = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>Reset your password</h1>
  <p>You requested to reset your password for %s.</p>
  <p>Click the link below to reset your password:</p>
  <p><a href="%s" style="background-color: #0070f3; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Reset Password</a></p>
  <p>Or copy and paste this URL into your browser:</p>
  <p style="word-break: break-all;">%s</p>
  <p>This link will expire in 1 hour.</p>
  <p>If you didn't request this, please ignore this email.</p>
</div>`, appName, link, link)
	return subject, html
}

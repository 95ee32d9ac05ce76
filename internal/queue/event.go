// Package queue defines message payloads exchanged over the message broker.
package queue

// PasswordResetRequestedEvent is published when a user asks for a
// password-reset link. The consumer delivers the email out of band so
// a slow or failing SMTP server never delays the HTTP response.
type PasswordResetRequestedEvent struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	ResetLink   string `json:"reset_link"`
	RequestedAt string `json:"requested_at"`
}

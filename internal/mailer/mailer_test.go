package mailer

import (
	"strings"
	"testing"
)

func TestBuildResetMessage(t *testing.T) {
	msg := string(BuildResetMessage("noreply@inkwell.app", "user@example.com", "https://inkwell.app/reset-password?token=abc"))

	for _, want := range []string{
		"From: noreply@inkwell.app\r\n",
		"To: user@example.com\r\n",
		"Subject: Password Reset Request\r\n",
		"https://inkwell.app/reset-password?token=abc\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
	// Headers and body must be separated by a blank line.
	if !strings.Contains(msg, "\r\n\r\n") {
		t.Fatalf("message has no header/body separator:\n%s", msg)
	}
}

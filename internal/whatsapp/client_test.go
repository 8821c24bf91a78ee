package whatsapp

import (
	"strings"
	"testing"
)

func TestDeepLink_NormalizesNumberAndEscapesMessage(t *testing.T) {
	link := DeepLink("0612345678", "Your quote is ready & waiting")

	if !strings.HasPrefix(link, "https://wa.me/31612345678?text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	if strings.Contains(link, "&waiting") {
		t.Fatalf("message not escaped: %s", link)
	}
}

func TestSendMessage_NilClientIsSafe(t *testing.T) {
	var c *Client
	if err := c.SendMessage(t.Context(), "0612345678", "hello"); err != nil {
		t.Fatalf("expected nil client send to be a no-op, got %v", err)
	}
}

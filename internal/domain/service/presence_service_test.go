package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"solelink/internal/domain/entity"
)

func TestTypingLabel(t *testing.T) {
	conversation := &entity.Conversation{
		UserID:   "client-1",
		VendorID: "vendor-1",
		Typing:   map[string]bool{},
	}

	assert.Equal(t, "", TypingLabel(conversation, "client-1"), "nobody typing")

	conversation.Typing["vendor-1"] = true
	assert.Equal(t, "Vendor is typing...", TypingLabel(conversation, "client-1"))

	// The viewer's own flag never produces a label.
	assert.Equal(t, "", TypingLabel(conversation, "vendor-1"))

	conversation.Typing["vendor-1"] = false
	conversation.Typing["client-1"] = true
	assert.Equal(t, "Client is typing...", TypingLabel(conversation, "vendor-1"))

	// Participant not matching either role falls back to the generic label.
	other := &entity.Conversation{
		UserID:   "client-1",
		VendorID: "vendor-1",
		Typing:   map[string]bool{"someone-else": true},
	}
	assert.Equal(t, "Typing...", TypingLabel(other, "client-1"))
}

func TestTypingLabelNilMap(t *testing.T) {
	conversation := &entity.Conversation{UserID: "client-1", VendorID: "vendor-1"}
	assert.Equal(t, "", TypingLabel(conversation, "client-1"))
}

func TestPresenceLabel(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		updated time.Time
		want    string
	}{
		{"just now", now.Add(-30 * time.Second), "Online"},
		{"under two minutes", now.Add(-119 * time.Second), "Online"},
		{"minutes ago", now.Add(-30 * time.Minute), "Last seen 30 min ago"},
		{"two minutes exactly", now.Add(-2 * time.Minute), "Last seen 2 min ago"},
		{"hours ago", now.Add(-5 * time.Hour), "Last seen 5h ago"},
		{"days ago", now.Add(-72 * time.Hour), "Last seen 3d ago"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conversation := &entity.Conversation{UpdatedAt: tc.updated}
			assert.Equal(t, tc.want, PresenceLabel(conversation, now))
		})
	}
}

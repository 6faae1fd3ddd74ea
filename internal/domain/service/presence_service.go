package service

import (
	"fmt"
	"time"

	"solelink/internal/domain/entity"
)

// TypingLabel derives the indicator text shown to viewerID from the raw
// per-user typing flags on the conversation. Empty string means nobody
// else is typing.
func TypingLabel(conversation *entity.Conversation, viewerID string) string {
	for userID, isTyping := range conversation.Typing {
		if userID == viewerID || !isTyping {
			continue
		}
		switch userID {
		case conversation.VendorID:
			return "Vendor is typing..."
		case conversation.UserID:
			return "Client is typing..."
		default:
			return "Typing..."
		}
	}
	return ""
}

// PresenceLabel approximates the counterpart's presence from the
// conversation's last activity. This is recency of writes, not a real
// online/offline signal, and is labeled accordingly.
func PresenceLabel(conversation *entity.Conversation, now time.Time) string {
	age := now.Sub(conversation.UpdatedAt)

	switch {
	case age < 2*time.Minute:
		return "Online"
	case age < time.Hour:
		return fmt.Sprintf("Last seen %d min ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("Last seen %dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("Last seen %dd ago", int(age.Hours()/24))
	}
}

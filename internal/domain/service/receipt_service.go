package service

import "solelink/internal/domain/entity"

// Receipt is the delivery state rendered next to a sent message.
type Receipt int

const (
	ReceiptNone      Receipt = iota // not the viewer's own message
	ReceiptDelivered                // persisted, not yet read by every counterpart
	ReceiptSeen                     // read by every other participant
)

func (r Receipt) String() string {
	switch r {
	case ReceiptDelivered:
		return "delivered"
	case ReceiptSeen:
		return "seen"
	default:
		return "none"
	}
}

// ReceiptFor derives the receipt state of one message as seen by viewerID.
// Only the sender's own messages carry a receipt. "Seen" requires every
// other participant to appear in readBy.
func ReceiptFor(message *entity.Message, viewerID string, otherParticipantIDs []string) Receipt {
	if message.SenderID != viewerID {
		return ReceiptNone
	}

	for _, id := range otherParticipantIDs {
		if !message.ReadByUser(id) {
			return ReceiptDelivered
		}
	}

	if len(otherParticipantIDs) == 0 {
		return ReceiptDelivered
	}
	return ReceiptSeen
}

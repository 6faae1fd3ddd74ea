package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"solelink/internal/domain/entity"
)

func TestReceiptFor(t *testing.T) {
	others := []string{"vendor-1"}

	incoming := &entity.Message{SenderID: "vendor-1", ReadBy: []string{"vendor-1"}}
	assert.Equal(t, ReceiptNone, ReceiptFor(incoming, "client-1", others),
		"receipts only decorate the viewer's own messages")

	sent := &entity.Message{SenderID: "client-1", ReadBy: []string{"client-1"}}
	assert.Equal(t, ReceiptDelivered, ReceiptFor(sent, "client-1", others))

	seen := &entity.Message{SenderID: "client-1", ReadBy: []string{"client-1", "vendor-1"}}
	assert.Equal(t, ReceiptSeen, ReceiptFor(seen, "client-1", others))
}

func TestReceiptForNoCounterpart(t *testing.T) {
	// A legacy conversation may have no resolvable counterpart yet; a sent
	// message must not claim "seen" when nobody could have read it.
	sent := &entity.Message{SenderID: "client-1", ReadBy: []string{"client-1"}}
	assert.Equal(t, ReceiptDelivered, ReceiptFor(sent, "client-1", nil))
}

func TestReceiptString(t *testing.T) {
	assert.Equal(t, "none", ReceiptNone.String())
	assert.Equal(t, "delivered", ReceiptDelivered.String())
	assert.Equal(t, "seen", ReceiptSeen.String())
}

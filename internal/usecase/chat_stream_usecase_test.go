package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"solelink/internal/domain/entity"
	"solelink/pkg/errors"
)

func TestSubscribeConversationsBuildsViews(t *testing.T) {
	repo := newFakeChatRepository(&callLog{})
	uc := NewChatStreamUseCase(repo)
	ctx := context.Background()

	conversation := seedConversation(repo, "client-1", "vendor-1")
	conversation.Typing = map[string]bool{"vendor-1": true}

	var received []*ConversationView
	cancel, err := uc.SubscribeConversations(ctx, "client-1", func(views []*ConversationView) {
		received = views
	})
	assert.NoError(t, err)
	defer cancel()

	if assert.Len(t, received, 1) {
		view := received[0]
		assert.Equal(t, "Sole Repair Co", view.DisplayName, "the client sees the vendor's name")
		assert.Equal(t, "Vendor is typing...", view.TypingLabel)
		assert.Equal(t, "Online", view.PresenceLabel, "fresh activity reads as online")
		assert.NotEmpty(t, view.Time)
	}
}

func TestSubscribeConversationsVendorSeesClientName(t *testing.T) {
	repo := newFakeChatRepository(&callLog{})
	uc := NewChatStreamUseCase(repo)
	ctx := context.Background()

	seedConversation(repo, "client-1", "vendor-1")

	var received []*ConversationView
	cancel, err := uc.SubscribeConversations(ctx, "vendor-1", func(views []*ConversationView) {
		received = views
	})
	assert.NoError(t, err)
	defer cancel()

	if assert.Len(t, received, 1) {
		assert.Equal(t, "Alice", received[0].DisplayName)
		assert.Equal(t, "", received[0].TypingLabel)
	}
}

func TestSubscribeConversationsBackfillsLegacyDocs(t *testing.T) {
	repo := newFakeChatRepository(&callLog{})
	uc := NewChatStreamUseCase(repo)
	ctx := context.Background()

	repo.legacy = []*entity.Conversation{
		{ID: "legacy-1", UserID: "client-1", VendorID: "vendor-9"},
		{ID: "legacy-2", UserID: "client-1"},
	}

	cancel, err := uc.SubscribeConversations(ctx, "client-1", func([]*ConversationView) {})
	assert.NoError(t, err)
	defer cancel()

	assert.Equal(t, []string{"client-1", "vendor-9"}, repo.backfilled["legacy-1"])
	assert.Equal(t, []string{"client-1"}, repo.backfilled["legacy-2"],
		"a legacy doc missing its vendor still becomes visible to the client")
}

func TestSubscribeConversationsRequiresViewer(t *testing.T) {
	uc := NewChatStreamUseCase(newFakeChatRepository(&callLog{}))

	_, err := uc.SubscribeConversations(context.Background(), "", func([]*ConversationView) {})
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestSubscribeMessagesBuildsTimeline(t *testing.T) {
	repo := newFakeChatRepository(&callLog{})
	uc := NewChatStreamUseCase(repo)
	ctx := context.Background()

	conversation := seedConversation(repo, "client-1", "vendor-1")
	now := time.Now()
	repo.messages[conversation.ID] = []*entity.Message{
		{ID: "m1", SenderID: "client-1", Text: "how much for a resole?", Timestamp: now.Add(-time.Hour), ReadBy: []string{"client-1", "vendor-1"}},
		{ID: "m2", SenderID: "vendor-1", Text: "$40, two day turnaround", Timestamp: now, ReadBy: []string{"vendor-1"}},
	}

	var timeline *MessageTimeline
	cancel, err := uc.SubscribeMessages(ctx, "client-1", conversation.ID, func(t *MessageTimeline) {
		timeline = t
	})
	assert.NoError(t, err)
	defer cancel()

	if assert.NotNil(t, timeline) {
		assert.Equal(t, 2, timeline.Total)
		if assert.Len(t, timeline.Groups, 1) {
			group := timeline.Groups[0]
			assert.Equal(t, "Today", group.Label)
			assert.Equal(t, "seen", group.Messages[0].Receipt, "own message read by the counterpart")
			assert.Equal(t, "none", group.Messages[1].Receipt, "incoming messages carry no receipt")
		}
	}
}

func TestSubscribeMessagesRejectsNonParticipant(t *testing.T) {
	repo := newFakeChatRepository(&callLog{})
	uc := NewChatStreamUseCase(repo)

	conversation := seedConversation(repo, "client-1", "vendor-1")

	_, err := uc.SubscribeMessages(context.Background(), "intruder", conversation.ID, func(*MessageTimeline) {})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSubscribeMessagesUnknownConversation(t *testing.T) {
	uc := NewChatStreamUseCase(newFakeChatRepository(&callLog{}))

	_, err := uc.SubscribeMessages(context.Background(), "client-1", "missing", func(*MessageTimeline) {})
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

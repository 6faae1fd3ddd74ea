package usecase

import (
	"context"
	"log"
	"time"

	"solelink/internal/domain/entity"
	"solelink/internal/domain/repository"
	"solelink/pkg/errors"
)

// ChatStreamUseCase owns the live-query subscriptions behind the chat list
// and the open conversation screen. Every update pushes a fully derived view;
// subscribers never patch incremental state.
type ChatStreamUseCase struct {
	chatRepo repository.ChatRepository
}

func NewChatStreamUseCase(chatRepo repository.ChatRepository) *ChatStreamUseCase {
	return &ChatStreamUseCase{chatRepo: chatRepo}
}

// SubscribeConversations opens a live query over the viewer's conversation
// list. onUpdate fires with the full ordered list on the initial snapshot and
// after every change, until the returned cancel func runs or ctx ends.
func (u *ChatStreamUseCase) SubscribeConversations(ctx context.Context, viewerID string, onUpdate func([]*ConversationView)) (repository.CancelFunc, error) {
	if viewerID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	// Patch pre-participantIds conversations before the participant query
	// attaches, so they show up in the first snapshot.
	u.backfillLegacyConversations(ctx, viewerID)

	return u.chatRepo.ListenConversations(ctx, viewerID, func(conversations []*entity.Conversation) {
		onUpdate(buildConversationViews(conversations, viewerID, time.Now(), time.Local))
	})
}

// backfillLegacyConversations runs once per subscription. It is best effort:
// a conversation it misses is picked up the next time the viewer connects.
func (u *ChatStreamUseCase) backfillLegacyConversations(ctx context.Context, viewerID string) {
	legacy, err := u.chatRepo.ListLegacyConversations(ctx, viewerID)
	if err != nil {
		log.Printf("Warning: legacy conversation scan failed for user %s: %v", viewerID, err)
		return
	}

	for _, conversation := range legacy {
		participantIDs := make([]string, 0, 2)
		if conversation.UserID != "" {
			participantIDs = append(participantIDs, conversation.UserID)
		}
		if conversation.VendorID != "" && conversation.VendorID != conversation.UserID {
			participantIDs = append(participantIDs, conversation.VendorID)
		}
		if len(participantIDs) == 0 {
			continue
		}

		if err := u.chatRepo.SetParticipantIDs(ctx, conversation.ID, participantIDs); err != nil {
			log.Printf("Warning: failed to backfill conversation %s: %v", conversation.ID, err)
		}
	}
}

// SubscribeMessages opens a live query over one conversation's messages after
// verifying the viewer is a participant. onUpdate receives the full grouped
// timeline on every change.
func (u *ChatStreamUseCase) SubscribeMessages(ctx context.Context, viewerID, conversationID string, onUpdate func(*MessageTimeline)) (repository.CancelFunc, error) {
	conversation, err := u.chatRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(viewerID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}

	otherParticipantIDs := conversation.OtherParticipantIDs(viewerID)

	return u.chatRepo.ListenMessages(ctx, conversationID, func(messages []*entity.Message) {
		onUpdate(buildMessageTimeline(conversationID, messages, viewerID, otherParticipantIDs, time.Now(), time.Local))
	})
}

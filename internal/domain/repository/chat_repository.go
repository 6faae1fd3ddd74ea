package repository

import (
	"context"

	"solelink/internal/domain/entity"
)

// CancelFunc stops a live query. After it returns no further callbacks fire.
type CancelFunc func()

type ChatRepository interface {
	GetConversation(ctx context.Context, id string) (*entity.Conversation, error)
	// CreateConversation writes a new conversation document under its
	// pre-assigned ID. Returns a CONFLICT error if the document already
	// exists.
	CreateConversation(ctx context.Context, conversation *entity.Conversation) error
	ListConversations(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error)
	// ListenConversations establishes a live query over every conversation
	// whose participantIds contains userID, ordered by updatedAt descending.
	// onUpdate receives the full ordered list on the initial snapshot and on
	// every subsequent change.
	ListenConversations(ctx context.Context, userID string, onUpdate func([]*entity.Conversation)) (CancelFunc, error)
	UpdateConversationSummary(ctx context.Context, conversationID, lastMessage, lastSenderID string) error
	SetTyping(ctx context.Context, conversationID, userID string, isTyping bool) error

	CreateMessage(ctx context.Context, conversationID string, message *entity.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error)
	// ListenMessages establishes a live query over one conversation's message
	// subcollection, ordered by timestamp ascending.
	ListenMessages(ctx context.Context, conversationID string, onUpdate func([]*entity.Message)) (CancelFunc, error)
	MarkMessageRead(ctx context.Context, conversationID, messageID, userID string) error

	// Legacy schema support: conversations written before participantIds
	// existed carry only userId/vendorId fields.
	ListLegacyConversations(ctx context.Context, userID string) ([]*entity.Conversation, error)
	SetParticipantIDs(ctx context.Context, conversationID string, participantIDs []string) error
}

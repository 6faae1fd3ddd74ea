package repository

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"solelink/internal/domain/entity"
	"solelink/internal/domain/repository"
	"solelink/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) GetConversation(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	var conversation entity.Conversation
	if err := doc.DataTo(&conversation); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}
	conversation.ID = doc.Ref.ID

	return &conversation, nil
}

func (r *firestoreChatRepository) CreateConversation(ctx context.Context, conversation *entity.Conversation) error {
	_, err := r.client.Collection("chats").Doc(conversation.ID).Create(ctx, conversation)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Conversation already exists")
		}
		return errors.Internal("Failed to create conversation", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListConversations(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error) {
	query := r.client.Collection("chats").
		Where("participantIds", "array-contains", userID).
		OrderBy("updatedAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching conversations for user %s: %v", userID, err)
		return nil, 0, errors.Internal("Failed to fetch conversations", err)
	}

	total := int64(len(allDocs))

	start := offset
	end := len(allDocs)
	if limit > 0 {
		end = start + limit
		if end > len(allDocs) {
			end = len(allDocs)
		}
	}
	if start > len(allDocs) {
		start = len(allDocs)
	}

	var conversations []*entity.Conversation
	for i := start; i < end; i++ {
		var conversation entity.Conversation
		if err := allDocs[i].DataTo(&conversation); err != nil {
			log.Printf("Error parsing conversation data for user %s: %v", userID, err)
			continue // Skip bad data instead of failing
		}
		conversation.ID = allDocs[i].Ref.ID
		conversations = append(conversations, &conversation)
	}

	return conversations, total, nil
}

func (r *firestoreChatRepository) ListenConversations(ctx context.Context, userID string, onUpdate func([]*entity.Conversation)) (repository.CancelFunc, error) {
	query := r.client.Collection("chats").
		Where("participantIds", "array-contains", userID).
		OrderBy("updatedAt", firestore.Desc)

	listenCtx, cancel := context.WithCancel(ctx)
	snapshots := query.Snapshots(listenCtx)

	go func() {
		defer snapshots.Stop()
		for {
			snapshot, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Conversation listener for user %s stopped: %v", userID, err)
				}
				return
			}

			docs, err := snapshot.Documents.GetAll()
			if err != nil {
				log.Printf("Conversation listener for user %s failed to read snapshot: %v", userID, err)
				continue
			}

			conversations := make([]*entity.Conversation, 0, len(docs))
			for _, doc := range docs {
				var conversation entity.Conversation
				if err := doc.DataTo(&conversation); err != nil {
					log.Printf("Error parsing conversation data for user %s: %v", userID, err)
					continue
				}
				conversation.ID = doc.Ref.ID
				conversations = append(conversations, &conversation)
			}

			onUpdate(conversations)
		}
	}()

	return func() { cancel() }, nil
}

func (r *firestoreChatRepository) UpdateConversationSummary(ctx context.Context, conversationID, lastMessage, lastSenderID string) error {
	_, err := r.client.Collection("chats").Doc(conversationID).Update(ctx, []firestore.Update{
		{Path: "lastMessage", Value: lastMessage},
		{Path: "lastSenderId", Value: lastSenderID},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return errors.Internal("Failed to update conversation summary", err)
	}

	return nil
}

func (r *firestoreChatRepository) SetTyping(ctx context.Context, conversationID, userID string, isTyping bool) error {
	// Each participant owns only their own key under typing, so concurrent
	// writers never contend on the same field.
	_, err := r.client.Collection("chats").Doc(conversationID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"typing", userID}, Value: isTyping},
	})
	if err != nil {
		return errors.Internal("Failed to update typing state", err)
	}

	return nil
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, conversationID string, message *entity.Message) error {
	ref, _, err := r.client.Collection("chats").Doc(conversationID).Collection("messages").Add(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}
	message.ID = ref.ID

	return nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	iter := r.client.Collection("chats").Doc(conversationID).Collection("messages").
		OrderBy("timestamp", firestore.Asc).
		Documents(ctx)

	var messages []*entity.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating messages for conversation %s: %v", conversationID, err)
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			log.Printf("Error parsing message data for conversation %s: %v", conversationID, err)
			return nil, errors.Internal("Failed to parse message data", err)
		}
		message.ID = doc.Ref.ID

		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreChatRepository) ListenMessages(ctx context.Context, conversationID string, onUpdate func([]*entity.Message)) (repository.CancelFunc, error) {
	query := r.client.Collection("chats").Doc(conversationID).Collection("messages").
		OrderBy("timestamp", firestore.Asc)

	listenCtx, cancel := context.WithCancel(ctx)
	snapshots := query.Snapshots(listenCtx)

	go func() {
		defer snapshots.Stop()
		for {
			snapshot, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Message listener for conversation %s stopped: %v", conversationID, err)
				}
				return
			}

			docs, err := snapshot.Documents.GetAll()
			if err != nil {
				log.Printf("Message listener for conversation %s failed to read snapshot: %v", conversationID, err)
				continue
			}

			messages := make([]*entity.Message, 0, len(docs))
			for _, doc := range docs {
				var message entity.Message
				if err := doc.DataTo(&message); err != nil {
					log.Printf("Error parsing message data for conversation %s: %v", conversationID, err)
					continue
				}
				message.ID = doc.Ref.ID
				messages = append(messages, &message)
			}

			onUpdate(messages)
		}
	}()

	return func() { cancel() }, nil
}

func (r *firestoreChatRepository) MarkMessageRead(ctx context.Context, conversationID, messageID, userID string) error {
	docRef := r.client.Collection("chats").Doc(conversationID).Collection("messages").Doc(messageID)

	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "readBy", Value: firestore.ArrayUnion(userID)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			// Message not found in this conversation - silently skip
			log.Printf("MarkMessageRead: Message %s not found in conversation %s (may be old/deleted)", messageID, conversationID)
			return nil
		}
		return errors.Internal("Failed to update message read status", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListLegacyConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	asClient := r.client.Collection("chats").Where("userId", "==", userID)
	asVendor := r.client.Collection("chats").Where("vendorId", "==", userID)

	seen := make(map[string]bool)
	var legacy []*entity.Conversation

	for _, query := range []firestore.Query{asClient, asVendor} {
		docs, err := query.Documents(ctx).GetAll()
		if err != nil {
			return nil, errors.Internal("Failed to query legacy conversations", err)
		}

		for _, doc := range docs {
			if seen[doc.Ref.ID] {
				continue
			}
			seen[doc.Ref.ID] = true

			var conversation entity.Conversation
			if err := doc.DataTo(&conversation); err != nil {
				continue // Skip malformed documents
			}
			conversation.ID = doc.Ref.ID

			// Firestore cannot filter on a missing field, so the schema
			// check happens here.
			if len(conversation.ParticipantIDs) == 0 {
				legacy = append(legacy, &conversation)
			}
		}
	}

	return legacy, nil
}

func (r *firestoreChatRepository) SetParticipantIDs(ctx context.Context, conversationID string, participantIDs []string) error {
	_, err := r.client.Collection("chats").Doc(conversationID).Update(ctx, []firestore.Update{
		{Path: "participantIds", Value: participantIDs},
	})
	if err != nil {
		return errors.Internal("Failed to backfill participant IDs", err)
	}

	return nil
}

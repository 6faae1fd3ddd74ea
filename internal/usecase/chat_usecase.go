package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"solelink/internal/domain/entity"
	"solelink/internal/domain/repository"
	"solelink/internal/infrastructure/ratelimit"
	"solelink/pkg/errors"
	"solelink/pkg/utils"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	vendorRepo  repository.VendorRepository
	storage     AttachmentStorage
	pusher      RealtimePusher
	notifier    *NotificationUseCase
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	vendorRepo repository.VendorRepository,
	storage AttachmentStorage,
	pusher RealtimePusher,
	notifier *NotificationUseCase,
	rateLimiter *ratelimit.RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		vendorRepo:  vendorRepo,
		storage:     storage,
		pusher:      pusher,
		notifier:    notifier,
		rateLimiter: rateLimiter,
	}
}

type GetOrCreateConversationInput struct {
	VendorID   string `json:"vendor_id" validate:"required"`
	VendorName string `json:"vendor_name"`
	UserName   string `json:"user_name"`
}

// GetOrCreateConversation resolves the single conversation between a client
// and a vendor. Conversation identity is derived from the participant pair,
// so concurrent first contacts from both sides land on the same document.
func (u *ChatUseCase) GetOrCreateConversation(ctx context.Context, userID string, input GetOrCreateConversationInput) (*entity.Conversation, error) {
	if userID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if input.VendorID == "" {
		return nil, errors.BadRequest("Vendor ID is required", nil)
	}
	if userID == input.VendorID {
		return nil, errors.BadRequest("Cannot start a conversation with yourself", nil)
	}

	if allowed, retryAfter := u.rateLimiter.Allow(userID, "get_or_create"); !allowed {
		return nil, errors.TooManyRequests(fmt.Sprintf("Too many requests, retry in %v", retryAfter.Round(time.Second)))
	}

	conversationID := utils.ConversationID(userID, input.VendorID)

	existing, err := u.chatRepo.GetConversation(ctx, conversationID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		log.Printf("Error fetching conversation %s: %v", conversationID, err)
		return nil, err
	}

	conversation := &entity.Conversation{
		ID:             conversationID,
		ParticipantIDs: []string{userID, input.VendorID},
		UserID:         userID,
		VendorID:       input.VendorID,
		UserName:       u.resolveUserName(ctx, userID, input.UserName),
		VendorName:     u.resolveVendorName(ctx, input.VendorID, input.VendorName),
		Typing:         map[string]bool{},
	}

	if err := u.chatRepo.CreateConversation(ctx, conversation); err != nil {
		if errors.Is(err, "CONFLICT") {
			// The other side created it between our read and write; the
			// store kept exactly one document either way.
			return u.chatRepo.GetConversation(ctx, conversationID)
		}
		log.Printf("Error creating conversation %s: %v", conversationID, err)
		return nil, err
	}

	return conversation, nil
}

func (u *ChatUseCase) resolveUserName(ctx context.Context, userID, provided string) string {
	if provided != "" {
		return provided
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("Could not resolve name for user %s: %v", userID, err)
		return "Client"
	}
	if user.Email != "" {
		return user.Email
	}
	return "Client"
}

func (u *ChatUseCase) resolveVendorName(ctx context.Context, vendorID, provided string) string {
	if provided != "" {
		return provided
	}
	vendor, err := u.vendorRepo.GetByUserID(ctx, vendorID)
	if err != nil || vendor.BusinessName == "" {
		if err != nil {
			log.Printf("Could not resolve name for vendor %s: %v", vendorID, err)
		}
		return "Vendor"
	}
	return vendor.BusinessName
}

type AttachmentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type SendMessageInput struct {
	ConversationID string
	Text           string
	Attachment     *AttachmentUpload
}

// SendMessage validates, uploads the attachment if any, creates the message,
// then updates the conversation summary. The upload strictly precedes the
// message write so a message never references an object that does not exist.
func (u *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*entity.Message, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" && input.Attachment == nil {
		return nil, errors.BadRequest("Message text or attachment is required", nil)
	}

	if allowed, retryAfter := u.rateLimiter.Allow(senderID, "send_message"); !allowed {
		return nil, errors.TooManyRequests(fmt.Sprintf("Sending too fast, retry in %v", retryAfter.Round(time.Second)))
	}

	conversation, err := u.chatRepo.GetConversation(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(senderID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}

	message := &entity.Message{
		SenderID: senderID,
		Text:     text,
		ReadBy:   []string{senderID},
	}

	if input.Attachment != nil {
		fileName := input.Attachment.FileName
		if fileName == "" {
			fileName = "attachment"
		}
		contentType := input.Attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		url, err := u.storage.UploadChatAttachment(ctx, conversation.ID, fileName, contentType, input.Attachment.Content)
		if err != nil {
			log.Printf("Error uploading attachment to conversation %s: %v", conversation.ID, err)
			return nil, errors.Internal("Failed to upload attachment", err)
		}

		message.FileURL = url
		message.FileName = fileName
		message.FileType = contentType
		message.FileSize = input.Attachment.Size
	}

	if err := u.chatRepo.CreateMessage(ctx, conversation.ID, message); err != nil {
		log.Printf("Error creating message in conversation %s: %v", conversation.ID, err)
		return nil, errors.Internal("Failed to send message", err)
	}

	summary := text
	if summary == "" {
		summary = "Sent: " + message.FileName
	}
	if err := u.chatRepo.UpdateConversationSummary(ctx, conversation.ID, summary, senderID); err != nil {
		// The message is already persisted; a stale summary heals on the
		// next successful send.
		log.Printf("Warning: failed to update summary for conversation %s: %v", conversation.ID, err)
	}

	u.notifyParticipants(ctx, conversation, message, summary)

	return message, nil
}

func (u *ChatUseCase) notifyParticipants(ctx context.Context, conversation *entity.Conversation, message *entity.Message, preview string) {
	recipients := conversation.OtherParticipantIDs(message.SenderID)
	if len(recipients) == 0 {
		return
	}

	senderName := conversation.UserName
	if message.SenderID == conversation.VendorID {
		senderName = conversation.VendorName
	}
	if senderName == "" {
		senderName = "New message"
	}

	if u.pusher != nil {
		payload, err := json.Marshal(map[string]interface{}{
			"type":            "new_message",
			"conversation_id": conversation.ID,
			"message":         message,
		})
		if err == nil {
			for _, recipientID := range recipients {
				u.pusher.SendToUser(recipientID, payload)
			}
		}
	}

	if u.notifier != nil {
		// Skip push for recipients with a live session; they already saw it.
		offline := recipients
		if u.pusher != nil {
			offline = make([]string, 0, len(recipients))
			for _, recipientID := range recipients {
				if !u.pusher.IsConnected(recipientID) {
					offline = append(offline, recipientID)
				}
			}
		}
		u.notifier.NotifyNewMessage(ctx, offline, senderName, preview, conversation.ID)
	}
}

// MarkConversationRead records the viewer in the readBy set of every message
// they have not read yet. Each message is patched independently, so a partial
// failure leaves earlier receipts in place and retries converge.
func (u *ChatUseCase) MarkConversationRead(ctx context.Context, userID, conversationID string) error {
	conversation, err := u.chatRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(userID) {
		return errors.Forbidden("You are not a participant in this conversation", nil)
	}

	messages, err := u.chatRepo.ListMessages(ctx, conversationID)
	if err != nil {
		log.Printf("Error listing messages for conversation %s: %v", conversationID, err)
		return errors.Internal("Failed to mark conversation read", err)
	}

	for _, message := range messages {
		if message.SenderID == userID || message.ReadByUser(userID) {
			continue
		}
		if err := u.chatRepo.MarkMessageRead(ctx, conversationID, message.ID, userID); err != nil {
			log.Printf("Warning: failed to mark message %s read: %v", message.ID, err)
		}
	}

	return nil
}

// SetTyping flips the viewer's flag in the conversation's typing map. Calls
// beyond the rate limit are dropped silently; a lost typing signal is not an
// error the client can act on.
func (u *ChatUseCase) SetTyping(ctx context.Context, userID, conversationID string, isTyping bool) error {
	if allowed, _ := u.rateLimiter.Allow(userID, "typing"); !allowed {
		return nil
	}

	conversation, err := u.chatRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(userID) {
		return errors.Forbidden("You are not a participant in this conversation", nil)
	}

	if err := u.chatRepo.SetTyping(ctx, conversationID, userID, isTyping); err != nil {
		log.Printf("Error setting typing for user %s in conversation %s: %v", userID, conversationID, err)
		return errors.Internal("Failed to update typing state", err)
	}
	return nil
}

// GetConversation returns one conversation as the viewer sees it.
func (u *ChatUseCase) GetConversation(ctx context.Context, userID, conversationID string) (*ConversationView, error) {
	conversation, err := u.chatRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}
	return buildConversationView(conversation, userID, time.Now(), time.Local), nil
}

// ListConversations returns a page of the viewer's conversations, newest
// activity first, decorated for display.
func (u *ChatUseCase) ListConversations(ctx context.Context, userID string, limit, offset int) ([]*ConversationView, int64, error) {
	conversations, total, err := u.chatRepo.ListConversations(ctx, userID, limit, offset)
	if err != nil {
		log.Printf("Error listing conversations for user %s: %v", userID, err)
		return nil, 0, errors.Internal("Failed to list conversations", err)
	}
	return buildConversationViews(conversations, userID, time.Now(), time.Local), total, nil
}

// GetMessages returns the conversation's full message history grouped under
// date separators, with per-message receipt state for the viewer.
func (u *ChatUseCase) GetMessages(ctx context.Context, userID, conversationID string) (*MessageTimeline, error) {
	conversation, err := u.chatRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}

	messages, err := u.chatRepo.ListMessages(ctx, conversationID)
	if err != nil {
		log.Printf("Error listing messages for conversation %s: %v", conversationID, err)
		return nil, errors.Internal("Failed to load messages", err)
	}

	return buildMessageTimeline(conversationID, messages, userID, conversation.OtherParticipantIDs(userID), time.Now(), time.Local), nil
}

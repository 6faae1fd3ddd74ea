package usecase

import (
	"context"
	"log"

	"solelink/internal/domain/entity"
	"solelink/internal/domain/repository"
	"solelink/pkg/errors"
)

type NotificationUseCase struct {
	tokenRepo repository.DeviceTokenRepository
	pusher    PushSender
}

func NewNotificationUseCase(tokenRepo repository.DeviceTokenRepository, pusher PushSender) *NotificationUseCase {
	return &NotificationUseCase{
		tokenRepo: tokenRepo,
		pusher:    pusher,
	}
}

type RegisterTokenInput struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"omitempty,oneof=ios android web"`
}

func (u *NotificationUseCase) RegisterToken(ctx context.Context, userID string, input RegisterTokenInput) error {
	if userID == "" {
		return errors.Unauthorized("Authentication required", nil)
	}

	token := &entity.DeviceToken{
		UserID:   userID,
		Token:    input.Token,
		Platform: input.Platform,
	}
	if err := u.tokenRepo.Save(ctx, token); err != nil {
		log.Printf("Error saving device token for user %s: %v", userID, err)
		return errors.Internal("Failed to register device token", err)
	}
	return nil
}

func (u *NotificationUseCase) UnregisterToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return errors.BadRequest("Token is required", nil)
	}

	if err := u.tokenRepo.DeleteByToken(ctx, userID, token); err != nil {
		log.Printf("Error deleting device token for user %s: %v", userID, err)
		return errors.Internal("Failed to unregister device token", err)
	}
	return nil
}

// NotifyNewMessage pushes a new-message notification to every device the
// recipients registered. Delivery is best effort; failures are logged and
// never surface to the sender.
func (u *NotificationUseCase) NotifyNewMessage(ctx context.Context, recipientIDs []string, senderName, preview, conversationID string) {
	if u.pusher == nil {
		return
	}

	for _, recipientID := range recipientIDs {
		tokens, err := u.tokenRepo.ListByUserID(ctx, recipientID)
		if err != nil {
			log.Printf("Error listing device tokens for user %s: %v", recipientID, err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		values := make([]string, 0, len(tokens))
		for _, token := range tokens {
			values = append(values, token.Token)
		}

		u.pusher.SendToTokens(ctx, values, senderName, preview, map[string]string{
			"type":            "new_message",
			"conversation_id": conversationID,
		})
	}
}

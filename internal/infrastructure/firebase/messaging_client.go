package firebase

import (
	"context"

	"firebase.google.com/go/v4/messaging"

	"solelink/pkg/logger"
)

type MessagingClient struct {
	client *messaging.Client
}

func NewMessagingClient(client *messaging.Client) *MessagingClient {
	return &MessagingClient{
		client: client,
	}
}

// SendToTokens pushes one notification to every registered device token.
// Best effort: individual failures are logged and the call never fails the
// triggering operation.
func (m *MessagingClient) SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) {
	if len(tokens) == 0 {
		return
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	response, err := m.client.SendEachForMulticast(ctx, message)
	if err != nil {
		logger.Error("FCM multicast failed: %v", err)
		return
	}

	if response.FailureCount > 0 {
		for i, result := range response.Responses {
			if result.Error != nil {
				logger.Warn("FCM send to token %d failed: %v", i, result.Error)
			}
		}
	}
}

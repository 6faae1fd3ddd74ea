package repository

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"solelink/internal/domain/entity"
	"solelink/internal/domain/repository"
	"solelink/pkg/errors"
)

type firestoreDeviceTokenRepository struct {
	client *firestore.Client
}

func NewFirestoreDeviceTokenRepository(client *firestore.Client) repository.DeviceTokenRepository {
	return &firestoreDeviceTokenRepository{
		client: client,
	}
}

func (r *firestoreDeviceTokenRepository) Save(ctx context.Context, token *entity.DeviceToken) error {
	// Re-registering the same token for the same user overwrites the
	// existing document instead of stacking duplicates.
	existing := r.client.Collection("DeviceTokens").
		Where("userId", "==", token.UserID).
		Where("token", "==", token.Token).
		Limit(1)

	docs, err := existing.Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to check existing device token", err)
	}

	if len(docs) > 0 {
		token.ID = docs[0].Ref.ID
	} else if token.ID == "" {
		token.ID = uuid.New().String()
	}

	_, err = r.client.Collection("DeviceTokens").Doc(token.ID).Set(ctx, token)
	if err != nil {
		return errors.Internal("Failed to save device token", err)
	}

	return nil
}

func (r *firestoreDeviceTokenRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.DeviceToken, error) {
	docs, err := r.client.Collection("DeviceTokens").Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list device tokens", err)
	}

	var tokens []*entity.DeviceToken
	for _, doc := range docs {
		var token entity.DeviceToken
		if err := doc.DataTo(&token); err != nil {
			log.Printf("Error parsing device token for user %s: %v", userID, err)
			continue
		}
		token.ID = doc.Ref.ID
		tokens = append(tokens, &token)
	}

	return tokens, nil
}

func (r *firestoreDeviceTokenRepository) DeleteByToken(ctx context.Context, userID, token string) error {
	docs, err := r.client.Collection("DeviceTokens").
		Where("userId", "==", userID).
		Where("token", "==", token).
		Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to look up device token", err)
	}

	for _, doc := range docs {
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return errors.Internal("Failed to delete device token", err)
		}
	}

	return nil
}

package repository

import (
	"context"

	"solelink/internal/domain/entity"
)

type DeviceTokenRepository interface {
	Save(ctx context.Context, token *entity.DeviceToken) error
	ListByUserID(ctx context.Context, userID string) ([]*entity.DeviceToken, error)
	DeleteByToken(ctx context.Context, userID, token string) error
}

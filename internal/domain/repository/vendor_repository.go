package repository

import (
	"context"

	"solelink/internal/domain/entity"
)

type VendorRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Vendor, error)
	// Search filters by city and/or zip code; empty values are skipped.
	Search(ctx context.Context, city, zipCode string) ([]*entity.Vendor, error)
	Upsert(ctx context.Context, vendor *entity.Vendor) error
}

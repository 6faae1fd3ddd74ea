package usecase

import (
	"context"
	"log"

	"solelink/internal/domain/entity"
	"solelink/internal/domain/repository"
	"solelink/pkg/errors"
)

type VendorUseCase struct {
	vendorRepo repository.VendorRepository
	userRepo   repository.UserRepository
}

func NewVendorUseCase(vendorRepo repository.VendorRepository, userRepo repository.UserRepository) *VendorUseCase {
	return &VendorUseCase{
		vendorRepo: vendorRepo,
		userRepo:   userRepo,
	}
}

type RegisterVendorInput struct {
	BusinessName string   `json:"business_name" validate:"required"`
	City         string   `json:"city" validate:"required"`
	ZipCode      string   `json:"zip_code" validate:"required"`
	Services     []string `json:"services"`
	Description  string   `json:"description"`
}

// Register upserts the caller's entry in the vendor directory. Only
// vendor-role accounts may list themselves.
func (uc *VendorUseCase) Register(ctx context.Context, userID string, input RegisterVendorInput) (*entity.Vendor, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != entity.RoleVendor {
		return nil, errors.Forbidden("Only vendor accounts can join the directory", nil)
	}

	vendor := &entity.Vendor{
		ID:           userID,
		UserID:       userID,
		BusinessName: input.BusinessName,
		City:         input.City,
		ZipCode:      input.ZipCode,
		Services:     input.Services,
		Description:  input.Description,
	}
	if err := uc.vendorRepo.Upsert(ctx, vendor); err != nil {
		log.Printf("Error upserting vendor %s: %v", userID, err)
		return nil, errors.Internal("Failed to register vendor", err)
	}

	return vendor, nil
}

// Search returns vendors filtered by city and/or zip code. At least one
// filter is required; an unfiltered scan of the directory is not offered.
func (uc *VendorUseCase) Search(ctx context.Context, city, zipCode string) ([]*entity.Vendor, error) {
	if city == "" && zipCode == "" {
		return nil, errors.BadRequest("A city or zip filter is required", nil)
	}

	vendors, err := uc.vendorRepo.Search(ctx, city, zipCode)
	if err != nil {
		log.Printf("Error searching vendors (city=%q zip=%q): %v", city, zipCode, err)
		return nil, errors.Internal("Failed to search vendors", err)
	}
	return vendors, nil
}

func (uc *VendorUseCase) GetByID(ctx context.Context, vendorID string) (*entity.Vendor, error) {
	return uc.vendorRepo.GetByID(ctx, vendorID)
}

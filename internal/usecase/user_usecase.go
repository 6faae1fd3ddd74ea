package usecase

import (
	"context"
	"io"
	"log"

	"solelink/internal/domain/entity"
	"solelink/internal/domain/repository"
	"solelink/pkg/errors"
)

type UserUseCase struct {
	userRepo   repository.UserRepository
	vendorRepo repository.VendorRepository
	storage    AttachmentStorage
}

func NewUserUseCase(userRepo repository.UserRepository, vendorRepo repository.VendorRepository, storage AttachmentStorage) *UserUseCase {
	return &UserUseCase{
		userRepo:   userRepo,
		vendorRepo: vendorRepo,
		storage:    storage,
	}
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	BusinessName string   `json:"business_name"`
	City         string   `json:"city"`
	ZipCode      string   `json:"zip_code"`
	Services     []string `json:"services"`
	Description  string   `json:"description"`
}

// UpdateProfile patches the user document and, for vendors, keeps the
// searchable vendor directory entry in sync.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.BusinessName != "" {
		user.BusinessName = input.BusinessName
	}
	if input.City != "" {
		user.City = input.City
	}
	if input.ZipCode != "" {
		user.ZipCode = input.ZipCode
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		log.Printf("Error updating profile for user %s: %v", userID, err)
		return nil, errors.Internal("Failed to update profile", err)
	}

	if user.Role == entity.RoleVendor {
		vendor := &entity.Vendor{
			ID:           userID,
			UserID:       userID,
			BusinessName: user.BusinessName,
			City:         user.City,
			ZipCode:      user.ZipCode,
			Services:     input.Services,
			Description:  input.Description,
		}
		if err := uc.vendorRepo.Upsert(ctx, vendor); err != nil {
			log.Printf("Warning: failed to sync vendor directory for %s: %v", userID, err)
		}
	}

	return user, nil
}

// UpdateProfilePhoto uploads the photo and stores its public URL on the user.
func (uc *UserUseCase) UpdateProfilePhoto(ctx context.Context, userID, contentType string, file io.Reader) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := uc.storage.UploadProfilePhoto(ctx, userID, contentType, file)
	if err != nil {
		log.Printf("Error uploading profile photo for user %s: %v", userID, err)
		return nil, errors.Internal("Failed to upload profile photo", err)
	}

	previous := user.PhotoURL
	user.PhotoURL = url
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Internal("Failed to update profile", err)
	}

	if previous != "" && previous != url {
		if err := uc.storage.DeleteFile(ctx, previous); err != nil {
			log.Printf("Warning: failed to delete previous photo for user %s: %v", userID, err)
		}
	}

	return user, nil
}

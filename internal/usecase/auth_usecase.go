package usecase

import (
	"context"
	"log"

	"solelink/internal/domain/entity"
	"solelink/internal/domain/repository"
	"solelink/pkg/errors"
)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
	}
}

type RegisterInput struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Role         string `json:"role" validate:"required,oneof=client vendor"`
	BusinessName string `json:"business_name" validate:"required_if=Role vendor"`
	City         string `json:"city"`
	ZipCode      string `json:"zip_code"`
}

type AuthResult struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	displayName := input.Email
	if input.Role == entity.RoleVendor && input.BusinessName != "" {
		displayName = input.BusinessName
	}

	uid, err := uc.firebaseAuth.CreateUser(ctx, input.Email, input.Password, displayName)
	if err != nil {
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	user := &entity.User{
		ID:           uid,
		Email:        input.Email,
		Role:         input.Role,
		BusinessName: input.BusinessName,
		City:         input.City,
		ZipCode:      input.ZipCode,
		Provider:     "password",
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		log.Printf("Error creating user record for %s: %v", uid, err)
		return nil, errors.Internal("Failed to create user record", err)
	}

	token, _, err := uc.firebaseAuth.SignInWithPassword(ctx, input.Email, input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	token, uid, err := uc.firebaseAuth.SignInWithPassword(ctx, email, password)
	if err != nil {
		log.Printf("Login failed for %s: %v", email, err)
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		// Auth record exists without a profile document; treat as a fresh
		// client profile so sign-in still succeeds.
		if errors.Is(err, "NOT_FOUND") {
			user = &entity.User{ID: uid, Email: email, Role: entity.RoleClient, Provider: "password"}
			if err := uc.userRepo.Create(ctx, user); err != nil {
				log.Printf("Error backfilling user record for %s: %v", uid, err)
				return nil, errors.Internal("Failed to load user record", err)
			}
		} else {
			return nil, err
		}
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (uc *AuthUseCase) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

package usecase

import (
	"context"
	"io"
)

type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	GenerateToken(ctx context.Context, uid string) (string, error)
	SignInWithPassword(ctx context.Context, email, password string) (string, string, error)
	UpdateUserPassword(ctx context.Context, uid, newPassword string) error
}

// AttachmentStorage uploads chat attachments and profile photos to the
// object store and returns their public URLs.
type AttachmentStorage interface {
	UploadChatAttachment(ctx context.Context, conversationID, fileName, contentType string, file io.Reader) (string, error)
	UploadProfilePhoto(ctx context.Context, userID, contentType string, file io.Reader) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
}

// RealtimePusher delivers a payload to a user's live session, if any.
type RealtimePusher interface {
	SendToUser(userID string, message []byte)
	IsConnected(userID string) bool
}

// PushSender fans a notification out to a set of device tokens.
type PushSender interface {
	SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string)
}

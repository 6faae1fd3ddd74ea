package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"solelink/internal/domain/entity"
	"solelink/internal/domain/repository"
	"solelink/internal/infrastructure/ratelimit"
	"solelink/pkg/errors"
	"solelink/pkg/utils"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeChatRepository struct {
	mu            sync.Mutex
	conversations map[string]*entity.Conversation
	messages      map[string][]*entity.Message
	legacy        []*entity.Conversation
	backfilled    map[string][]string
	markReadCalls int
	getMisses     int
	nextMessageID int
	log           *callLog
}

func newFakeChatRepository(log *callLog) *fakeChatRepository {
	return &fakeChatRepository{
		conversations: map[string]*entity.Conversation{},
		messages:      map[string][]*entity.Message{},
		backfilled:    map[string][]string{},
		log:           log,
	}
}

func (r *fakeChatRepository) GetConversation(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getMisses > 0 {
		r.getMisses--
		return nil, errors.NotFound("Conversation", nil)
	}
	conversation, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return conversation, nil
}

func (r *fakeChatRepository) CreateConversation(ctx context.Context, conversation *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.conversations[conversation.ID]; exists {
		return errors.Conflict("Conversation already exists")
	}
	now := time.Now()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now
	r.conversations[conversation.ID] = conversation
	return nil
}

func (r *fakeChatRepository) ListConversations(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Conversation
	for _, conversation := range r.conversations {
		if conversation.HasParticipant(userID) {
			result = append(result, conversation)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, int64(len(result)), nil
}

func (r *fakeChatRepository) ListenConversations(ctx context.Context, userID string, onUpdate func([]*entity.Conversation)) (repository.CancelFunc, error) {
	conversations, _, _ := r.ListConversations(ctx, userID, 0, 0)
	onUpdate(conversations)
	return func() {}, nil
}

func (r *fakeChatRepository) UpdateConversationSummary(ctx context.Context, conversationID, lastMessage, lastSenderID string) error {
	r.log.add("UpdateConversationSummary")
	r.mu.Lock()
	defer r.mu.Unlock()
	conversation, ok := r.conversations[conversationID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	conversation.LastMessage = lastMessage
	conversation.LastSenderID = lastSenderID
	conversation.UpdatedAt = time.Now()
	return nil
}

func (r *fakeChatRepository) SetTyping(ctx context.Context, conversationID, userID string, isTyping bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conversation, ok := r.conversations[conversationID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	if conversation.Typing == nil {
		conversation.Typing = map[string]bool{}
	}
	conversation.Typing[userID] = isTyping
	return nil
}

func (r *fakeChatRepository) CreateMessage(ctx context.Context, conversationID string, message *entity.Message) error {
	r.log.add("CreateMessage")
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextMessageID++
	message.ID = fmt.Sprintf("message-%d", r.nextMessageID)
	message.Timestamp = time.Now()
	r.messages[conversationID] = append(r.messages[conversationID], message)
	return nil
}

func (r *fakeChatRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.Message(nil), r.messages[conversationID]...), nil
}

func (r *fakeChatRepository) ListenMessages(ctx context.Context, conversationID string, onUpdate func([]*entity.Message)) (repository.CancelFunc, error) {
	messages, _ := r.ListMessages(ctx, conversationID)
	onUpdate(messages)
	return func() {}, nil
}

func (r *fakeChatRepository) MarkMessageRead(ctx context.Context, conversationID, messageID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markReadCalls++
	for _, message := range r.messages[conversationID] {
		if message.ID == messageID && !message.ReadByUser(userID) {
			message.ReadBy = append(message.ReadBy, userID)
		}
	}
	return nil
}

func (r *fakeChatRepository) ListLegacyConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	return r.legacy, nil
}

func (r *fakeChatRepository) SetParticipantIDs(ctx context.Context, conversationID string, participantIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backfilled[conversationID] = participantIDs
	if conversation, ok := r.conversations[conversationID]; ok {
		conversation.ParticipantIDs = participantIDs
	}
	return nil
}

type fakeUserRepository struct {
	users map[string]*entity.User
}

func (r *fakeUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *fakeUserRepository) Update(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

type fakeVendorRepository struct {
	vendors map[string]*entity.Vendor
}

func (r *fakeVendorRepository) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	vendor, ok := r.vendors[id]
	if !ok {
		return nil, errors.NotFound("Vendor", nil)
	}
	return vendor, nil
}

func (r *fakeVendorRepository) GetByUserID(ctx context.Context, userID string) (*entity.Vendor, error) {
	return r.GetByID(ctx, userID)
}

func (r *fakeVendorRepository) Search(ctx context.Context, city, zipCode string) ([]*entity.Vendor, error) {
	var result []*entity.Vendor
	for _, vendor := range r.vendors {
		if city != "" && vendor.City != city {
			continue
		}
		if zipCode != "" && vendor.ZipCode != zipCode {
			continue
		}
		result = append(result, vendor)
	}
	return result, nil
}

func (r *fakeVendorRepository) Upsert(ctx context.Context, vendor *entity.Vendor) error {
	r.vendors[vendor.ID] = vendor
	return nil
}

type fakeStorage struct {
	log *callLog
}

func (s *fakeStorage) UploadChatAttachment(ctx context.Context, conversationID, fileName, contentType string, file io.Reader) (string, error) {
	s.log.add("UploadChatAttachment")
	io.Copy(io.Discard, file)
	return "https://storage.test/chatAttachments/" + conversationID + "/" + fileName, nil
}

func (s *fakeStorage) UploadProfilePhoto(ctx context.Context, userID, contentType string, file io.Reader) (string, error) {
	s.log.add("UploadProfilePhoto")
	io.Copy(io.Discard, file)
	return "https://storage.test/profilePhotos/" + userID, nil
}

func (s *fakeStorage) DeleteFile(ctx context.Context, fileURL string) error {
	s.log.add("DeleteFile")
	return nil
}

func newTestChatUseCase() (*ChatUseCase, *fakeChatRepository, *callLog) {
	log := &callLog{}
	chatRepo := newFakeChatRepository(log)
	userRepo := &fakeUserRepository{users: map[string]*entity.User{}}
	vendorRepo := &fakeVendorRepository{vendors: map[string]*entity.Vendor{}}
	uc := NewChatUseCase(chatRepo, userRepo, vendorRepo, &fakeStorage{log: log}, nil, nil, ratelimit.NewRateLimiter())
	return uc, chatRepo, log
}

func seedConversation(repo *fakeChatRepository, clientID, vendorID string) *entity.Conversation {
	conversation := &entity.Conversation{
		ID:             utils.ConversationID(clientID, vendorID),
		ParticipantIDs: []string{clientID, vendorID},
		UserID:         clientID,
		VendorID:       vendorID,
		UserName:       "Alice",
		VendorName:     "Sole Repair Co",
		UpdatedAt:      time.Now(),
	}
	repo.conversations[conversation.ID] = conversation
	return conversation
}

func TestGetOrCreateConversationIdempotent(t *testing.T) {
	uc, repo, _ := newTestChatUseCase()
	ctx := context.Background()

	first, err := uc.GetOrCreateConversation(ctx, "client-1", GetOrCreateConversationInput{
		VendorID:   "vendor-1",
		VendorName: "Sole Repair Co",
		UserName:   "Alice",
	})
	assert.NoError(t, err)

	second, err := uc.GetOrCreateConversation(ctx, "client-1", GetOrCreateConversationInput{VendorID: "vendor-1"})
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// The vendor resolving the same pair from their side converges on the
	// same document with the original roles intact.
	fromVendor, err := uc.GetOrCreateConversation(ctx, "vendor-1", GetOrCreateConversationInput{VendorID: "client-1"})
	assert.NoError(t, err)
	assert.Equal(t, first.ID, fromVendor.ID)
	assert.Equal(t, "client-1", fromVendor.UserID)

	assert.Len(t, repo.conversations, 1)
}

func TestGetOrCreateConversationValidation(t *testing.T) {
	uc, _, _ := newTestChatUseCase()
	ctx := context.Background()

	_, err := uc.GetOrCreateConversation(ctx, "client-1", GetOrCreateConversationInput{VendorID: "client-1"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.GetOrCreateConversation(ctx, "client-1", GetOrCreateConversationInput{})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.GetOrCreateConversation(ctx, "", GetOrCreateConversationInput{VendorID: "vendor-1"})
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestGetOrCreateConversationCreationRace(t *testing.T) {
	uc, repo, _ := newTestChatUseCase()
	ctx := context.Background()

	// The other side wins the race between our existence check and our
	// create. The create fails with a conflict and we re-read.
	existing := seedConversation(repo, "client-1", "vendor-1")
	repo.getMisses = 1

	conversation, err := uc.GetOrCreateConversation(ctx, "client-1", GetOrCreateConversationInput{VendorID: "vendor-1"})
	assert.NoError(t, err)
	assert.Equal(t, existing.ID, conversation.ID)
	assert.Len(t, repo.conversations, 1)
}

func TestSendMessageRejectsEmptyText(t *testing.T) {
	uc, repo, log := newTestChatUseCase()
	ctx := context.Background()
	conversation := seedConversation(repo, "client-1", "vendor-1")

	_, err := uc.SendMessage(ctx, "client-1", SendMessageInput{ConversationID: conversation.ID, Text: "   \n\t "})
	assert.True(t, errors.Is(err, "BAD_REQUEST"), "whitespace-only text must be rejected")

	_, err = uc.SendMessage(ctx, "client-1", SendMessageInput{ConversationID: conversation.ID})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	assert.Empty(t, log.snapshot(), "rejected sends must not touch the store")
}

func TestGetMessagesPreservesSendOrder(t *testing.T) {
	uc, repo, _ := newTestChatUseCase()
	ctx := context.Background()
	conversation := seedConversation(repo, "client-1", "vendor-1")

	for _, text := range []string{"first", "second", "third"} {
		_, err := uc.SendMessage(ctx, "client-1", SendMessageInput{ConversationID: conversation.ID, Text: text})
		assert.NoError(t, err)
	}

	timeline, err := uc.GetMessages(ctx, "vendor-1", conversation.ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, timeline.Total)

	var texts []string
	for _, group := range timeline.Groups {
		for _, view := range group.Messages {
			texts = append(texts, view.Text)
		}
	}
	assert.Equal(t, []string{"first", "second", "third"}, texts, "history replays in send order with no duplicates")
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	uc, repo, _ := newTestChatUseCase()
	ctx := context.Background()
	conversation := seedConversation(repo, "client-1", "vendor-1")

	_, err := uc.SendMessage(ctx, "intruder", SendMessageInput{ConversationID: conversation.ID, Text: "hi"})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSendMessageUpdatesSummary(t *testing.T) {
	uc, repo, _ := newTestChatUseCase()
	ctx := context.Background()
	conversation := seedConversation(repo, "client-1", "vendor-1")

	message, err := uc.SendMessage(ctx, "client-1", SendMessageInput{
		ConversationID: conversation.ID,
		Text:           "  can you resole these boots?  ",
	})
	assert.NoError(t, err)
	assert.Equal(t, "can you resole these boots?", message.Text, "text is trimmed before storage")
	assert.Equal(t, []string{"client-1"}, message.ReadBy, "sender has trivially read their own message")

	assert.Equal(t, "can you resole these boots?", conversation.LastMessage)
	assert.Equal(t, "client-1", conversation.LastSenderID)
}

func TestSendMessageAttachmentUploadPrecedesCreate(t *testing.T) {
	uc, repo, log := newTestChatUseCase()
	ctx := context.Background()
	conversation := seedConversation(repo, "client-1", "vendor-1")

	message, err := uc.SendMessage(ctx, "client-1", SendMessageInput{
		ConversationID: conversation.ID,
		Attachment: &AttachmentUpload{
			FileName:    "invoice.pdf",
			ContentType: "application/pdf",
			Size:        2048,
			Content:     strings.NewReader("%PDF-1.4"),
		},
	})
	assert.NoError(t, err)
	assert.True(t, message.HasAttachment())
	assert.Equal(t, int64(2048), message.FileSize)

	assert.Equal(t, []string{"UploadChatAttachment", "CreateMessage", "UpdateConversationSummary"}, log.snapshot(),
		"the message document must never reference an object that is not uploaded yet")

	assert.Equal(t, "Sent: invoice.pdf", conversation.LastMessage, "attachment-only messages summarize by file name")
}

func TestMarkConversationReadIsIdempotent(t *testing.T) {
	uc, repo, _ := newTestChatUseCase()
	ctx := context.Background()
	conversation := seedConversation(repo, "client-1", "vendor-1")

	repo.messages[conversation.ID] = []*entity.Message{
		{ID: "m1", SenderID: "vendor-1", Text: "ready for pickup", ReadBy: []string{"vendor-1"}},
		{ID: "m2", SenderID: "vendor-1", Text: "open until 6", ReadBy: []string{"vendor-1"}},
		{ID: "m3", SenderID: "client-1", Text: "thanks!", ReadBy: []string{"client-1"}},
	}

	assert.NoError(t, uc.MarkConversationRead(ctx, "client-1", conversation.ID))
	assert.Equal(t, 2, repo.markReadCalls, "only the counterpart's unread messages are patched")
	assert.True(t, repo.messages[conversation.ID][0].ReadByUser("client-1"))
	assert.True(t, repo.messages[conversation.ID][1].ReadByUser("client-1"))

	assert.NoError(t, uc.MarkConversationRead(ctx, "client-1", conversation.ID))
	assert.Equal(t, 2, repo.markReadCalls, "already-read messages are not patched again")
}

func TestMarkConversationReadRejectsNonParticipant(t *testing.T) {
	uc, repo, _ := newTestChatUseCase()
	ctx := context.Background()
	conversation := seedConversation(repo, "client-1", "vendor-1")

	err := uc.MarkConversationRead(ctx, "intruder", conversation.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSetTyping(t *testing.T) {
	uc, repo, _ := newTestChatUseCase()
	ctx := context.Background()
	conversation := seedConversation(repo, "client-1", "vendor-1")

	assert.NoError(t, uc.SetTyping(ctx, "client-1", conversation.ID, true))
	assert.True(t, conversation.Typing["client-1"])

	assert.NoError(t, uc.SetTyping(ctx, "client-1", conversation.ID, false))
	assert.False(t, conversation.Typing["client-1"])

	err := uc.SetTyping(ctx, "intruder", conversation.ID, true)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestGetMessagesRejectsNonParticipant(t *testing.T) {
	uc, repo, _ := newTestChatUseCase()
	ctx := context.Background()
	conversation := seedConversation(repo, "client-1", "vendor-1")

	_, err := uc.GetMessages(ctx, "intruder", conversation.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"solelink/internal/adapter/api/middleware"
	"solelink/internal/domain/repository"
	ws "solelink/internal/infrastructure/websocket"
	"solelink/internal/usecase"
)

type WebSocketHandler struct {
	manager        *ws.Manager
	chatUseCase    *usecase.ChatUseCase
	streamUseCase  *usecase.ChatStreamUseCase
	authMiddleware *middleware.AuthMiddleware
	upgrader       websocket.Upgrader
}

func NewWebSocketHandler(
	manager *ws.Manager,
	chatUseCase *usecase.ChatUseCase,
	streamUseCase *usecase.ChatStreamUseCase,
	authMiddleware *middleware.AuthMiddleware,
) *WebSocketHandler {
	return &WebSocketHandler{
		manager:        manager,
		chatUseCase:    chatUseCase,
		streamUseCase:  streamUseCase,
		authMiddleware: authMiddleware,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleConnection authenticates the upgrade request via a token query param,
// then runs the connection until the client goes away.
func (h *WebSocketHandler) HandleConnection(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is required")
	}

	userID, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed for user %s: %v", userID, err)
		return err
	}

	client := ws.NewClient(userID, conn)

	session := newChatSession(userID, client, h.chatUseCase, h.streamUseCase)
	client.OnMessage = session.handleFrame
	client.OnClose = session.close

	h.manager.Register <- client

	go client.WritePump()
	client.ReadPump(h.manager)

	return nil
}

type inboundFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
	VendorID       string `json:"vendor_id"`
	Text           string `json:"text"`
	IsTyping       bool   `json:"is_typing"`
}

type outboundFrame struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// chatSession holds one connection's live-query subscriptions. The chat list
// subscription lives for the whole session; the message subscription follows
// whichever conversation is open, and the previous one is always cancelled
// before the next attaches so stale updates can never interleave.
type chatSession struct {
	userID        string
	client        *ws.Client
	chatUseCase   *usecase.ChatUseCase
	streamUseCase *usecase.ChatStreamUseCase

	ctx    context.Context
	cancel context.CancelFunc

	mu                  sync.Mutex
	cancelConversations repository.CancelFunc
	cancelMessages      repository.CancelFunc
	activeConversation  string
}

func newChatSession(userID string, client *ws.Client, chatUseCase *usecase.ChatUseCase, streamUseCase *usecase.ChatStreamUseCase) *chatSession {
	ctx, cancel := context.WithCancel(context.Background())
	return &chatSession{
		userID:        userID,
		client:        client,
		chatUseCase:   chatUseCase,
		streamUseCase: streamUseCase,
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (s *chatSession) handleFrame(data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		s.sendError("Invalid frame")
		return
	}

	switch frame.Type {
	case "subscribe_chats":
		s.subscribeChats()
	case "subscribe_messages":
		s.subscribeMessages(frame.ConversationID)
	case "unsubscribe_messages":
		s.unsubscribeMessages()
	case "send_message":
		s.sendMessage(frame.ConversationID, frame.Text)
	case "typing":
		s.setTyping(frame.ConversationID, frame.IsTyping)
	case "mark_read":
		s.markRead(frame.ConversationID)
	case "ping":
		s.send("pong", nil)
	default:
		s.sendError("Unknown frame type: " + frame.Type)
	}
}

func (s *chatSession) subscribeChats() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelConversations != nil {
		return
	}

	cancel, err := s.streamUseCase.SubscribeConversations(s.ctx, s.userID, func(conversations []*usecase.ConversationView) {
		s.send("chat_list", conversations)
	})
	if err != nil {
		s.sendError(err.Error())
		return
	}
	s.cancelConversations = cancel
}

func (s *chatSession) subscribeMessages(conversationID string) {
	if conversationID == "" {
		s.sendError("conversation_id is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeConversation == conversationID && s.cancelMessages != nil {
		return
	}

	// Tear down the previous stream first so an in-flight snapshot from the
	// old conversation cannot arrive after the switch.
	if s.cancelMessages != nil {
		s.cancelMessages()
		s.cancelMessages = nil
	}

	cancel, err := s.streamUseCase.SubscribeMessages(s.ctx, s.userID, conversationID, func(timeline *usecase.MessageTimeline) {
		s.send("messages", timeline)
	})
	if err != nil {
		s.activeConversation = ""
		s.sendError(err.Error())
		return
	}

	s.activeConversation = conversationID
	s.cancelMessages = cancel
}

func (s *chatSession) unsubscribeMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelMessages != nil {
		s.cancelMessages()
		s.cancelMessages = nil
	}
	s.activeConversation = ""
}

func (s *chatSession) sendMessage(conversationID, text string) {
	message, err := s.chatUseCase.SendMessage(s.ctx, s.userID, usecase.SendMessageInput{
		ConversationID: conversationID,
		Text:           text,
	})
	if err != nil {
		s.sendError(err.Error())
		return
	}
	s.send("message_sent", message)
}

func (s *chatSession) setTyping(conversationID string, isTyping bool) {
	if err := s.chatUseCase.SetTyping(s.ctx, s.userID, conversationID, isTyping); err != nil {
		log.Printf("Typing update failed for user %s: %v", s.userID, err)
	}
}

func (s *chatSession) markRead(conversationID string) {
	if err := s.chatUseCase.MarkConversationRead(s.ctx, s.userID, conversationID); err != nil {
		s.sendError(err.Error())
	}
}

func (s *chatSession) send(frameType string, data interface{}) {
	payload, err := json.Marshal(outboundFrame{Type: frameType, Data: data})
	if err != nil {
		log.Printf("Error marshaling %s frame: %v", frameType, err)
		return
	}

	if !s.client.Enqueue(payload) {
		log.Printf("Dropping %s frame for slow session: %s", frameType, s.userID)
	}
}

func (s *chatSession) sendError(message string) {
	payload, err := json.Marshal(outboundFrame{Type: "error", Error: message})
	if err != nil {
		return
	}

	s.client.Enqueue(payload)
}

// close releases every live query the session holds. Runs once from ReadPump
// teardown.
func (s *chatSession) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelMessages != nil {
		s.cancelMessages()
		s.cancelMessages = nil
	}
	if s.cancelConversations != nil {
		s.cancelConversations()
		s.cancelConversations = nil
	}
	s.cancel()
}

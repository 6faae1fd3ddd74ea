package usecase

import (
	"time"

	"solelink/internal/domain/entity"
	"solelink/internal/domain/service"
)

// ConversationView is a conversation decorated with the derived display
// state the chat list renders: counterpart name, typing indicator and
// activity-based presence.
type ConversationView struct {
	*entity.Conversation
	DisplayName   string `json:"display_name"`
	TypingLabel   string `json:"typing_label,omitempty"`
	PresenceLabel string `json:"presence_label"`
	Time          string `json:"time,omitempty"`
}

// MessageView is a message decorated with the viewer-specific receipt
// state and a short clock label.
type MessageView struct {
	*entity.Message
	Receipt string `json:"receipt"`
	Time    string `json:"time"`
}

// TimelineGroup is a run of messages under one date separator.
type TimelineGroup struct {
	Label    string         `json:"label"`
	Messages []*MessageView `json:"messages"`
}

// MessageTimeline is the full derived view of one conversation's message
// stream for one viewer.
type MessageTimeline struct {
	ConversationID string           `json:"conversation_id"`
	Total          int              `json:"total"`
	Groups         []TimelineGroup  `json:"groups"`
}

func buildConversationViews(conversations []*entity.Conversation, viewerID string, now time.Time, loc *time.Location) []*ConversationView {
	views := make([]*ConversationView, 0, len(conversations))
	for _, conversation := range conversations {
		views = append(views, buildConversationView(conversation, viewerID, now, loc))
	}
	return views
}

func buildConversationView(conversation *entity.Conversation, viewerID string, now time.Time, loc *time.Location) *ConversationView {
	displayName := conversation.VendorName
	if viewerID == conversation.VendorID {
		displayName = conversation.UserName
	}
	if displayName == "" {
		displayName = "Conversation"
	}

	view := &ConversationView{
		Conversation:  conversation,
		DisplayName:   displayName,
		TypingLabel:   service.TypingLabel(conversation, viewerID),
		PresenceLabel: service.PresenceLabel(conversation, now),
	}
	if !conversation.UpdatedAt.IsZero() {
		view.Time = service.FormatClock(conversation.UpdatedAt, loc)
	}
	return view
}

func buildMessageTimeline(conversationID string, messages []*entity.Message, viewerID string, otherParticipantIDs []string, now time.Time, loc *time.Location) *MessageTimeline {
	timeline := &MessageTimeline{
		ConversationID: conversationID,
		Total:          len(messages),
	}

	for _, group := range service.GroupMessagesByDay(messages, now, loc) {
		views := make([]*MessageView, 0, len(group.Messages))
		for _, message := range group.Messages {
			views = append(views, &MessageView{
				Message: message,
				Receipt: service.ReceiptFor(message, viewerID, otherParticipantIDs).String(),
				Time:    service.FormatClock(message.Timestamp, loc),
			})
		}
		timeline.Groups = append(timeline.Groups, TimelineGroup{Label: group.Label, Messages: views})
	}

	return timeline
}

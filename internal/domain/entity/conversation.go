package entity

import "time"

type Conversation struct {
	ID             string          `json:"id" firestore:"-"`
	ParticipantIDs []string        `json:"participant_ids" firestore:"participantIds"`
	UserID         string          `json:"user_id,omitempty" firestore:"userId,omitempty"`
	VendorID       string          `json:"vendor_id,omitempty" firestore:"vendorId,omitempty"`
	UserName       string          `json:"user_name,omitempty" firestore:"userName,omitempty"`
	VendorName     string          `json:"vendor_name,omitempty" firestore:"vendorName,omitempty"`
	LastMessage    string          `json:"last_message" firestore:"lastMessage"`
	LastSenderID   string          `json:"last_sender_id" firestore:"lastSenderId"`
	Typing         map[string]bool `json:"typing" firestore:"typing"`
	CreatedAt      time.Time       `json:"created_at" firestore:"createdAt,serverTimestamp"`
	UpdatedAt      time.Time       `json:"updated_at" firestore:"updatedAt,serverTimestamp"`
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// OtherParticipantIDs returns every participant except viewerID.
func (c *Conversation) OtherParticipantIDs(viewerID string) []string {
	var others []string
	for _, id := range c.ParticipantIDs {
		if id != viewerID {
			others = append(others, id)
		}
	}
	return others
}

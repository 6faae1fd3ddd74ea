package entity

import "time"

type Message struct {
	ID        string    `json:"id" firestore:"-"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Text      string    `json:"text" firestore:"text"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	ReadBy    []string  `json:"read_by" firestore:"readBy"`
	FileURL   string    `json:"file_url,omitempty" firestore:"fileUrl,omitempty"`
	FileName  string    `json:"file_name,omitempty" firestore:"fileName,omitempty"`
	FileType  string    `json:"file_type,omitempty" firestore:"fileType,omitempty"`
	FileSize  int64     `json:"file_size,omitempty" firestore:"fileSize,omitempty"`
}

// ReadByUser reports whether userID has observed this message.
func (m *Message) ReadByUser(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// HasAttachment reports whether the message carries a file descriptor.
func (m *Message) HasAttachment() bool {
	return m.FileURL != ""
}

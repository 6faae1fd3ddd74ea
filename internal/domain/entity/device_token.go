package entity

import "time"

// DeviceToken is an FCM registration token tied to one signed-in user.
type DeviceToken struct {
	ID        string    `json:"id" firestore:"-"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Token     string    `json:"token" firestore:"token"`
	Platform  string    `json:"platform,omitempty" firestore:"platform,omitempty"` // "web", "android", "ios"
	CreatedAt time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}

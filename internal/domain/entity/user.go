package entity

import "time"

const (
	RoleClient = "client"
	RoleVendor = "vendor"
)

type User struct {
	ID           string    `json:"id" firestore:"-"`
	Email        string    `json:"email" firestore:"email"`
	Role         string    `json:"role" firestore:"role"` // "client" or "vendor"
	BusinessName string    `json:"business_name,omitempty" firestore:"businessName,omitempty"`
	City         string    `json:"city,omitempty" firestore:"city,omitempty"`
	ZipCode      string    `json:"zip_code,omitempty" firestore:"zipCode,omitempty"`
	Provider     string    `json:"provider,omitempty" firestore:"provider,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt,serverTimestamp"`
}

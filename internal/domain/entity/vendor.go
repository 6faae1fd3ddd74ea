package entity

import "time"

type Vendor struct {
	ID           string    `json:"id" firestore:"-"`
	UserID       string    `json:"user_id" firestore:"userId"`
	BusinessName string    `json:"business_name" firestore:"businessName"`
	City         string    `json:"city" firestore:"city"`
	ZipCode      string    `json:"zip_code" firestore:"zipCode"`
	Services     []string  `json:"services,omitempty" firestore:"services,omitempty"`
	Description  string    `json:"description,omitempty" firestore:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt,serverTimestamp"`
}

package repository

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"solelink/internal/domain/entity"
	"solelink/internal/domain/repository"
	"solelink/pkg/errors"
)

type firestoreVendorRepository struct {
	client *firestore.Client
}

func NewFirestoreVendorRepository(client *firestore.Client) repository.VendorRepository {
	return &firestoreVendorRepository{
		client: client,
	}
}

func (r *firestoreVendorRepository) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	doc, err := r.client.Collection("Vendors").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Vendor", err)
		}
		return nil, errors.Internal("Failed to get vendor", err)
	}

	var vendor entity.Vendor
	if err := doc.DataTo(&vendor); err != nil {
		return nil, errors.Internal("Failed to parse vendor data", err)
	}
	vendor.ID = doc.Ref.ID

	return &vendor, nil
}

func (r *firestoreVendorRepository) GetByUserID(ctx context.Context, userID string) (*entity.Vendor, error) {
	query := r.client.Collection("Vendors").Where("userId", "==", userID).Limit(1)
	iter := query.Documents(ctx)
	doc, err := iter.Next()

	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Vendor for user", nil)
		}
		return nil, errors.Internal("Failed to query vendor by user ID", err)
	}

	var vendor entity.Vendor
	if err := doc.DataTo(&vendor); err != nil {
		return nil, errors.Internal("Failed to parse vendor data", err)
	}
	vendor.ID = doc.Ref.ID

	return &vendor, nil
}

func (r *firestoreVendorRepository) Search(ctx context.Context, city, zipCode string) ([]*entity.Vendor, error) {
	query := r.client.Collection("Vendors").Query
	if city != "" {
		query = query.Where("city", "==", city)
	}
	if zipCode != "" {
		query = query.Where("zipCode", "==", zipCode)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while searching vendors (city=%q, zip=%q): %v", city, zipCode, err)
		return nil, errors.Internal("Failed to search vendors", err)
	}

	var vendors []*entity.Vendor
	for _, doc := range docs {
		var vendor entity.Vendor
		if err := doc.DataTo(&vendor); err != nil {
			continue // Skip malformed documents
		}
		vendor.ID = doc.Ref.ID
		vendors = append(vendors, &vendor)
	}

	return vendors, nil
}

func (r *firestoreVendorRepository) Upsert(ctx context.Context, vendor *entity.Vendor) error {
	if vendor.ID == "" {
		vendor.ID = vendor.UserID
	}

	_, err := r.client.Collection("Vendors").Doc(vendor.ID).Set(ctx, vendor)
	if err != nil {
		return errors.Internal("Failed to save vendor", err)
	}

	return nil
}

package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"solelink/internal/domain/entity"
	"solelink/pkg/errors"
)

func newTestVendorUseCase() (*VendorUseCase, *fakeVendorRepository, *fakeUserRepository) {
	vendorRepo := &fakeVendorRepository{vendors: map[string]*entity.Vendor{}}
	userRepo := &fakeUserRepository{users: map[string]*entity.User{}}
	return NewVendorUseCase(vendorRepo, userRepo), vendorRepo, userRepo
}

func TestRegisterVendorRequiresVendorRole(t *testing.T) {
	uc, _, userRepo := newTestVendorUseCase()
	ctx := context.Background()

	userRepo.users["client-1"] = &entity.User{ID: "client-1", Role: entity.RoleClient}

	_, err := uc.Register(ctx, "client-1", RegisterVendorInput{BusinessName: "Sneak Peak", City: "Austin", ZipCode: "78701"})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestRegisterVendorUpserts(t *testing.T) {
	uc, vendorRepo, userRepo := newTestVendorUseCase()
	ctx := context.Background()

	userRepo.users["vendor-1"] = &entity.User{ID: "vendor-1", Role: entity.RoleVendor}

	vendor, err := uc.Register(ctx, "vendor-1", RegisterVendorInput{
		BusinessName: "Sole Repair Co",
		City:         "Austin",
		ZipCode:      "78701",
		Services:     []string{"cleaning", "resoling"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "vendor-1", vendor.UserID)
	assert.Contains(t, vendorRepo.vendors, "vendor-1")

	// Re-registering replaces the listing rather than duplicating it.
	_, err = uc.Register(ctx, "vendor-1", RegisterVendorInput{BusinessName: "Sole Repair Co", City: "Dallas", ZipCode: "75201"})
	assert.NoError(t, err)
	assert.Len(t, vendorRepo.vendors, 1)
	assert.Equal(t, "Dallas", vendorRepo.vendors["vendor-1"].City)
}

func TestSearchVendorsRequiresFilter(t *testing.T) {
	uc, _, _ := newTestVendorUseCase()

	_, err := uc.Search(context.Background(), "", "")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSearchVendorsFilters(t *testing.T) {
	uc, vendorRepo, _ := newTestVendorUseCase()
	ctx := context.Background()

	vendorRepo.vendors["v1"] = &entity.Vendor{ID: "v1", City: "Austin", ZipCode: "78701"}
	vendorRepo.vendors["v2"] = &entity.Vendor{ID: "v2", City: "Dallas", ZipCode: "75201"}

	result, err := uc.Search(ctx, "Austin", "")
	assert.NoError(t, err)
	if assert.Len(t, result, 1) {
		assert.Equal(t, "v1", result[0].ID)
	}

	result, err = uc.Search(ctx, "", "75201")
	assert.NoError(t, err)
	assert.Len(t, result, 1)
}

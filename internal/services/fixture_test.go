package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"foodapp/internal/accesskey"
	"foodapp/internal/models"
	"foodapp/internal/repository/memstore"
	"foodapp/internal/storage"
)

type fixture struct {
	store *memstore.Store
	blobs *storage.BlobStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	blobs, err := storage.NewBlobStore(storage.Config{Dir: t.TempDir(), PublicPath: "/uploads"})
	require.NoError(t, err)
	return &fixture{store: memstore.New(), blobs: blobs}
}

func (f *fixture) restaurants(opts ...accesskey.Option) *RestaurantService {
	return NewRestaurantService(f.store.Restaurants, accesskey.New(f.store.Restaurants, accesskey.DefaultAttempts, opts...), f.blobs)
}

func (f *fixture) notifications() *NotificationService {
	return NewNotificationService(f.store.Notifications, accesskey.New(f.store.Restaurants, accesskey.DefaultAttempts), f.blobs)
}

// upload places an image in the blob directory the way a handler would before
// calling a service.
func (f *fixture) upload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(f.blobs.Dir(), primitive.NewObjectID().Hex()+".png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))
	return filepath.ToSlash(path)
}

func exists(path string) bool {
	_, err := os.Stat(filepath.FromSlash(path))
	return err == nil
}

func str(s string) *string {
	return &s
}

const validAddress = `{"street":"1 Main St","city":"Springfield","state":"IL","zipCode":"62701"}`

func validListing() ListingFields {
	return ListingFields{
		Name:      str("Luigi's"),
		Cuisine:   str("Italian"),
		Address:   models.AddressPayloadFromString(validAddress),
		Phone:     str("5551234567"),
		Email:     str("luigi@example.com"),
		OwnerName: str("Luigi"),
	}
}

func seedRestaurant(t *testing.T, f *fixture, key, email, phone string) *models.Restaurant {
	t.Helper()
	r := &models.Restaurant{
		Name:      "Seed",
		Cuisine:   models.CuisineOther,
		Address:   models.Address{Street: "s", City: "c", State: "st", ZipCode: "z"},
		Phone:     phone,
		Email:     email,
		AccessKey: key,
		OwnerName: "Owner",
	}
	require.NoError(t, f.store.Restaurants.Insert(context.Background(), r))
	return r
}

func pathBase(stored string) string {
	return filepath.Base(filepath.FromSlash(stored))
}

// Package repository declares the document-store ports the services depend on.
// mongostore implements them on MongoDB, memstore in process memory.
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"foodapp/internal/models"
)

var ErrNotFound = errors.New("document not found")

// DuplicateKeyError is returned when a write violates a unique index.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return "duplicate key"
	}
	return fmt.Sprintf("duplicate key on %s", e.Field)
}

// IsDuplicateKey reports whether err is a unique index violation and on which
// field.
func IsDuplicateKey(err error) (string, bool) {
	var dup *DuplicateKeyError
	if errors.As(err, &dup) {
		return dup.Field, true
	}
	return "", false
}

// ParseID converts a hex identifier. Anything that is not an ObjectID can not
// match a document, so it is reported as ErrNotFound.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

// RestaurantRepository stores restaurants. Update writes the mutable fields
// only: accessKey and createdAt are never rewritten.
type RestaurantRepository interface {
	Insert(ctx context.Context, r *models.Restaurant) error
	FindByID(ctx context.Context, id string) (*models.Restaurant, error)
	FindByAccessKey(ctx context.Context, key string) (*models.Restaurant, error)
	FindByEmail(ctx context.Context, email string) (*models.Restaurant, error)
	AccessKeyExists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context) ([]models.Restaurant, error)
	Update(ctx context.Context, r *models.Restaurant) error
	Delete(ctx context.Context, id string) error
}

// NotificationRepository stores seller applications. List is newest first by
// timestamp.
type NotificationRepository interface {
	Insert(ctx context.Context, n *models.Notification) error
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	List(ctx context.Context) ([]models.Notification, error)
	UpdateStatus(ctx context.Context, id string, status models.NotificationStatus, picture string) error
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Insert(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
}

type RefreshTokenRepository interface {
	Insert(ctx context.Context, t *models.RefreshToken) error
	FindActiveByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id primitive.ObjectID, replacedBy *primitive.ObjectID) error
	RevokeByHash(ctx context.Context, hash string) error
}

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

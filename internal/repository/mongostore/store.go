// Package mongostore implements the repository ports on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"foodapp/internal/database"
	"foodapp/internal/repository"
)

const opTimeout = 5 * time.Second

var (
	dupIndexPattern = regexp.MustCompile(`index: (\w+?)_unique`)
	dupKeyPattern   = regexp.MustCompile(`dup key: \{ ?"?(\w+)"?:`)
)

// Store bundles the repositories sharing one database handle.
type Store struct {
	db *mongo.Database

	Restaurants   *RestaurantRepository
	Notifications *NotificationRepository
	Users         *UserRepository
	RefreshTokens *RefreshTokenRepository
}

func New(db *mongo.Database) *Store {
	return &Store{
		db:            db,
		Restaurants:   &RestaurantRepository{coll: db.Collection(database.RestaurantsCollection)},
		Notifications: &NotificationRepository{coll: db.Collection(database.NotificationsCollection)},
		Users:         &UserRepository{coll: db.Collection(database.UsersCollection)},
		RefreshTokens: &RefreshTokenRepository{coll: db.Collection(database.RefreshTokensCollection)},
	}
}

func (s *Store) Ping(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return s.db.Client().Ping(checkCtx, readpref.Primary())
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}

// translate maps driver errors onto the repository error set.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return &repository.DuplicateKeyError{Field: duplicateField(err.Error())}
	}
	return err
}

func duplicateField(message string) string {
	if m := dupIndexPattern.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	if m := dupKeyPattern.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return ""
}

package database

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RestaurantsCollection   = "restaurants"
	NotificationsCollection = "notifications"
	UsersCollection         = "users"
	RefreshTokensCollection = "refresh_tokens"
)

// Unique indexes are named "<field>_unique"; the store layer relies on that to
// report which field a duplicate key error is about.
func uniqueIndex(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetName(field + "_unique").SetUnique(true),
	}
}

func EnsureRestaurantIndexes(db *mongo.Database) error {
	phoneIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().
			SetName("phone_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"phone": bson.M{"$exists": true},
			}),
	}
	createdAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	}
	return ensureIndexes(db, RestaurantsCollection,
		uniqueIndex("accessKey"),
		uniqueIndex("email"),
		phoneIndex,
		createdAtIndex,
	)
}

func EnsureNotificationIndexes(db *mongo.Database) error {
	return ensureIndexes(db, NotificationsCollection,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("timestamp_desc"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status_index"),
		},
	)
}

func EnsureUserIndexes(db *mongo.Database) error {
	return ensureIndexes(db, UsersCollection,
		uniqueIndex("username"),
		uniqueIndex("email"),
		uniqueIndex("phone"),
	)
}

func EnsureRefreshTokenIndexes(db *mongo.Database) error {
	return ensureIndexes(db, RefreshTokensCollection,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "tokenHash", Value: 1}},
			Options: options.Index().SetName("tokenHash_index"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetName("expiresAt_ttl").SetExpireAfterSeconds(0),
		},
	)
}

// EnsureIndexes creates every index the application relies on. It stops at the
// first failure.
func EnsureIndexes(db *mongo.Database) error {
	for _, ensure := range []func(*mongo.Database) error{
		EnsureRestaurantIndexes,
		EnsureNotificationIndexes,
		EnsureUserIndexes,
		EnsureRefreshTokenIndexes,
	} {
		if err := ensure(db); err != nil {
			return err
		}
	}
	return nil
}

func ensureIndexes(db *mongo.Database, collection string, models ...mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		log.Error().Err(err).Str("collection", collection).Msg("index creation failed")
		return err
	}
	log.Info().Str("collection", collection).Strs("indexes", names).Msg("indexes ensured")
	return nil
}

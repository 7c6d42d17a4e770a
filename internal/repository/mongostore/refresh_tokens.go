package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"foodapp/internal/models"
	"foodapp/internal/repository"
)

type RefreshTokenRepository struct {
	coll *mongo.Collection
}

func (r *RefreshTokenRepository) Insert(ctx context.Context, t *models.RefreshToken) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, t)
	if err != nil {
		return translate(err)
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *RefreshTokenRepository) FindActiveByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var t models.RefreshToken
	err := r.coll.FindOne(ctx, bson.M{
		"tokenHash": hash,
		"revoked":   false,
	}).Decode(&t)
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, id primitive.ObjectID, replacedBy *primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{"revoked": true}
	if replacedBy != nil {
		set["replacedByToken"] = *replacedBy
	}
	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	return translate(err)
}

func (r *RefreshTokenRepository) RevokeByHash(ctx context.Context, hash string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{
		"tokenHash": hash,
		"revoked":   false,
	}, bson.M{"$set": bson.M{"revoked": true}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

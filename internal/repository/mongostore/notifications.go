package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"foodapp/internal/models"
	"foodapp/internal/repository"
)

type NotificationRepository struct {
	coll *mongo.Collection
}

func (r *NotificationRepository) Insert(ctx context.Context, n *models.Notification) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, n)
	if err != nil {
		return translate(err)
	}
	n.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var n models.Notification
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&n); err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

func (r *NotificationRepository) List(ctx context.Context) ([]models.Notification, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	notifications := make([]models.Notification, 0)
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// UpdateStatus sets the status and, when picture is not empty, replaces the
// stored picture path.
func (r *NotificationRepository) UpdateStatus(ctx context.Context, id string, status models.NotificationStatus, picture string) error {
	oid, err := repository.ParseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{"status": status}
	if picture != "" {
		set["picture"] = picture
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	oid, err := repository.ParseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

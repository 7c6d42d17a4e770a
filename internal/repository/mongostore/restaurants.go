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

type RestaurantRepository struct {
	coll *mongo.Collection
}

func (r *RestaurantRepository) Insert(ctx context.Context, restaurant *models.Restaurant) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, restaurant)
	if err != nil {
		return translate(err)
	}
	restaurant.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *RestaurantRepository) findOne(ctx context.Context, filter bson.M) (*models.Restaurant, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var restaurant models.Restaurant
	if err := r.coll.FindOne(ctx, filter).Decode(&restaurant); err != nil {
		return nil, translate(err)
	}
	return &restaurant, nil
}

func (r *RestaurantRepository) FindByID(ctx context.Context, id string) (*models.Restaurant, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *RestaurantRepository) FindByAccessKey(ctx context.Context, key string) (*models.Restaurant, error) {
	return r.findOne(ctx, bson.M{"accessKey": key})
}

func (r *RestaurantRepository) FindByEmail(ctx context.Context, email string) (*models.Restaurant, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *RestaurantRepository) AccessKeyExists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"accessKey": key}, options.Count().SetLimit(1))
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *RestaurantRepository) List(ctx context.Context) ([]models.Restaurant, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	restaurants := make([]models.Restaurant, 0)
	if err := cursor.All(ctx, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (r *RestaurantRepository) Update(ctx context.Context, restaurant *models.Restaurant) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{
		"name":      restaurant.Name,
		"cuisine":   restaurant.Cuisine,
		"address":   restaurant.Address,
		"email":     restaurant.Email,
		"ownerName": restaurant.OwnerName,
	}
	unset := bson.M{}
	optional := map[string]string{
		"phone":   restaurant.Phone,
		"picture": restaurant.Picture,
		"tagline": restaurant.Tagline,
	}
	for field, value := range optional {
		if value == "" {
			unset[field] = ""
		} else {
			set[field] = value
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.coll.UpdateByID(ctx, restaurant.ID, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RestaurantRepository) Delete(ctx context.Context, id string) error {
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

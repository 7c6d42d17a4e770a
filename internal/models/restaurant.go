package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Restaurant struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Cuisine    Cuisine            `bson:"cuisine" json:"cuisine"`
	Address    Address            `bson:"address" json:"address"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email      string             `bson:"email" json:"email"`
	Picture    string             `bson:"picture,omitempty" json:"picture,omitempty"`
	PictureURL *string            `bson:"-" json:"pictureUrl,omitempty"`
	Tagline    string             `bson:"tagline,omitempty" json:"tagline,omitempty"`
	AccessKey  string             `bson:"accessKey" json:"accessKey"`
	OwnerName  string             `bson:"ownerName" json:"ownerName"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

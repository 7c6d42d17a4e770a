package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is a seller application awaiting admin review.
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestType RequestType        `bson:"requestType" json:"requestType"`
	Name        string             `bson:"name" json:"name"`
	Cuisine     Cuisine            `bson:"cuisine" json:"cuisine"`
	Address     Address            `bson:"address" json:"address"`
	Phone       string             `bson:"phone" json:"phone"`
	Email       string             `bson:"email" json:"email"`
	Picture     string             `bson:"picture,omitempty" json:"picture,omitempty"`
	PictureURL  *string            `bson:"-" json:"pictureUrl,omitempty"`
	Tagline     string             `bson:"tagline,omitempty" json:"tagline,omitempty"`
	AccessKey   string             `bson:"accessKey" json:"accessKey"`
	OwnerName   string             `bson:"ownerName" json:"ownerName"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
	Status      NotificationStatus `bson:"status" json:"status"`
}

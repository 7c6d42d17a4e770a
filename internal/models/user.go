package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an application account.
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username         string             `bson:"username" json:"username"`
	Email            string             `bson:"email" json:"email"`
	Phone            string             `bson:"phone" json:"phone"`
	PasswordHash     string             `bson:"passwordHash" json:"-"`
	Role             Role               `bson:"role" json:"role"`
	ProfilePhotoPath string             `bson:"profilePhotoPath,omitempty" json:"-"`
	ProfilePhotoURL  string             `bson:"-" json:"profilePhotoUrl,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsDuplicateKey(t *testing.T) {
	field, ok := IsDuplicateKey(fmt.Errorf("insert: %w", &DuplicateKeyError{Field: "email"}))
	assert.True(t, ok)
	assert.Equal(t, "email", field)

	_, ok = IsDuplicateKey(ErrNotFound)
	assert.False(t, ok)
}

func TestDuplicateKeyErrorMessage(t *testing.T) {
	assert.Equal(t, "duplicate key on phone", (&DuplicateKeyError{Field: "phone"}).Error())
	assert.Equal(t, "duplicate key", (&DuplicateKeyError{}).Error())
}

func TestParseID(t *testing.T) {
	oid := primitive.NewObjectID()
	parsed, err := ParseID(oid.Hex())
	assert.NoError(t, err)
	assert.Equal(t, oid, parsed)

	_, err = ParseID("not-an-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

package mongostore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"foodapp/internal/repository"
)

func TestDuplicateField(t *testing.T) {
	cases := map[string]string{
		`E11000 duplicate key error collection: foodapp.restaurants index: accessKey_unique dup key: { accessKey: "1234" }`: "accessKey",
		`E11000 duplicate key error collection: foodapp.users index: email_unique dup key: { email: "a@b.co" }`:             "email",
		`E11000 duplicate key error collection: foodapp.users index: legacy_idx dup key: { phone: "1234567890" }`:           "phone",
		`something else entirely`: "",
	}
	for message, want := range cases {
		assert.Equal(t, want, duplicateField(message), message)
	}
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(fmt.Errorf("find: %w", mongo.ErrNoDocuments)), repository.ErrNotFound)

	dupErr := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: foodapp.restaurants index: phone_unique dup key: { phone: "5551234567" }`,
	}}}
	field, ok := repository.IsDuplicateKey(translate(dupErr))
	assert.True(t, ok)
	assert.Equal(t, "phone", field)

	other := errors.New("network")
	assert.Equal(t, other, translate(other))
}

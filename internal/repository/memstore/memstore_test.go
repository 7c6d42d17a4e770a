package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"foodapp/internal/models"
	"foodapp/internal/repository"
)

func TestRestaurantUniqueFields(t *testing.T) {
	ctx := context.Background()
	repo := New().Restaurants

	first := &models.Restaurant{Name: "A", Email: "a@x.io", Phone: "1111111111", AccessKey: "0001"}
	require.NoError(t, repo.Insert(ctx, first))
	assert.False(t, first.ID.IsZero())

	err := repo.Insert(ctx, &models.Restaurant{Name: "B", Email: "b@x.io", Phone: "2222222222", AccessKey: "0001"})
	field, ok := repository.IsDuplicateKey(err)
	require.True(t, ok)
	assert.Equal(t, "accessKey", field)

	err = repo.Insert(ctx, &models.Restaurant{Name: "C", Email: "a@x.io", Phone: "3333333333", AccessKey: "0003"})
	field, _ = repository.IsDuplicateKey(err)
	assert.Equal(t, "email", field)

	noPhone := &models.Restaurant{Name: "D", Email: "d@x.io", AccessKey: "0004"}
	require.NoError(t, repo.Insert(ctx, noPhone))
	require.NoError(t, repo.Insert(ctx, &models.Restaurant{Name: "E", Email: "e@x.io", AccessKey: "0005"}), "empty phone is sparse")

	exists, err := repo.AccessKeyExists(ctx, "0001")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.AccessKeyExists(ctx, "9999")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRestaurantUpdateKeepsAccessKey(t *testing.T) {
	ctx := context.Background()
	repo := New().Restaurants

	r := &models.Restaurant{Name: "A", Email: "a@x.io", AccessKey: "1234", CreatedAt: time.Now()}
	require.NoError(t, repo.Insert(ctx, r))

	changed := *r
	changed.Name = "Renamed"
	changed.AccessKey = "9999"
	require.NoError(t, repo.Update(ctx, &changed))

	got, err := repo.FindByID(ctx, r.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "1234", got.AccessKey)

	changed.ID = primitive.NewObjectID()
	assert.ErrorIs(t, repo.Update(ctx, &changed), repository.ErrNotFound)
}

func TestRestaurantListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := New().Restaurants
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"old", "new", "mid"} {
		offset := map[string]time.Duration{"old": 0, "mid": time.Hour, "new": 2 * time.Hour}[name]
		require.NoError(t, repo.Insert(ctx, &models.Restaurant{
			Name:      name,
			Email:     name + "@x.io",
			AccessKey: []string{"0001", "0002", "0003"}[i],
			CreatedAt: base.Add(offset),
		}))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

func TestNotFoundPaths(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, err := store.Restaurants.FindByID(ctx, "bogus")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.Notifications.FindByID(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, store.Users.Delete(ctx, primitive.NewObjectID().Hex()), repository.ErrNotFound)
	assert.ErrorIs(t, store.Notifications.UpdateStatus(ctx, primitive.NewObjectID().Hex(), models.StatusApproved, ""), repository.ErrNotFound)
	assert.ErrorIs(t, store.RefreshTokens.RevokeByHash(ctx, "nope"), repository.ErrNotFound)
}

func TestUserUniqueOnUpdate(t *testing.T) {
	ctx := context.Background()
	repo := New().Users

	a := &models.User{Username: "a", Email: "a@x.io", Phone: "1111111111"}
	b := &models.User{Username: "b", Email: "b@x.io", Phone: "2222222222"}
	require.NoError(t, repo.Insert(ctx, a))
	require.NoError(t, repo.Insert(ctx, b))

	b.Username = "a"
	field, ok := repository.IsDuplicateKey(repo.Update(ctx, b))
	require.True(t, ok)
	assert.Equal(t, "username", field)
}

func TestRefreshTokenRevoke(t *testing.T) {
	ctx := context.Background()
	repo := New().RefreshTokens

	tok := &models.RefreshToken{TokenHash: "h1"}
	require.NoError(t, repo.Insert(ctx, tok))

	found, err := repo.FindActiveByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, tok.ID, found.ID)

	next := primitive.NewObjectID()
	require.NoError(t, repo.Revoke(ctx, tok.ID, &next))
	_, err = repo.FindActiveByHash(ctx, "h1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"foodapp/internal/models"
	"foodapp/internal/storage"
)

type welcomeRecorder struct {
	sent []string
	err  error
}

func (w *welcomeRecorder) SendWelcome(_ context.Context, to, _ string) error {
	w.sent = append(w.sent, to)
	return w.err
}

func validSignup() SignupInput {
	return SignupInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Phone:    "5551112222",
		Password: "s3cret",
	}
}

func TestSignup(t *testing.T) {
	f := newFixture(t)
	welcome := &welcomeRecorder{}
	svc := NewUserService(f.store.Users, f.blobs, welcome)
	photo := f.upload(t)

	in := validSignup()
	in.ProfilePhoto = photo
	user, err := svc.Signup(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.Equal(t, "/uploads/"+pathBase(photo), user.ProfilePhotoURL)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))
	assert.Equal(t, []string{"alice@example.com"}, welcome.sent)
	assert.True(t, exists(photo))
}

func TestSignupIgnoresMailFailure(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store.Users, f.blobs, &welcomeRecorder{err: errors.New("smtp down")})

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
}

func TestSignupFailuresDiscardPhoto(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *SignupInput)
		kind   error
	}{
		{"missing username", func(in *SignupInput) { in.Username = "" }, ErrMissingRequiredField},
		{"missing password", func(in *SignupInput) { in.Password = " " }, ErrMissingRequiredField},
		{"bad email", func(in *SignupInput) { in.Email = "alice" }, ErrInvalidFormat},
		{"bad phone", func(in *SignupInput) { in.Phone = "555" }, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			svc := NewUserService(f.store.Users, f.blobs, nil)
			photo := f.upload(t)
			in := validSignup()
			in.ProfilePhoto = photo
			tt.mutate(&in)

			_, err := svc.Signup(context.Background(), in)
			require.ErrorIs(t, err, tt.kind)
			assert.False(t, exists(photo))
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store.Users, f.blobs, nil)
	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	photo := f.upload(t)
	in := validSignup()
	in.Username = "alice2"
	in.Phone = "5553334444"
	in.ProfilePhoto = photo
	_, err = svc.Signup(context.Background(), in)
	require.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, "This email is already registered with another user", err.Error())
	assert.False(t, exists(photo))
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store.Users, f.blobs, nil)
	user, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	id := user.ID.Hex()

	updated, err := svc.Update(context.Background(), id, UserUpdateInput{Username: str("alicia"), Password: str("n3w")}, false)
	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("n3w")))

	_, err = svc.Update(context.Background(), id, UserUpdateInput{Role: str("admin")}, false)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(context.Background(), id, UserUpdateInput{Role: str("owner")}, true)
	require.ErrorIs(t, err, ErrInvalidFormat)

	promoted, err := svc.Update(context.Background(), id, UserUpdateInput{Role: str("admin")}, true)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	_, err = svc.Update(context.Background(), id, UserUpdateInput{}, true)
	require.ErrorIs(t, err, ErrMissingRequiredField)

	_, err = svc.Update(context.Background(), "64b7f0c2a1b2c3d4e5f60718", UserUpdateInput{Username: str("x")}, false)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePhotoReplacesOld(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store.Users, f.blobs, nil)
	old := f.upload(t)
	in := validSignup()
	in.ProfilePhoto = old
	user, err := svc.Signup(context.Background(), in)
	require.NoError(t, err)

	replacement := f.upload(t)
	updated, err := svc.UpdatePhoto(context.Background(), user.ID.Hex(), replacement)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+pathBase(replacement), updated.ProfilePhotoURL)
	assert.False(t, exists(old))
	assert.True(t, exists(replacement))

	_, err = svc.UpdatePhoto(context.Background(), user.ID.Hex(), "")
	require.ErrorIs(t, err, ErrMissingRequiredField)

	orphan := f.upload(t)
	_, err = svc.UpdatePhoto(context.Background(), "64b7f0c2a1b2c3d4e5f60718", orphan)
	require.ErrorIs(t, err, ErrNotFound)
	assert.False(t, exists(orphan))
}

func TestUserPhotoURLFollowsPublicPath(t *testing.T) {
	f := newFixture(t)
	photo := f.upload(t)
	in := validSignup()
	in.ProfilePhoto = photo
	user, err := NewUserService(f.store.Users, f.blobs, nil).Signup(context.Background(), in)
	require.NoError(t, err)

	moved, err := storage.NewBlobStore(storage.Config{Dir: f.blobs.Dir(), PublicPath: "/media"})
	require.NoError(t, err)
	svc := NewUserService(f.store.Users, moved, nil)

	got, err := svc.Get(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "/media/"+pathBase(photo), got.ProfilePhotoURL)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "/media/"+pathBase(photo), all[0].ProfilePhotoURL)

	stored, err := f.store.Users.FindByID(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, stored.ProfilePhotoURL)
}

func TestDeleteUserRemovesPhoto(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store.Users, f.blobs, nil)
	photo := f.upload(t)
	in := validSignup()
	in.ProfilePhoto = photo
	user, err := svc.Signup(context.Background(), in)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), user.ID.Hex()))
	assert.False(t, exists(photo))

	_, err = svc.Get(context.Background(), user.ID.Hex())
	require.ErrorIs(t, err, ErrNotFound)

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

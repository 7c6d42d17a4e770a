package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"foodapp/internal/models"
	"foodapp/internal/repository"
)

// WelcomeSender delivers the signup greeting. Failures are logged and never
// fail the signup.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, to, username string) error
}

type SignupInput struct {
	Username string
	Email    string
	Phone    string
	Password string
	// ProfilePhoto is the stored path of a photo uploaded with the request.
	ProfilePhoto string
}

// UserUpdateInput holds the user fields a caller may change. A nil field was
// not supplied.
type UserUpdateInput struct {
	Username *string
	Email    *string
	Phone    *string
	Password *string
	Role     *string
}

type UserService struct {
	repo    repository.UserRepository
	blobs   Blobs
	welcome WelcomeSender
	now     clock
}

func NewUserService(repo repository.UserRepository, blobs Blobs, welcome WelcomeSender) *UserService {
	return &UserService{
		repo:    repo,
		blobs:   blobs,
		welcome: welcome,
		now:     time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// presentUser fills the public URL of the user's stored photo.
func presentUser(blobs Blobs, u *models.User) *models.User {
	u.ProfilePhotoURL = deref(blobs.URL(u.ProfilePhotoPath))
	return u
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (_ *models.User, err error) {
	defer discardUpload(s.blobs, &err, in.ProfilePhoto)

	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)
	if username == "" || email == "" || phone == "" || strings.TrimSpace(in.Password) == "" {
		return nil, missingField("", "All required fields must be provided")
	}
	if err := checkEmail(email); err != nil {
		return nil, err
	}
	if err := checkPhone(phone); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		Username:         username,
		Email:            email,
		Phone:            phone,
		PasswordHash:     hash,
		Role:             models.RoleCustomer,
		ProfilePhotoPath: in.ProfilePhoto,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, storeError(err, "user", "User not found")
	}

	log.Info().Str("component", "users").Str("id", user.ID.Hex()).Msg("user registered")

	if s.welcome != nil {
		if err := s.welcome.SendWelcome(ctx, user.Email, user.Username); err != nil {
			log.Warn().Err(err).Str("component", "users").Str("id", user.ID.Hex()).Msg("welcome mail not sent")
		}
	}
	return presentUser(s.blobs, user), nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "user", "User not found")
	}
	return presentUser(s.blobs, user), nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		presentUser(s.blobs, &users[i])
	}
	return users, nil
}

// Update applies the supplied fields. allowRole is false for callers that may
// not change roles.
func (s *UserService) Update(ctx context.Context, id string, in UserUpdateInput, allowRole bool) (*models.User, error) {
	if in.Role != nil && !allowRole {
		return nil, &Error{Kind: ErrForbidden, Field: "role", Message: "Only admins can change roles"}
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "user", "User not found")
	}

	next := *existing
	changed := false
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, missingField("username", "Username cannot be empty")
		}
		next.Username = username
		changed = true
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if err := checkEmail(email); err != nil {
			return nil, err
		}
		next.Email = email
		changed = true
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if err := checkPhone(phone); err != nil {
			return nil, err
		}
		next.Phone = phone
		changed = true
	}
	if in.Role != nil {
		role := models.Role(strings.TrimSpace(*in.Role))
		if !role.Valid() {
			return nil, invalidFormat("role", "Role must be one of customer, admin")
		}
		next.Role = role
		changed = true
	}
	if in.Password != nil {
		if strings.TrimSpace(*in.Password) == "" {
			return nil, missingField("password", "Password cannot be empty")
		}
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		next.PasswordHash = hash
		changed = true
	}
	if !changed {
		return nil, missingField("", "No fields to update")
	}

	next.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, &next); err != nil {
		return nil, storeError(err, "user", "User not found")
	}
	return presentUser(s.blobs, &next), nil
}

// UpdatePhoto points the user at a newly uploaded photo and then removes the
// previous one.
func (s *UserService) UpdatePhoto(ctx context.Context, id, photo string) (_ *models.User, err error) {
	defer discardUpload(s.blobs, &err, photo)

	if photo == "" {
		return nil, missingField("profilePhoto", "No photo uploaded")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "user", "User not found")
	}

	next := *existing
	next.ProfilePhotoPath = photo
	next.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, &next); err != nil {
		return nil, storeError(err, "user", "User not found")
	}
	replaceBlob(s.blobs, existing.ProfilePhotoPath, photo)

	return presentUser(s.blobs, &next), nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeError(err, "user", "User not found")
	}

	s.blobs.Delete(existing.ProfilePhotoPath)
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "user", "User not found")
	}

	log.Info().Str("component", "users").Str("id", id).Msg("user deleted")
	return nil
}

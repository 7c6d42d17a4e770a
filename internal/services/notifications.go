package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"foodapp/internal/accesskey"
	"foodapp/internal/models"
	"foodapp/internal/repository"
)

type NotificationInput struct {
	ListingFields
	RequestType *string
	AccessKey   *string
	// Picture is the stored path of an image uploaded with this request.
	Picture string
}

type NotificationService struct {
	repo      repository.NotificationRepository
	allocator *accesskey.Allocator
	blobs     Blobs
	now       clock
}

func NewNotificationService(repo repository.NotificationRepository, allocator *accesskey.Allocator, blobs Blobs) *NotificationService {
	return &NotificationService{
		repo:      repo,
		allocator: allocator,
		blobs:     blobs,
		now:       time.Now,
	}
}

func (s *NotificationService) present(n *models.Notification) *models.Notification {
	n.PictureURL = s.blobs.URL(n.Picture)
	return n
}

// Create stores a pending application. The timestamp and status are always
// assigned here.
func (s *NotificationService) Create(ctx context.Context, in NotificationInput) (_ *models.Notification, err error) {
	defer discardUpload(s.blobs, &err, in.Picture)

	if err := requirePresent(
		required("requestType", presentString(in.RequestType)),
		required("name", presentString(in.Name)),
		required("cuisine", presentString(in.Cuisine)),
		required("address", in.Address != nil),
		required("phone", presentString(in.Phone)),
		required("email", presentString(in.Email)),
		required("ownerName", presentString(in.OwnerName)),
	); err != nil {
		return nil, err
	}

	requestType := models.RequestType(trimmed(in.RequestType))
	if !requestType.Valid() {
		return nil, invalidFormat("requestType", "Request type must be one of create, update, delete")
	}
	if err := in.checkSupplied(); err != nil {
		return nil, err
	}

	key := trimmed(in.AccessKey)
	if key != "" && !accesskey.Valid(key) {
		return nil, invalidFormat("accessKey", "Access key must be a 4-digit number")
	}

	address, err := resolveAddress(in.Address)
	if err != nil {
		return nil, err
	}

	if key == "" {
		key, err = s.allocator.Allocate(ctx)
		if err != nil {
			if errors.Is(err, accesskey.ErrExhausted) {
				return nil, &Error{Kind: ErrAllocationExhausted, Field: "accessKey", Message: "Could not generate a unique access key, please try again"}
			}
			return nil, err
		}
	}

	notification := &models.Notification{
		RequestType: requestType,
		Name:        trimmed(in.Name),
		Cuisine:     models.Cuisine(trimmed(in.Cuisine)),
		Address:     address,
		Phone:       trimmed(in.Phone),
		Email:       trimmed(in.Email),
		Picture:     in.Picture,
		Tagline:     trimmed(in.Tagline),
		AccessKey:   key,
		OwnerName:   trimmed(in.OwnerName),
		Timestamp:   s.now(),
		Status:      models.StatusPending,
	}
	if err := s.repo.Insert(ctx, notification); err != nil {
		return nil, storeError(err, "notification", "Notification not found")
	}

	log.Info().Str("component", "notifications").Str("id", notification.ID.Hex()).Str("requestType", string(requestType)).Msg("notification created")
	return s.present(notification), nil
}

func (s *NotificationService) Get(ctx context.Context, id string) (*models.Notification, error) {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "notification", "Notification not found")
	}
	return s.present(notification), nil
}

func (s *NotificationService) List(ctx context.Context) ([]models.Notification, error) {
	notifications, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range notifications {
		s.present(&notifications[i])
	}
	return notifications, nil
}

// UpdateStatus moves a notification to status. An approved application is not
// turned into a restaurant; that stays a separate admin action. picture, when
// set, replaces the stored image.
func (s *NotificationService) UpdateStatus(ctx context.Context, id, status, picture string) (_ *models.Notification, err error) {
	defer discardUpload(s.blobs, &err, picture)

	next := models.NotificationStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, invalidFormat("status", "Invalid status value")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "notification", "Notification not found")
	}

	if err := s.repo.UpdateStatus(ctx, id, next, picture); err != nil {
		return nil, storeError(err, "notification", "Notification not found")
	}
	replaceBlob(s.blobs, existing.Picture, picture)

	updated := *existing
	updated.Status = next
	if picture != "" {
		updated.Picture = picture
	}

	log.Info().Str("component", "notifications").Str("id", id).Str("status", string(next)).Msg("notification status updated")
	return s.present(&updated), nil
}

// Delete removes a rejected notification and its image. Any other status is
// left untouched.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeError(err, "notification", "Notification not found")
	}
	if existing.Status != models.StatusRejected {
		return &Error{Kind: ErrInvalidStateTransition, Field: "status", Message: "Only rejected notifications can be deleted"}
	}

	s.blobs.Delete(existing.Picture)
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "notification", "Notification not found")
	}

	log.Info().Str("component", "notifications").Str("id", id).Msg("notification deleted")
	return nil
}

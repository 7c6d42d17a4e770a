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

// insertAttempts bounds how often a generated access key is re-drawn after
// losing an insert race on the unique index.
const insertAttempts = 3

// ListingFields are the fields restaurants and seller applications share. A
// nil field was not supplied.
type ListingFields struct {
	Name      *string
	Cuisine   *string
	Address   *models.AddressPayload
	Phone     *string
	Email     *string
	Tagline   *string
	OwnerName *string
}

type RestaurantInput struct {
	ListingFields
	AccessKey *string
	// Picture is the stored path of an image uploaded with this request.
	Picture string
}

type RestaurantService struct {
	repo      repository.RestaurantRepository
	allocator *accesskey.Allocator
	blobs     Blobs
	now       clock
}

func NewRestaurantService(repo repository.RestaurantRepository, allocator *accesskey.Allocator, blobs Blobs) *RestaurantService {
	return &RestaurantService{
		repo:      repo,
		allocator: allocator,
		blobs:     blobs,
		now:       time.Now,
	}
}

func (s *RestaurantService) present(r *models.Restaurant) *models.Restaurant {
	r.PictureURL = s.blobs.URL(r.Picture)
	return r
}

func (s *RestaurantService) Create(ctx context.Context, in RestaurantInput) (_ *models.Restaurant, err error) {
	defer discardUpload(s.blobs, &err, in.Picture)

	if err := requirePresent(
		required("name", presentString(in.Name)),
		required("address", in.Address != nil),
		required("phone", presentString(in.Phone)),
		required("email", presentString(in.Email)),
		required("ownerName", presentString(in.OwnerName)),
	); err != nil {
		return nil, err
	}
	if !presentString(in.Cuisine) {
		other := string(models.CuisineOther)
		in.Cuisine = &other
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

	restaurant := &models.Restaurant{
		Name:      trimmed(in.Name),
		Cuisine:   models.Cuisine(trimmed(in.Cuisine)),
		Address:   address,
		Phone:     trimmed(in.Phone),
		Email:     trimmed(in.Email),
		Picture:   in.Picture,
		Tagline:   trimmed(in.Tagline),
		OwnerName: trimmed(in.OwnerName),
		CreatedAt: s.now(),
	}

	if key != "" {
		err = s.insertWithKey(ctx, restaurant, key)
	} else {
		err = s.insertWithGeneratedKey(ctx, restaurant)
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("component", "restaurants").Str("id", restaurant.ID.Hex()).Msg("restaurant created")
	return s.present(restaurant), nil
}

func (s *RestaurantService) insertWithKey(ctx context.Context, restaurant *models.Restaurant, key string) error {
	taken, err := s.repo.AccessKeyExists(ctx, key)
	if err != nil {
		return err
	}
	if taken {
		return &Error{Kind: ErrDuplicateKey, Field: "accessKey", Message: "Access key already exists. Please provide a unique access key."}
	}

	restaurant.AccessKey = key
	return storeError(s.repo.Insert(ctx, restaurant), "restaurant", "Restaurant not found")
}

// insertWithGeneratedKey treats an accessKey collision on insert like a
// collision during allocation and draws again.
func (s *RestaurantService) insertWithGeneratedKey(ctx context.Context, restaurant *models.Restaurant) error {
	for attempt := 1; ; attempt++ {
		key, err := s.allocator.Allocate(ctx)
		if err != nil {
			if errors.Is(err, accesskey.ErrExhausted) {
				return &Error{Kind: ErrAllocationExhausted, Field: "accessKey", Message: "Could not generate a unique access key, please try again"}
			}
			return err
		}

		restaurant.AccessKey = key
		err = s.repo.Insert(ctx, restaurant)
		if field, dup := repository.IsDuplicateKey(err); dup && field == "accessKey" && attempt < insertAttempts {
			log.Warn().Str("component", "restaurants").Int("attempt", attempt).Msg("generated access key lost insert race, retrying")
			continue
		}
		return storeError(err, "restaurant", "Restaurant not found")
	}
}

func (s *RestaurantService) Get(ctx context.Context, id string) (*models.Restaurant, error) {
	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "restaurant", "Restaurant not found")
	}
	return s.present(restaurant), nil
}

func (s *RestaurantService) GetByAccessKey(ctx context.Context, key string) (*models.Restaurant, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, missingField("accessKey", "Access key is required")
	}
	restaurant, err := s.repo.FindByAccessKey(ctx, key)
	if err != nil {
		return nil, storeError(err, "restaurant", "Restaurant with this access key not found")
	}
	return s.present(restaurant), nil
}

func (s *RestaurantService) AccessKeyByEmail(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", missingField("email", "Email is required")
	}
	restaurant, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", storeError(err, "restaurant", "Restaurant with this email not found")
	}
	return restaurant.AccessKey, nil
}

func (s *RestaurantService) List(ctx context.Context) ([]models.Restaurant, error) {
	restaurants, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range restaurants {
		s.present(&restaurants[i])
	}
	return restaurants, nil
}

// Update merges the supplied fields onto the stored restaurant. A supplied
// access key is discarded: keys never change after creation.
func (s *RestaurantService) Update(ctx context.Context, id string, in RestaurantInput) (_ *models.Restaurant, err error) {
	defer discardUpload(s.blobs, &err, in.Picture)

	keySupplied := in.AccessKey != nil
	if keySupplied {
		log.Debug().Str("component", "restaurants").Str("id", id).Msg("ignoring accessKey in update")
		in.AccessKey = nil
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "restaurant", "Restaurant not found")
	}

	if err := in.checkSupplied(); err != nil {
		return nil, err
	}

	next := *existing
	changed := false
	if in.Name != nil {
		next.Name = trimmed(in.Name)
		changed = true
	}
	if in.Cuisine != nil {
		next.Cuisine = models.Cuisine(trimmed(in.Cuisine))
		changed = true
	}
	if in.Address != nil {
		address, err := resolveAddress(in.Address)
		if err != nil {
			return nil, err
		}
		next.Address = address
		changed = true
	}
	if in.Phone != nil {
		next.Phone = trimmed(in.Phone)
		changed = true
	}
	if in.Email != nil {
		next.Email = trimmed(in.Email)
		changed = true
	}
	if in.Tagline != nil {
		next.Tagline = trimmed(in.Tagline)
		changed = true
	}
	if in.OwnerName != nil {
		next.OwnerName = trimmed(in.OwnerName)
		changed = true
	}
	if in.Picture != "" {
		next.Picture = in.Picture
		changed = true
	}
	if !changed {
		if keySupplied {
			return s.present(existing), nil
		}
		return nil, missingField("", "No fields to update")
	}

	if err := s.repo.Update(ctx, &next); err != nil {
		return nil, storeError(err, "restaurant", "Restaurant not found")
	}
	replaceBlob(s.blobs, existing.Picture, in.Picture)

	return s.present(&next), nil
}

func (s *RestaurantService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeError(err, "restaurant", "Restaurant not found")
	}

	s.blobs.Delete(existing.Picture)
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "restaurant", "Restaurant not found")
	}

	log.Info().Str("component", "restaurants").Str("id", id).Msg("restaurant deleted")
	return nil
}

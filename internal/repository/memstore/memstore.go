// Package memstore implements the repository ports in process memory. It
// enforces the same unique fields as the MongoDB indexes and is used for local
// runs without a database and in tests.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"foodapp/internal/models"
	"foodapp/internal/repository"
)

type Store struct {
	Restaurants   *RestaurantRepository
	Notifications *NotificationRepository
	Users         *UserRepository
	RefreshTokens *RefreshTokenRepository
}

func New() *Store {
	return &Store{
		Restaurants:   &RestaurantRepository{docs: map[primitive.ObjectID]models.Restaurant{}},
		Notifications: &NotificationRepository{docs: map[primitive.ObjectID]models.Notification{}},
		Users:         &UserRepository{docs: map[primitive.ObjectID]models.User{}},
		RefreshTokens: &RefreshTokenRepository{docs: map[primitive.ObjectID]models.RefreshToken{}},
	}
}

func (s *Store) Ping(context.Context) error {
	return nil
}

// uniqueViolation returns the first field whose non-empty value is already used
// by another document.
func uniqueViolation[T any](docs map[primitive.ObjectID]T, self primitive.ObjectID, candidate T, fields []string, value func(T, string) string) string {
	for _, field := range fields {
		v := value(candidate, field)
		if v == "" {
			continue
		}
		for id, doc := range docs {
			if id != self && value(doc, field) == v {
				return field
			}
		}
	}
	return ""
}

type RestaurantRepository struct {
	mu   sync.RWMutex
	docs map[primitive.ObjectID]models.Restaurant
}

var restaurantUnique = []string{"accessKey", "email", "phone"}

func restaurantField(r models.Restaurant, field string) string {
	switch field {
	case "accessKey":
		return r.AccessKey
	case "email":
		return r.Email
	case "phone":
		return r.Phone
	}
	return ""
}

func (r *RestaurantRepository) Insert(_ context.Context, restaurant *models.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if field := uniqueViolation(r.docs, primitive.NilObjectID, *restaurant, restaurantUnique, restaurantField); field != "" {
		return &repository.DuplicateKeyError{Field: field}
	}
	restaurant.ID = primitive.NewObjectID()
	r.docs[restaurant.ID] = *restaurant
	return nil
}

func (r *RestaurantRepository) FindByID(_ context.Context, id string) (*models.Restaurant, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (r *RestaurantRepository) findBy(field, value string) (*models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, doc := range r.docs {
		if restaurantField(doc, field) == value {
			found := doc
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *RestaurantRepository) FindByAccessKey(_ context.Context, key string) (*models.Restaurant, error) {
	return r.findBy("accessKey", key)
}

func (r *RestaurantRepository) FindByEmail(_ context.Context, email string) (*models.Restaurant, error) {
	return r.findBy("email", email)
}

func (r *RestaurantRepository) AccessKeyExists(_ context.Context, key string) (bool, error) {
	_, err := r.findBy("accessKey", key)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RestaurantRepository) List(context.Context) ([]models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Restaurant, 0, len(r.docs))
	for _, doc := range r.docs {
		out = append(out, doc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *RestaurantRepository) Update(_ context.Context, restaurant *models.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.docs[restaurant.ID]
	if !ok {
		return repository.ErrNotFound
	}

	next := current
	next.Name = restaurant.Name
	next.Cuisine = restaurant.Cuisine
	next.Address = restaurant.Address
	next.Phone = restaurant.Phone
	next.Email = restaurant.Email
	next.Picture = restaurant.Picture
	next.Tagline = restaurant.Tagline
	next.OwnerName = restaurant.OwnerName

	if field := uniqueViolation(r.docs, current.ID, next, restaurantUnique, restaurantField); field != "" {
		return &repository.DuplicateKeyError{Field: field}
	}
	r.docs[current.ID] = next
	return nil
}

func (r *RestaurantRepository) Delete(_ context.Context, id string) error {
	oid, err := repository.ParseID(id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[oid]; !ok {
		return repository.ErrNotFound
	}
	delete(r.docs, oid)
	return nil
}

type NotificationRepository struct {
	mu   sync.RWMutex
	docs map[primitive.ObjectID]models.Notification
}

func (r *NotificationRepository) Insert(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.ID = primitive.NewObjectID()
	r.docs[n.ID] = *n
	return nil
}

func (r *NotificationRepository) FindByID(_ context.Context, id string) (*models.Notification, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (r *NotificationRepository) List(context.Context) ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Notification, 0, len(r.docs))
	for _, doc := range r.docs {
		out = append(out, doc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (r *NotificationRepository) UpdateStatus(_ context.Context, id string, status models.NotificationStatus, picture string) error {
	oid, err := repository.ParseID(id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[oid]
	if !ok {
		return repository.ErrNotFound
	}
	doc.Status = status
	if picture != "" {
		doc.Picture = picture
	}
	r.docs[oid] = doc
	return nil
}

func (r *NotificationRepository) Delete(_ context.Context, id string) error {
	oid, err := repository.ParseID(id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[oid]; !ok {
		return repository.ErrNotFound
	}
	delete(r.docs, oid)
	return nil
}

type UserRepository struct {
	mu   sync.RWMutex
	docs map[primitive.ObjectID]models.User
}

var userUnique = []string{"username", "email", "phone"}

func userField(u models.User, field string) string {
	switch field {
	case "username":
		return u.Username
	case "email":
		return u.Email
	case "phone":
		return u.Phone
	}
	return ""
}

func (r *UserRepository) Insert(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if field := uniqueViolation(r.docs, primitive.NilObjectID, *u, userUnique, userField); field != "" {
		return &repository.DuplicateKeyError{Field: field}
	}
	u.ID = primitive.NewObjectID()
	r.docs[u.ID] = *u
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, doc := range r.docs {
		if doc.Email == email {
			found := doc
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) List(context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, 0, len(r.docs))
	for _, doc := range r.docs {
		out = append(out, doc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.docs[u.ID]
	if !ok {
		return repository.ErrNotFound
	}

	next := *u
	next.CreatedAt = current.CreatedAt
	if field := uniqueViolation(r.docs, current.ID, next, userUnique, userField); field != "" {
		return &repository.DuplicateKeyError{Field: field}
	}
	r.docs[current.ID] = next
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	oid, err := repository.ParseID(id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[oid]; !ok {
		return repository.ErrNotFound
	}
	delete(r.docs, oid)
	return nil
}

type RefreshTokenRepository struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]models.RefreshToken
}

func (r *RefreshTokenRepository) Insert(_ context.Context, t *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = primitive.NewObjectID()
	r.docs[t.ID] = *t
	return nil
}

func (r *RefreshTokenRepository) FindActiveByHash(_ context.Context, hash string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, doc := range r.docs {
		if doc.TokenHash == hash && !doc.Revoked {
			found := doc
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *RefreshTokenRepository) Revoke(_ context.Context, id primitive.ObjectID, replacedBy *primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil
	}
	doc.Revoked = true
	if replacedBy != nil {
		replaced := *replacedBy
		doc.ReplacedByToken = &replaced
	}
	r.docs[id] = doc
	return nil
}

func (r *RefreshTokenRepository) RevokeByHash(_ context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, doc := range r.docs {
		if doc.TokenHash == hash && !doc.Revoked {
			doc.Revoked = true
			r.docs[id] = doc
			return nil
		}
	}
	return repository.ErrNotFound
}

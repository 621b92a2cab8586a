package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sekhonkennels/kennel-portal/internal/email"
	"github.com/sekhonkennels/kennel-portal/internal/interfaces"
	"github.com/sekhonkennels/kennel-portal/internal/models"
)

// fakeDogStore is an in-memory DogStore for handler tests.
type fakeDogStore struct {
	mu     sync.Mutex
	dogs   map[string]*models.Dog
	images map[string]*models.DogImage
}

func newFakeDogStore() *fakeDogStore {
	return &fakeDogStore{
		dogs:   make(map[string]*models.Dog),
		images: make(map[string]*models.DogImage),
	}
}

func (s *fakeDogStore) CreateDraft(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	s.dogs[id] = &models.Dog{
		ID: id, Name: "Untitled", Status: models.DogStatusAvailable,
		CreatedAt: now, UpdatedAt: now,
	}
	return nil
}

func (s *fakeDogStore) Get(_ context.Context, id string) (*models.Dog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dog, ok := s.dogs[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	cp := *dog
	return &cp, nil
}

func (s *fakeDogStore) Update(_ context.Context, dog *models.Dog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dogs[dog.ID]; !ok {
		return interfaces.ErrNotFound
	}
	cp := *dog
	s.dogs[dog.ID] = &cp
	return nil
}

func (s *fakeDogStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dogs[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(s.dogs, id)
	for imgID, img := range s.images {
		if img.DogID == id {
			delete(s.images, imgID)
		}
	}
	return nil
}

func (s *fakeDogStore) List(_ context.Context, filter interfaces.DogListFilter) (*interfaces.DogList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []interfaces.DogListItem{}
	for _, dog := range s.dogs {
		if filter.Status != "" && dog.Status != filter.Status {
			continue
		}
		if filter.Published != nil && dog.IsPublished() != *filter.Published {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(dog.Name), strings.ToLower(filter.Search)) {
			continue
		}
		items = append(items, interfaces.DogListItem{Dog: *dog})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Dog.ID < items[j].Dog.ID })
	return &interfaces.DogList{
		Items: items, Total: len(items), Page: 1, Limit: 20, TotalPages: 1,
	}, nil
}

func (s *fakeDogStore) ListPublished(_ context.Context) ([]interfaces.DogListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []interfaces.DogListItem{}
	for _, dog := range s.dogs {
		if dog.IsPublished() {
			items = append(items, interfaces.DogListItem{Dog: *dog})
		}
	}
	return items, nil
}

func (s *fakeDogStore) Images(_ context.Context, dogID string) ([]models.DogImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	images := []models.DogImage{}
	for _, img := range s.images {
		if img.DogID == dogID {
			images = append(images, *img)
		}
	}
	sort.Slice(images, func(i, j int) bool { return images[i].DisplayOrder < images[j].DisplayOrder })
	return images, nil
}

func (s *fakeDogStore) GetImage(_ context.Context, imageID string) (*models.DogImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[imageID]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	cp := *img
	return &cp, nil
}

func (s *fakeDogStore) InsertImage(_ context.Context, img *models.DogImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *img
	s.images[img.ID] = &cp
	return nil
}

func (s *fakeDogStore) DeleteImage(_ context.Context, imageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.images[imageID]; !ok {
		return interfaces.ErrNotFound
	}
	delete(s.images, imageID)
	return nil
}

func (s *fakeDogStore) DeleteImageByKey(_ context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, img := range s.images {
		if img.ObjectKey == objectKey {
			delete(s.images, id)
		}
	}
	return nil
}

func (s *fakeDogStore) SetPrimaryImage(_ context.Context, dogID, imageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.images[imageID]
	if !ok || target.DogID != dogID {
		return interfaces.ErrNotFound
	}
	for _, img := range s.images {
		if img.DogID == dogID {
			img.IsPrimary = false
		}
	}
	target.IsPrimary = true
	return nil
}

func (s *fakeDogStore) NextDisplayOrder(_ context.Context, dogID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := -1
	for _, img := range s.images {
		if img.DogID == dogID && img.DisplayOrder > max {
			max = img.DisplayOrder
		}
	}
	return max + 1, nil
}

// fakeApplicationStore is an in-memory ApplicationStore.
type fakeApplicationStore struct {
	mu   sync.Mutex
	apps map[string]*models.Application
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{apps: make(map[string]*models.Application)}
}

func (s *fakeApplicationStore) Insert(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *app
	s.apps[app.ID] = &cp
	return nil
}

func (s *fakeApplicationStore) Get(_ context.Context, id string) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	cp := *app
	return &cp, nil
}

func (s *fakeApplicationStore) List(_ context.Context, status string) ([]models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apps := []models.Application{}
	for _, app := range s.apps {
		if status == "" || app.Status == status {
			apps = append(apps, *app)
		}
	}
	return apps, nil
}

func (s *fakeApplicationStore) UpdateStatus(_ context.Context, id, status string) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	app.Status = status
	cp := *app
	return &cp, nil
}

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	mu     sync.Mutex
	users  map[string]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (s *fakeUserStore) Create(_ context.Context, username, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	user := &models.User{
		ID:              s.nextID,
		Username:        strings.ToLower(username),
		PasswordHash:    passwordHash,
		DisplayUsername: username,
	}
	s.users[user.Username] = user
	return user, nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[strings.ToLower(username)]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *fakeUserStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

// fakeBucket is an in-memory MediaStorage.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (b *fakeBucket) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	b.types[key] = contentType
	return nil
}

func (b *fakeBucket) Get(_ context.Context, key string) (io.ReadCloser, *interfaces.MediaObject, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, nil, interfaces.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), &interfaces.MediaObject{
		Key: key, Size: int64(len(data)), ETag: "etag-" + key, ContentType: b.types[key],
	}, nil
}

func (b *fakeBucket) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	delete(b.types, key)
	return nil
}

func (b *fakeBucket) List(_ context.Context, prefix, _ string, _ int) (*interfaces.MediaPage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	page := &interfaces.MediaPage{Items: []interfaces.MediaObject{}}
	keys := make([]string, 0, len(b.objects))
	for key := range b.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		page.Items = append(page.Items, interfaces.MediaObject{
			Key: key, Size: int64(len(b.objects[key])),
		})
	}
	return page, nil
}

// fakeMailer records sent messages and optionally fails.
type fakeMailer struct {
	mu   sync.Mutex
	sent []email.Message
	fail bool
}

func (m *fakeMailer) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return io.ErrUnexpectedEOF
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func postJSON(t *testing.T, target string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError {
	t.Helper()
	var envelope map[string]apiError
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope["error"]
}

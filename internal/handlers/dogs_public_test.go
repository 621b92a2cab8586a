package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sekhonkennels/kennel-portal/internal/common"
	"github.com/sekhonkennels/kennel-portal/internal/models"
)

func publishDog(t *testing.T, dogs *fakeDogStore, id, name string) {
	t.Helper()
	seedDog(t, dogs, id, name, models.DogStatusAvailable)
	dog, err := dogs.Get(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()
	dog.PublishedAt = &now
	if err := dogs.Update(context.Background(), dog); err != nil {
		t.Fatal(err)
	}
}

func TestPublicDogList_OnlyPublished(t *testing.T) {
	dogs := newFakeDogStore()
	h := NewPublicDogHandler(common.NewSilentLogger(), dogs)
	publishDog(t, dogs, "dog1", "Bella")
	seedDog(t, dogs, "dog2", "Draft Dog", models.DogStatusAvailable)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/dogs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	var resp struct {
		Items []publicDogListItem `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Name != "Bella" {
		t.Errorf("items = %+v, want only the published dog", resp.Items)
	}
}

func TestPublicDogGet_HidesUnpublished(t *testing.T) {
	dogs := newFakeDogStore()
	h := NewPublicDogHandler(common.NewSilentLogger(), dogs)
	seedDog(t, dogs, "draft", "Draft Dog", models.DogStatusAvailable)

	get := func(id string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/dogs/"+id, nil)
		req.SetPathValue("id", id)
		rec := httptest.NewRecorder()
		h.Get(rec, req)
		return rec.Code
	}

	// A draft and a missing id look the same from outside.
	if code := get("draft"); code != http.StatusNotFound {
		t.Errorf("draft status = %d, want 404", code)
	}
	if code := get("missing"); code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", code)
	}

	publishDog(t, dogs, "dog1", "Bella")
	if code := get("dog1"); code != http.StatusOK {
		t.Errorf("published status = %d, want 200", code)
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/sekhonkennels/kennel-portal/internal/common"
	"github.com/sekhonkennels/kennel-portal/internal/interfaces"
	"github.com/sekhonkennels/kennel-portal/internal/models"
)

// PublicDogHandler serves the published dog listings on the public site.
type PublicDogHandler struct {
	logger *common.Logger
	dogs   interfaces.DogStore
}

func NewPublicDogHandler(logger *common.Logger, dogs interfaces.DogStore) *PublicDogHandler {
	return &PublicDogHandler{logger: logger, dogs: dogs}
}

type publicDogListItem struct {
	models.Dog
	PrimaryImage string `json:"primary_image,omitempty"`
}

// List handles GET /api/dogs.
func (h *PublicDogHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	items, err := h.dogs.ListPublished(r.Context())
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to list published dogs")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	out := make([]publicDogListItem, 0, len(items))
	for _, item := range items {
		out = append(out, publicDogListItem{Dog: item.Dog, PrimaryImage: item.PrimaryImage})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

// Get handles GET /api/dogs/{id}. Unpublished dogs are indistinguishable
// from missing ones.
func (h *PublicDogHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := r.PathValue("id")
	dog, err := h.dogs.Get(r.Context(), id)
	if errors.Is(err, interfaces.ErrNotFound) {
		WriteError(w, http.StatusNotFound, CodeNotFound, "Dog not found")
		return
	}
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Str("dog_id", id).Msg("failed to get dog")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}
	if !dog.IsPublished() {
		WriteError(w, http.StatusNotFound, CodeNotFound, "Dog not found")
		return
	}

	images, err := h.dogs.Images(r.Context(), id)
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Str("dog_id", id).Msg("failed to list dog images")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"dog":    dog,
		"images": images,
	})
}

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sekhonkennels/kennel-portal/internal/common"
	"github.com/sekhonkennels/kennel-portal/internal/interfaces"
	"github.com/sekhonkennels/kennel-portal/internal/models"
	"github.com/sekhonkennels/kennel-portal/internal/storage/media"
)

// Upload limits for dog images.
const (
	MaxImageSize = 10 * 1024 * 1024
)

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// AdminDogHandler implements the back office dog management endpoints.
type AdminDogHandler struct {
	logger *common.Logger
	dogs   interfaces.DogStore
	bucket interfaces.MediaStorage
}

func NewAdminDogHandler(logger *common.Logger, dogs interfaces.DogStore, bucket interfaces.MediaStorage) *AdminDogHandler {
	return &AdminDogHandler{logger: logger, dogs: dogs, bucket: bucket}
}

// Create handles POST /api/admin/dogs. It inserts a blank draft and
// returns its id; the admin UI fills in details afterwards.
func (h *AdminDogHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	id := ulid.Make().String()
	if err := h.dogs.CreateDraft(r.Context(), id); err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to create dog draft")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	h.logger.Info().Str("dog_id", id).Msg("dog draft created")
	WriteJSON(w, http.StatusOK, map[string]string{"id": id})
}

// List handles GET /api/admin/dogs with page/limit/search/status/published
// query parameters.
func (h *AdminDogHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	q := r.URL.Query()
	filter := interfaces.DogListFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	if v := q.Get("published"); v != "" {
		published := v == "true"
		filter.Published = &published
	}
	if filter.Status != "" && !validDogStatus(filter.Status) {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "invalid status filter")
		return
	}

	list, err := h.dogs.List(r.Context(), filter)
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to list dogs")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	items := make([]publicDogListItem, 0, len(list.Items))
	for _, item := range list.Items {
		items = append(items, publicDogListItem{Dog: item.Dog, PrimaryImage: item.PrimaryImage})
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"items":       items,
		"total":       list.Total,
		"page":        list.Page,
		"limit":       list.Limit,
		"total_pages": list.TotalPages,
	})
}

// Get handles GET /api/admin/dogs/{id}. Unlike the public endpoint it
// returns drafts as well.
func (h *AdminDogHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	images, err := h.dogs.Images(r.Context(), id)
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Str("dog_id", id).Msg("failed to list dog images")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"dog": dog, "images": images})
}

type updateDogRequest struct {
	Name         *string    `json:"name"`
	Breed        *string    `json:"breed"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	Gender       *string    `json:"gender"`
	Size         *string    `json:"size"`
	Color        *string    `json:"color"`
	Weight       *float64   `json:"weight"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	Price        *float64   `json:"price"`
	Microchipped *bool      `json:"microchipped"`
	Vaccinations *[]string  `json:"vaccinations"`
	Dewormings   *int       `json:"dewormings"`
	VetChecked   *bool      `json:"vet_checked"`
	Published    *bool      `json:"published"`
}

func validDogStatus(s string) bool {
	switch s {
	case models.DogStatusAvailable, models.DogStatusReserved, models.DogStatusSold:
		return true
	}
	return false
}

// Update handles PUT /api/admin/dogs/{id}. Absent fields are left
// unchanged. Setting published=true validates the publish requirements:
// a real name and at least one image.
func (h *AdminDogHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "PUT") {
		return
	}

	id := r.PathValue("id")
	var req updateDogRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if req.Status != nil && !validDogStatus(*req.Status) {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "invalid status")
		return
	}

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

	applyDogUpdate(dog, &req)

	if req.Published != nil {
		if *req.Published {
			if dog.Name == "" || dog.Name == "Untitled" {
				WriteError(w, http.StatusBadRequest, CodeBadRequest, "Cannot publish: name is required")
				return
			}
			images, err := h.dogs.Images(r.Context(), id)
			if err != nil {
				h.logger.Error().Str("error", err.Error()).Str("dog_id", id).Msg("failed to list dog images")
				WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
				return
			}
			if len(images) == 0 {
				WriteError(w, http.StatusBadRequest, CodeBadRequest, "Cannot publish: at least one image is required")
				return
			}
			if !dog.IsPublished() {
				now := time.Now().UTC()
				dog.PublishedAt = &now
			}
		} else {
			dog.PublishedAt = nil
		}
	}

	if err := h.dogs.Update(r.Context(), dog); err != nil {
		h.logger.Error().Str("error", err.Error()).Str("dog_id", id).Msg("failed to update dog")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"dog": dog})
}

func applyDogUpdate(dog *models.Dog, req *updateDogRequest) {
	if req.Name != nil {
		dog.Name = *req.Name
	}
	if req.Breed != nil {
		dog.Breed = *req.Breed
	}
	if req.DateOfBirth != nil {
		dog.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != nil {
		dog.Gender = *req.Gender
	}
	if req.Size != nil {
		dog.Size = *req.Size
	}
	if req.Color != nil {
		dog.Color = *req.Color
	}
	if req.Weight != nil {
		dog.Weight = req.Weight
	}
	if req.Description != nil {
		dog.Description = *req.Description
	}
	if req.Status != nil {
		dog.Status = *req.Status
	}
	if req.Price != nil {
		dog.Price = req.Price
	}
	if req.Microchipped != nil {
		dog.Microchipped = *req.Microchipped
	}
	if req.Vaccinations != nil {
		dog.Vaccinations = *req.Vaccinations
	}
	if req.Dewormings != nil {
		dog.Dewormings = *req.Dewormings
	}
	if req.VetChecked != nil {
		dog.VetChecked = *req.VetChecked
	}
}

// Delete handles DELETE /api/admin/dogs/{id}. Bucket objects under the
// dog's prefix are removed first; image rows cascade with the dog row.
func (h *AdminDogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	id := r.PathValue("id")
	if _, err := h.dogs.Get(r.Context(), id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, CodeNotFound, "Dog not found")
			return
		}
		h.logger.Error().Str("error", err.Error()).Str("dog_id", id).Msg("failed to get dog")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	prefix := "dogs/" + id + "/"
	cursor := ""
	for {
		page, err := h.bucket.List(r.Context(), prefix, cursor, 1000)
		if err != nil {
			h.logger.Warn().Str("error", err.Error()).Str("dog_id", id).Msg("failed to list dog media for cleanup")
			break
		}
		for _, obj := range page.Items {
			if err := h.bucket.Delete(r.Context(), obj.Key); err != nil {
				h.logger.Warn().Str("error", err.Error()).Str("key", obj.Key).Msg("failed to delete media object")
			}
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	if err := h.dogs.Delete(r.Context(), id); err != nil {
		h.logger.Error().Str("error", err.Error()).Str("dog_id", id).Msg("failed to delete dog")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	h.logger.Info().Str("dog_id", id).Msg("dog deleted")
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// UploadImage handles POST /api/admin/dogs/{id}/images as a multipart
// form with a "file" part and optional "is_primary" field. JPEG and PNG
// uploads also get resized variants; WebP is stored as-is.
func (h *AdminDogHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	dogID := r.PathValue("id")
	if _, err := h.dogs.Get(r.Context(), dogID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, CodeNotFound, "Dog not found")
			return
		}
		h.logger.Error().Str("error", err.Error()).Str("dog_id", dogID).Msg("failed to get dog")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	if err := r.ParseMultipartForm(MaxImageSize); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		WriteError(w, http.StatusBadRequest, CodeBadRequest,
			"Invalid file type. Allowed: image/jpeg, image/png, image/webp")
		return
	}
	if header.Size > MaxImageSize {
		WriteError(w, http.StatusBadRequest, CodeBadRequest,
			fmt.Sprintf("File too large. Max size: %dMB", MaxImageSize/1024/1024))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to read upload")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}
	if len(data) > MaxImageSize {
		WriteError(w, http.StatusBadRequest, CodeBadRequest,
			fmt.Sprintf("File too large. Max size: %dMB", MaxImageSize/1024/1024))
		return
	}

	imageID := ulid.Make().String()
	key := "dogs/" + dogID + "/" + imageID + "." + ext

	if err := h.bucket.Put(r.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		h.logger.Error().Str("error", err.Error()).Str("key", key).Msg("failed to store image")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	// Variants are best effort; the original remains the source of truth.
	if contentType != "image/webp" {
		variants, err := media.BuildVariants(data)
		if err != nil {
			h.logger.Warn().Str("error", err.Error()).Str("key", key).Msg("failed to build image variants")
		} else {
			for _, v := range variants {
				vKey := media.VariantKey(key, v.Suffix)
				if err := h.bucket.Put(r.Context(), vKey, bytes.NewReader(v.Data),
					int64(len(v.Data)), "image/jpeg"); err != nil {
					h.logger.Warn().Str("error", err.Error()).Str("key", vKey).Msg("failed to store image variant")
				}
			}
		}
	}

	isPrimary := r.FormValue("is_primary") == "true"
	order, err := h.dogs.NextDisplayOrder(r.Context(), dogID)
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Str("dog_id", dogID).Msg("failed to compute display order")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	img := &models.DogImage{
		ID:           imageID,
		DogID:        dogID,
		ObjectKey:    key,
		IsPrimary:    isPrimary,
		DisplayOrder: order,
	}
	if err := h.dogs.InsertImage(r.Context(), img); err != nil {
		h.logger.Error().Str("error", err.Error()).Str("dog_id", dogID).Msg("failed to insert image record")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}
	if isPrimary {
		if err := h.dogs.SetPrimaryImage(r.Context(), dogID, imageID); err != nil {
			h.logger.Warn().Str("error", err.Error()).Str("image_id", imageID).Msg("failed to set primary image")
		}
	}

	h.logger.Info().Str("dog_id", dogID).Str("image_id", imageID).Msg("dog image uploaded")
	WriteJSON(w, http.StatusOK, map[string]string{"image_id": imageID, "key": key})
}

// DeleteImage handles DELETE /api/admin/dogs/{id}/images/{imageID}.
func (h *AdminDogHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	imageID := r.PathValue("imageID")
	img, err := h.dogs.GetImage(r.Context(), imageID)
	if errors.Is(err, interfaces.ErrNotFound) {
		WriteError(w, http.StatusNotFound, CodeNotFound, "Image not found")
		return
	}
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Str("image_id", imageID).Msg("failed to get image")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	keys := append([]string{img.ObjectKey}, media.VariantKeys(img.ObjectKey)...)
	for _, key := range keys {
		if err := h.bucket.Delete(r.Context(), key); err != nil {
			h.logger.Warn().Str("error", err.Error()).Str("key", key).Msg("failed to delete media object")
		}
	}

	if err := h.dogs.DeleteImage(r.Context(), imageID); err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		h.logger.Error().Str("error", err.Error()).Str("image_id", imageID).Msg("failed to delete image record")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// SetPrimaryImage handles POST /api/admin/dogs/{id}/images/{imageID}/primary.
func (h *AdminDogHandler) SetPrimaryImage(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	dogID := r.PathValue("id")
	imageID := r.PathValue("imageID")
	err := h.dogs.SetPrimaryImage(r.Context(), dogID, imageID)
	if errors.Is(err, interfaces.ErrNotFound) {
		WriteError(w, http.StatusNotFound, CodeNotFound, "Image not found")
		return
	}
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Str("image_id", imageID).Msg("failed to set primary image")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// imageContentType maps a stored key's extension to a Content-Type for
// serving.
func imageContentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".avif":
		return "image/avif"
	default:
		return "application/octet-stream"
	}
}

package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sekhonkennels/kennel-portal/internal/common"
	"github.com/sekhonkennels/kennel-portal/internal/interfaces"
	"github.com/sekhonkennels/kennel-portal/internal/storage/media"
)

// MediaHandler serves bucket objects publicly and implements the admin
// media library.
type MediaHandler struct {
	logger *common.Logger
	bucket interfaces.MediaStorage
	dogs   interfaces.DogStore
}

func NewMediaHandler(logger *common.Logger, bucket interfaces.MediaStorage, dogs interfaces.DogStore) *MediaHandler {
	return &MediaHandler{logger: logger, bucket: bucket, dogs: dogs}
}

// Serve handles GET /media/{key...}, streaming the object with long
// cache headers. Keys are immutable so aggressive caching is safe.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	key := r.PathValue("key")
	if key == "" || strings.Contains(key, "..") {
		WriteError(w, http.StatusNotFound, CodeNotFound, "Image key is required.")
		return
	}

	body, obj, err := h.bucket.Get(r.Context(), key)
	if errors.Is(err, interfaces.ErrNotFound) {
		WriteError(w, http.StatusNotFound, CodeNotFound, "Image not found.")
		return
	}
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Str("key", key).Msg("failed to fetch media object")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}
	defer body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = imageContentType(key)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400, s-maxage=31536000, immutable")
	w.Header().Set("ETag", obj.ETag)
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn().Str("error", err.Error()).Str("key", key).Msg("media stream interrupted")
	}
}

// List handles GET /api/admin/media with prefix/cursor/limit query
// parameters.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit == 0 {
		limit = 500
	}

	page, err := h.bucket.List(r.Context(), q.Get("prefix"), q.Get("cursor"), limit)
	if err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to list media")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	resp := map[string]any{"items": page.Items}
	if page.NextCursor != "" {
		resp["next_cursor"] = page.NextCursor
	}
	WriteJSON(w, http.StatusOK, resp)
}

type deleteMediaRequest struct {
	Key string `json:"key"`
}

// Delete handles POST /api/admin/media/delete. Deleting a base object
// also removes its resized variants and any dog image rows that
// reference the key.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req deleteMediaRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if req.Key == "" {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "key is required")
		return
	}

	if err := h.bucket.Delete(r.Context(), req.Key); err != nil {
		h.logger.Error().Str("error", err.Error()).Str("key", req.Key).Msg("failed to delete media object")
		WriteError(w, http.StatusInternalServerError, CodeServerError, "Something went wrong. Try again later.")
		return
	}

	if isBaseImageKey(req.Key) {
		for _, vKey := range media.VariantKeys(req.Key) {
			if err := h.bucket.Delete(r.Context(), vKey); err != nil {
				h.logger.Warn().Str("error", err.Error()).Str("key", vKey).Msg("failed to delete media variant")
			}
		}
	}

	if err := h.dogs.DeleteImageByKey(r.Context(), req.Key); err != nil {
		h.logger.Warn().Str("error", err.Error()).Str("key", req.Key).Msg("failed to delete image records for key")
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// isBaseImageKey reports whether a key names an original upload rather
// than one of its resized variants.
func isBaseImageKey(key string) bool {
	return !strings.Contains(key, "_md.") && !strings.Contains(key, "_sm.")
}

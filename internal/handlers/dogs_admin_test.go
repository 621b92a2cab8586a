package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/sekhonkennels/kennel-portal/internal/common"
	"github.com/sekhonkennels/kennel-portal/internal/models"
)

func newTestAdminDogHandler() (*AdminDogHandler, *fakeDogStore, *fakeBucket) {
	dogs := newFakeDogStore()
	bucket := newFakeBucket()
	h := NewAdminDogHandler(common.NewSilentLogger(), dogs, bucket)
	return h, dogs, bucket
}

func createDraft(t *testing.T, h *AdminDogHandler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/admin/dogs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("create draft status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["id"] == "" {
		t.Fatal("create draft returned empty id")
	}
	return resp["id"]
}

func putRequest(t *testing.T, id string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPut, "/api/admin/dogs/"+id, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", id)
	return req
}

func uploadRequest(t *testing.T, dogID, contentType string, data []byte, isPrimary bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="photo"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if isPrimary {
		if err := mw.WriteField("is_primary", "true"); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/dogs/"+dogID+"/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetPathValue("id", dogID)
	return req
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestAdminDogCreateAndUpdate(t *testing.T) {
	h, dogs, _ := newTestAdminDogHandler()
	id := createDraft(t, h)

	dog, err := dogs.Get(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if dog.Name != "Untitled" || dog.Status != models.DogStatusAvailable {
		t.Errorf("draft defaults = %q/%q", dog.Name, dog.Status)
	}

	rec := httptest.NewRecorder()
	h.Update(rec, putRequest(t, id, map[string]any{
		"name":  "Bella",
		"breed": "Border Collie",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}

	dog, err = dogs.Get(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if dog.Name != "Bella" || dog.Breed != "Border Collie" {
		t.Errorf("updated dog = %q/%q", dog.Name, dog.Breed)
	}
	// Untouched fields keep their values on a partial update.
	if dog.Status != models.DogStatusAvailable {
		t.Errorf("partial update changed status to %q", dog.Status)
	}
}

func TestAdminDogPublishValidation(t *testing.T) {
	h, dogs, _ := newTestAdminDogHandler()
	id := createDraft(t, h)

	// Draft name blocks publishing.
	rec := httptest.NewRecorder()
	h.Update(rec, putRequest(t, id, map[string]any{"published": true}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("publish draft status = %d, want 400", rec.Code)
	}
	if e := decodeError(t, rec); e.Message != "Cannot publish: name is required" {
		t.Errorf("error message = %q", e.Message)
	}

	// A real name alone is not enough without an image.
	rec = httptest.NewRecorder()
	h.Update(rec, putRequest(t, id, map[string]any{"name": "Bella", "published": true}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("publish without image status = %d, want 400", rec.Code)
	}
	if e := decodeError(t, rec); e.Message != "Cannot publish: at least one image is required" {
		t.Errorf("error message = %q", e.Message)
	}

	if err := dogs.InsertImage(context.Background(), &models.DogImage{
		ID: "img1", DogID: id, ObjectKey: "dogs/" + id + "/img1.jpg",
	}); err != nil {
		t.Fatal(err)
	}
	rec = httptest.NewRecorder()
	h.Update(rec, putRequest(t, id, map[string]any{"name": "Bella", "published": true}))
	if rec.Code != http.StatusOK {
		t.Fatalf("publish status = %d: %s", rec.Code, rec.Body.String())
	}

	dog, err := dogs.Get(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if !dog.IsPublished() {
		t.Fatal("dog not published")
	}
	publishedAt := *dog.PublishedAt

	// Re-publishing keeps the original publish time.
	rec = httptest.NewRecorder()
	h.Update(rec, putRequest(t, id, map[string]any{"published": true}))
	if rec.Code != http.StatusOK {
		t.Fatal(rec.Body.String())
	}
	dog, _ = dogs.Get(context.Background(), id)
	if dog.PublishedAt == nil || !dog.PublishedAt.Equal(publishedAt) {
		t.Error("re-publish moved the publish time")
	}

	// Unpublishing clears it.
	rec = httptest.NewRecorder()
	h.Update(rec, putRequest(t, id, map[string]any{"published": false}))
	if rec.Code != http.StatusOK {
		t.Fatal(rec.Body.String())
	}
	dog, _ = dogs.Get(context.Background(), id)
	if dog.PublishedAt != nil {
		t.Error("unpublish left the publish time set")
	}
}

func TestAdminDogUpdate_InvalidStatus(t *testing.T) {
	h, _, _ := newTestAdminDogHandler()
	id := createDraft(t, h)

	rec := httptest.NewRecorder()
	h.Update(rec, putRequest(t, id, map[string]any{"status": "lost"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("update status = %d, want 400", rec.Code)
	}
}

func TestAdminDogUploadImage(t *testing.T) {
	h, dogs, bucket := newTestAdminDogHandler()
	id := createDraft(t, h)

	rec := httptest.NewRecorder()
	h.UploadImage(rec, uploadRequest(t, id, "image/png", pngBytes(t, 1200, 900), true))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	key := resp["key"]
	if key == "" || resp["image_id"] == "" {
		t.Fatalf("upload response = %v", resp)
	}

	if _, ok := bucket.objects[key]; !ok {
		t.Fatalf("original object %q not stored", key)
	}
	// Resized variants land next to the original.
	base := key[:len(key)-len(".png")]
	for _, vKey := range []string{base + "_md.png", base + "_sm.png"} {
		if _, ok := bucket.objects[vKey]; !ok {
			t.Errorf("variant %q not stored", vKey)
		}
	}

	images, err := dogs.Images(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 1 || !images[0].IsPrimary || images[0].ObjectKey != key {
		t.Errorf("stored images = %+v", images)
	}

	// Second upload gets the next display order.
	rec = httptest.NewRecorder()
	h.UploadImage(rec, uploadRequest(t, id, "image/png", pngBytes(t, 100, 100), false))
	if rec.Code != http.StatusOK {
		t.Fatal(rec.Body.String())
	}
	images, _ = dogs.Images(context.Background(), id)
	if len(images) != 2 || images[1].DisplayOrder != 1 {
		t.Errorf("second image order = %+v", images)
	}
}

func TestAdminDogUploadImage_RejectsBadType(t *testing.T) {
	h, _, bucket := newTestAdminDogHandler()
	id := createDraft(t, h)

	rec := httptest.NewRecorder()
	h.UploadImage(rec, uploadRequest(t, id, "application/pdf", []byte("%PDF-"), false))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("upload status = %d, want 400", rec.Code)
	}
	if len(bucket.objects) != 0 {
		t.Error("rejected upload stored objects")
	}
}

func TestAdminDogUploadImage_UnknownDog(t *testing.T) {
	h, _, _ := newTestAdminDogHandler()

	rec := httptest.NewRecorder()
	h.UploadImage(rec, uploadRequest(t, "missing", "image/png", pngBytes(t, 10, 10), false))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("upload status = %d, want 404", rec.Code)
	}
}

func TestAdminDogDeleteImage_RemovesVariants(t *testing.T) {
	h, dogs, bucket := newTestAdminDogHandler()
	id := createDraft(t, h)

	rec := httptest.NewRecorder()
	h.UploadImage(rec, uploadRequest(t, id, "image/png", pngBytes(t, 1200, 900), false))
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/dogs/"+id+"/images/"+resp["image_id"], nil)
	req.SetPathValue("id", id)
	req.SetPathValue("imageID", resp["image_id"])
	rec = httptest.NewRecorder()
	h.DeleteImage(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete image status = %d: %s", rec.Code, rec.Body.String())
	}

	if len(bucket.objects) != 0 {
		t.Errorf("%d objects left after image delete", len(bucket.objects))
	}
	images, _ := dogs.Images(context.Background(), id)
	if len(images) != 0 {
		t.Errorf("%d image rows left after delete", len(images))
	}
}

func TestAdminDogDelete_CleansBucket(t *testing.T) {
	h, dogs, bucket := newTestAdminDogHandler()
	id := createDraft(t, h)

	rec := httptest.NewRecorder()
	h.UploadImage(rec, uploadRequest(t, id, "image/png", pngBytes(t, 1200, 900), false))
	if rec.Code != http.StatusOK {
		t.Fatal(rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/dogs/"+id, nil)
	req.SetPathValue("id", id)
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", rec.Code, rec.Body.String())
	}

	if len(bucket.objects) != 0 {
		t.Errorf("%d objects left after dog delete", len(bucket.objects))
	}
	if _, err := dogs.Get(context.Background(), id); err == nil {
		t.Error("dog row still present after delete")
	}
}

func TestAdminDogList_InvalidStatusFilter(t *testing.T) {
	h, _, _ := newTestAdminDogHandler()

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/admin/dogs?status=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("list status = %d, want 400", rec.Code)
	}
}

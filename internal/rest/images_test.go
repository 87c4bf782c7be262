package rest

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"imagevault/gallery/application"
	"imagevault/gallery/persistence"
)

func newTestRouter(t *testing.T) (*gin.Engine, *application.ImageService, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store, err := persistence.NewFileStore(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	service := application.NewImageService(store)
	router := gin.New()
	NewApi(router, NewImageHandler(service))

	return router, service, dir
}

func redJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("Failed to encode test jpeg: %v", err)
	}
	return buf.Bytes()
}

func multipartUpload(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("Failed to create multipart field: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Failed to write multipart payload: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

func decodeJSON(t *testing.T, body *bytes.Buffer, v any) {
	t.Helper()
	if err := json.Unmarshal(body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", body.String(), err)
	}
}

func TestListImages_EmptyStore(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/image-list", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	var names []string
	decodeJSON(t, rec.Body, &names)
	if names == nil || len(names) != 0 {
		t.Errorf("Body = %q, want empty JSON array", rec.Body.String())
	}
}

func TestListImages_StoreUnavailable(t *testing.T) {
	router, _, dir := newTestRouter(t)

	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("Failed to remove store directory: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/image-list", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Status = %d, want 500", rec.Code)
	}

	var resp map[string]string
	decodeJSON(t, rec.Body, &resp)
	if resp["error"] == "" {
		t.Error("Expected an error message in the response body")
	}
}

func TestGetImage_NotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-image/missing.png", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Status = %d, want 404", rec.Code)
	}

	var resp map[string]string
	decodeJSON(t, rec.Body, &resp)
	if resp["error"] != "File not found" {
		t.Errorf("Error = %q, want %q", resp["error"], "File not found")
	}
}

func TestGetImage_CorruptFile(t *testing.T) {
	router, _, dir := newTestRouter(t)

	if err := os.WriteFile(filepath.Join(dir, "bad.png"), []byte("junk"), 0644); err != nil {
		t.Fatalf("Failed to plant corrupt file: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-image/bad.png", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Status = %d, want 500", rec.Code)
	}
}

func TestUploadImage_NoFileField(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("note", "no file here"); err != nil {
		t.Fatalf("Failed to write form field: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Status = %d, want 400", rec.Code)
	}

	var resp map[string]string
	decodeJSON(t, rec.Body, &resp)
	if resp["error"] != "No file uploaded" {
		t.Errorf("Error = %q, want %q", resp["error"], "No file uploaded")
	}
}

func TestUploadImage_UndecodablePayload(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, "fake.jpg", []byte("not an image at all"))
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Status = %d, want 500", rec.Code)
	}
}

func TestDeleteImage_NotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/delete-image/never.png", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Status = %d, want 404", rec.Code)
	}

	var resp map[string]string
	decodeJSON(t, rec.Body, &resp)
	if resp["error"] != "File not found." {
		t.Errorf("Error = %q, want %q", resp["error"], "File not found.")
	}
}

// Upload a 10x10 jpeg, see it in the list, fetch it with metadata headers,
// delete it, and confirm it is gone.
func TestImageLifecycle(t *testing.T) {
	router, _, _ := newTestRouter(t)

	// upload
	body, contentType := multipartUpload(t, "sample.jpg", redJPEG(t, 10, 10))
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Upload status = %d, body %q", rec.Code, rec.Body.String())
	}

	var uploadResp map[string]string
	decodeJSON(t, rec.Body, &uploadResp)
	want := "sample.jpg uploaded and converted to sample.png."
	if uploadResp["message"] != want {
		t.Errorf("Upload message = %q, want %q", uploadResp["message"], want)
	}

	// list
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/image-list", nil))

	var names []string
	decodeJSON(t, rec.Body, &names)
	if len(names) != 1 || names[0] != "sample.png" {
		t.Fatalf("List = %v, want [sample.png]", names)
	}

	// get
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-image/sample.png", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Get status = %d, body %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want %q", ct, "image/png")
	}
	if format := rec.Header().Get("Image-Format"); format != "PNG" {
		t.Errorf("Image-Format = %q, want %q", format, "PNG")
	}
	if size := rec.Header().Get("Image-Size"); size != "10x10" {
		t.Errorf("Image-Size = %q, want %q", size, "10x10")
	}
	if mode := rec.Header().Get("Image-Mode"); mode == "" {
		t.Error("Image-Mode header is missing")
	}

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("Response body is not a valid png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Errorf("Decoded body is %dx%d, want 10x10", b.Dx(), b.Dy())
	}

	// delete
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/delete-image/sample.png", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Delete status = %d, body %q", rec.Code, rec.Body.String())
	}

	var deleteResp map[string]string
	decodeJSON(t, rec.Body, &deleteResp)
	if deleteResp["message"] != "sample.png deleted successfully." {
		t.Errorf("Delete message = %q, want %q", deleteResp["message"], "sample.png deleted successfully.")
	}

	// gone
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-image/sample.png", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Get after delete status = %d, want 404", rec.Code)
	}
}

// Re-uploading the same original name replaces the record in place.
func TestUploadImage_OverwriteKeepsOneRecord(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, size := range []int{10, 20} {
		body, contentType := multipartUpload(t, "repeat.jpg", redJPEG(t, size, size))
		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("Upload status = %d, body %q", rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/image-list", nil))

	var names []string
	decodeJSON(t, rec.Body, &names)
	if len(names) != 1 {
		t.Fatalf("List = %v, want exactly one record", names)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-image/repeat.png", nil))
	if size := rec.Header().Get("Image-Size"); size != "20x20" {
		t.Errorf("Image-Size = %q, want %q", size, "20x20")
	}
}

package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"imagevault/api"
	"imagevault/gallery/application"
	"imagevault/gallery/domain"
)

// ImageHandler translates the four image operations into service calls and
// maps domain failures onto status codes and JSON error bodies. Handlers hold
// no state of their own; the store behind the service is the only shared state.
type ImageHandler struct {
	service *application.ImageService
}

func NewImageHandler(service *application.ImageService) *ImageHandler {
	return &ImageHandler{service: service}
}

func (h *ImageHandler) ListImages(c *gin.Context) {
	names, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fmt.Sprintf("Failed to list images: %v", err)})
		return
	}

	c.JSON(http.StatusOK, names)
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	filename := c.Param("filename")

	data, meta, err := h.service.Get(c.Request.Context(), filename)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "File not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.Header(api.HeaderImageFormat, meta.Format)
	c.Header(api.HeaderImageSize, meta.Size())
	c.Header(api.HeaderImageMode, meta.Mode)
	c.Data(http.StatusOK, "image/png", data)
}

func (h *ImageHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "No file uploaded"})
		return
	}

	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Empty filename"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	canonical, err := h.service.Ingest(c.Request.Context(), fileHeader.Filename, data)
	if errors.Is(err, domain.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Empty filename"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{
		Message: fmt.Sprintf("%s uploaded and converted to %s.", fileHeader.Filename, canonical),
	})
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	filename := c.Param("filename")

	existed, err := h.service.Delete(c.Request.Context(), filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	if !existed {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "File not found."})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: fmt.Sprintf("%s deleted successfully.", filename)})
}

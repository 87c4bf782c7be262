package rest

import "github.com/gin-gonic/gin"

// NewApi registers the image resource endpoints. The four routes below are the
// complete contract the viewer client depends on, so the paths are fixed.
func NewApi(router *gin.Engine, images *ImageHandler) {
	router.GET("/image-list", images.ListImages)
	router.GET("/get-image/:filename", images.GetImage)
	router.POST("/uploads", images.UploadImage)
	router.DELETE("/delete-image/:filename", images.DeleteImage)
}

package api

// Metadata headers attached to get-image responses. The viewer client reads
// all three alongside the body.
const (
	HeaderImageFormat = "Image-Format"
	HeaderImageSize   = "Image-Size"
	HeaderImageMode   = "Image-Mode"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venues-api/internal/errs"
	"github.com/iliyamo/venues-api/internal/upload"
)

// uploadField is the multipart field carrying the image.
const uploadField = "imageUrl"

// UploadHandler relays a single image to the blob provider.
type UploadHandler struct {
	Uploader upload.Uploader
}

func NewUploadHandler(u upload.Uploader) *UploadHandler {
	if u == nil {
		panic("nil uploader passed to NewUploadHandler")
	}
	return &UploadHandler{Uploader: u}
}

// Upload handles POST /upload and answers {fileUrl}. A request without
// the file is a validation error; provider failures become 500s in the
// error handler.
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		return errs.Validation("no file uploaded")
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	url, err := h.Uploader.Upload(c.Request().Context(), fh.Filename, f)
	if err != nil {
		return fmt.Errorf("upload %q: %w", fh.Filename, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"fileUrl": url})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/middleware"
	"github.com/InkLinkStudio/studio-crm/internal/storage"
)

type UploadHandler struct {
	uploader *storage.Uploader
}

func NewUploadHandler(uploader *storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// UploadImage stores one reference image and returns its public URL.
// The caller attaches the URL to an appointment via the images field.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	if h.uploader == nil {
		httperr.Internal(c, "storage_not_configured", "Archiviazione immagini non configurata.")
		return
	}

	studioID := c.MustGet(middleware.ContextStudioID).(string)

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "Nessuna immagine ricevuta.")
		return
	}

	url, err := h.uploader.UploadImage(c.Request.Context(), fh, "studios/"+studioID)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"family-health-dashboard/internal/domain/entity"
	"family-health-dashboard/internal/infrastructure/blob"
	"family-health-dashboard/pkg/response"

	"github.com/sirupsen/logrus"
)

type PrescriptionHandler struct {
	store *blob.LocalStore
	log   *logrus.Logger
}

func NewPrescriptionHandler(store *blob.LocalStore, log *logrus.Logger) *PrescriptionHandler {
	return &PrescriptionHandler{
		store: store,
		log:   log,
	}
}

// Download serves one stored prescription of the caller's own profiles as an
// attachment. Paths of other identities and directories answer 404.
func (h *PrescriptionHandler) Download(w http.ResponseWriter, r *http.Request) {
	d, ok := currentDashboard(w, r)
	if !ok {
		return
	}

	blobPath := path.Clean("/" + strings.TrimPrefix(r.URL.Path, h.store.URLPath()))
	owned := d.Owner().ProfilesPath() + "/"
	if d.Owner().IsZero() || !strings.HasPrefix(blobPath, owned) {
		response.NotFound(w, "Prescription not found")
		return
	}

	contentType, ok := entity.PrescriptionContentType(path.Ext(blobPath))
	if !ok {
		response.NotFound(w, "Prescription not found")
		return
	}

	f, info, err := h.store.Open(blobPath)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) || errors.Is(err, blob.ErrInvalidPath) {
			response.NotFound(w, "Prescription not found")
			return
		}
		h.log.Warnf("Failed to open prescription: %+v", err)
		response.InternalServerError(w, "Failed to read prescription")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, path.Base(blobPath)))
	http.ServeContent(w, r, path.Base(blobPath), info.ModTime(), f)
}

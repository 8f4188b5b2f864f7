package handlers

import (
	"net/http"

	"github.com/unixplore/apiserver/internal/storage"
)

const (
	maxLogoMemory = 8 << 20
	maxLogoBytes  = 5 << 20
	formFieldLogo = "logo"
)

type uploadError struct {
	status  int
	message string
}

// storeLogo reads the multipart logo field and uploads it to object
// storage, returning the generated key.
func storeLogo(r *http.Request, assets *storage.AssetStore) (string, *uploadError) {
	if assets == nil {
		return "", &uploadError{http.StatusServiceUnavailable, "Uploads are not enabled"}
	}

	if err := r.ParseMultipartForm(maxLogoMemory); err != nil {
		return "", &uploadError{http.StatusBadRequest, "Invalid multipart form"}
	}

	file, header, err := r.FormFile(formFieldLogo)
	if err != nil {
		return "", &uploadError{http.StatusBadRequest, "Logo file is required"}
	}
	defer file.Close()

	if header.Size > maxLogoBytes {
		return "", &uploadError{http.StatusBadRequest, "Logo file too large"}
	}

	contentType := header.Header.Get("Content-Type")
	key, err := assets.PutLogo(r.Context(), header.Filename, file, header.Size, contentType)
	if err != nil {
		return "", &uploadError{http.StatusInternalServerError, "Server error"}
	}
	return key, nil
}

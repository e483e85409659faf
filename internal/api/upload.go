package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"devfolio/internal/assets"
	"devfolio/internal/scan"
)

// formUpload extracts an optional multipart file and runs it through the
// virus scanner before it may reach the asset store. Returns nil when the
// field is absent. The caller must close the returned reader.
func formUpload(c *gin.Context, scanner *scan.Scanner, field, folder string) (*assets.Upload, multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read form file %q: %w", field, err)
	}

	if scanner.Enabled() {
		reader, err := header.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("open form file %q: %w", field, err)
		}
		scanErr := scanner.Scan(reader)
		reader.Close()
		if scanErr != nil {
			return nil, nil, scanErr
		}
	}

	reader, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open form file %q: %w", field, err)
	}

	contentType := header.Header.Get("Content-Type")
	up := &assets.Upload{
		Reader:      reader,
		Size:        header.Size,
		ContentType: contentType,
		Folder:      folder,
		Ext:         filepath.Ext(header.Filename),
	}
	return up, reader, nil
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"foodapp/internal/storage"
)

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// saveUpload stores the file sent under field, if any. It returns an empty
// path when the request carries no such file.
func saveUpload(c *gin.Context, blobs *storage.BlobStore, field string) (string, error) {
	if !isMultipart(c) {
		return "", nil
	}

	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || strings.Contains(err.Error(), "no such file") {
			return "", nil
		}
		return "", errInvalidBody
	}
	return blobs.Save(file)
}

// formValue returns a pointer to the posted value, nil when the field is absent.
func formValue(c *gin.Context, key string) *string {
	value, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &value
}

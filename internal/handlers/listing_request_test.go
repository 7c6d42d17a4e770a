package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodapp/internal/models"
	"foodapp/internal/storage"
)

func newBlobs(t *testing.T) *storage.BlobStore {
	t.Helper()
	blobs, err := storage.NewBlobStore(storage.Config{Dir: t.TempDir(), PublicPath: "/uploads"})
	require.NoError(t, err)
	return blobs
}

func TestParseListingRequest_Multipart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	_ = writer.WriteField("name", "Luigi's")
	_ = writer.WriteField("address", `{"street":"1 Main","city":"NY","state":"NY","zipCode":10001}`)
	_ = writer.WriteField("accessKey", "0042")
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/restaurants", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	parsed, picture, err := parseListingRequest(c, newBlobs(t), "picture")
	require.NoError(t, err)
	assert.Empty(t, picture)
	require.NotNil(t, parsed.Name)
	assert.Equal(t, "Luigi's", *parsed.Name)
	assert.Nil(t, parsed.Phone)
	require.NotNil(t, parsed.AccessKey)
	assert.Equal(t, "0042", *parsed.AccessKey)

	addr, err := parsed.Address.Resolve()
	require.NoError(t, err)
	assert.Equal(t, models.Address{Street: "1 Main", City: "NY", State: "NY", ZipCode: "10001"}, addr)
}

func TestParseListingRequest_JSONIgnoresPictureString(t *testing.T) {
	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest("PUT", "/restaurants/1", strings.NewReader(`{"tagline":"fresh","picture":"/etc/passwd"}`))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	parsed, picture, err := parseListingRequest(c, newBlobs(t), "picture")
	require.NoError(t, err)
	assert.Empty(t, picture)
	require.NotNil(t, parsed.Tagline)
	assert.Equal(t, "fresh", *parsed.Tagline)
	assert.Nil(t, parsed.Address)
}

func TestParseListingRequest_BadJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest("POST", "/restaurants", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	_, _, err := parseListingRequest(c, newBlobs(t), "picture")
	assert.ErrorIs(t, err, errInvalidBody)
}

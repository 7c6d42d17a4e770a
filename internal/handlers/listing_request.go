package handlers

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"foodapp/internal/models"
	"foodapp/internal/services"
	"foodapp/internal/storage"
)

// listingBody is the JSON shape shared by restaurants and seller
// applications. address may be an object or a JSON-encoded string.
type listingBody struct {
	Name        *string                `json:"name"`
	Cuisine     *string                `json:"cuisine"`
	Address     *models.AddressPayload `json:"address"`
	Phone       *string                `json:"phone"`
	Email       *string                `json:"email"`
	Tagline     *string                `json:"tagline"`
	OwnerName   *string                `json:"ownerName"`
	AccessKey   *string                `json:"accessKey"`
	RequestType *string                `json:"requestType"`
}

func (b listingBody) fields() services.ListingFields {
	return services.ListingFields{
		Name:      b.Name,
		Cuisine:   b.Cuisine,
		Address:   b.Address,
		Phone:     b.Phone,
		Email:     b.Email,
		Tagline:   b.Tagline,
		OwnerName: b.OwnerName,
	}
}

// parseListingRequest reads either a multipart form carrying an optional
// image under fileField, or a JSON body. Pictures only arrive as uploads; a
// picture string in JSON is ignored.
func parseListingRequest(c *gin.Context, blobs *storage.BlobStore, fileField string) (listingBody, string, error) {
	if !isMultipart(c) {
		var body listingBody
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			return listingBody{}, "", errInvalidBody
		}
		return body, "", nil
	}

	if _, err := c.MultipartForm(); err != nil {
		return listingBody{}, "", errInvalidBody
	}

	body := listingBody{
		Name:        formValue(c, "name"),
		Cuisine:     formValue(c, "cuisine"),
		Phone:       formValue(c, "phone"),
		Email:       formValue(c, "email"),
		Tagline:     formValue(c, "tagline"),
		OwnerName:   formValue(c, "ownerName"),
		AccessKey:   formValue(c, "accessKey"),
		RequestType: formValue(c, "requestType"),
	}
	if address := formValue(c, "address"); address != nil && strings.TrimSpace(*address) != "" {
		body.Address = models.AddressPayloadFromString(*address)
	}

	picture, err := saveUpload(c, blobs, fileField)
	if err != nil {
		return listingBody{}, "", err
	}
	return body, picture, nil
}

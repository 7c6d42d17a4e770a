package services

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"foodapp/internal/models"
)

const (
	maxNameLength      = 100
	maxTaglineLength   = 200
	maxOwnerNameLength = 50
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func validPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func trimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func tooLong(value string, max int) bool {
	return utf8.RuneCountInString(value) > max
}

func checkPhone(phone string) error {
	if !validPhone(phone) {
		return invalidFormat("phone", "Invalid phone number format")
	}
	return nil
}

func checkEmail(email string) error {
	if !validEmail(email) {
		return invalidFormat("email", "Invalid email format")
	}
	return nil
}

func checkCuisine(cuisine string) error {
	if !models.Cuisine(cuisine).Valid() {
		return invalidFormat("cuisine", "Cuisine must be one of Italian, Mexican, Chinese, Indian, American, Other")
	}
	return nil
}

func checkLength(field, value string, max int, message string) error {
	if tooLong(value, max) {
		return invalidFormat(field, message)
	}
	return nil
}

// resolveAddress is the single parse-and-normalize step for addresses.
func resolveAddress(payload *models.AddressPayload) (models.Address, error) {
	addr, err := payload.Resolve()
	if err != nil {
		if errors.Is(err, models.ErrMalformedAddress) {
			return models.Address{}, &Error{Kind: ErrInvalidAddressFormat, Field: "address", Message: "Invalid address format"}
		}
		return models.Address{}, err
	}
	if !addr.Complete() {
		return models.Address{}, missingField("address", "All address fields are required")
	}
	return addr, nil
}

// checkSupplied validates the format of every supplied field, in declaration
// order, and returns the first failure.
func (f ListingFields) checkSupplied() error {
	if f.Name != nil {
		if trimmed(f.Name) == "" {
			return missingField("name", "Restaurant name is required")
		}
		if err := checkLength("name", trimmed(f.Name), maxNameLength, "Name cannot exceed 100 characters"); err != nil {
			return err
		}
	}
	if f.Cuisine != nil {
		if err := checkCuisine(trimmed(f.Cuisine)); err != nil {
			return err
		}
	}
	if f.Phone != nil {
		if err := checkPhone(trimmed(f.Phone)); err != nil {
			return err
		}
	}
	if f.Email != nil {
		if err := checkEmail(trimmed(f.Email)); err != nil {
			return err
		}
	}
	if f.Tagline != nil {
		if err := checkLength("tagline", trimmed(f.Tagline), maxTaglineLength, "Tagline cannot exceed 200 characters"); err != nil {
			return err
		}
	}
	if f.OwnerName != nil {
		if trimmed(f.OwnerName) == "" {
			return missingField("ownerName", "Owner name is required")
		}
		if err := checkLength("ownerName", trimmed(f.OwnerName), maxOwnerNameLength, "Owner name cannot exceed 50 characters"); err != nil {
			return err
		}
	}
	return nil
}

type requiredField struct {
	name    string
	present bool
}

func required(name string, present bool) requiredField {
	return requiredField{name: name, present: present}
}

// requirePresent reports the first listed field that was not supplied.
func requirePresent(fields ...requiredField) error {
	for _, f := range fields {
		if !f.present {
			return missingField(f.name, "Missing required fields")
		}
	}
	return nil
}

func presentString(value *string) bool {
	return trimmed(value) != ""
}

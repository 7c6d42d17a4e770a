package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var ErrMalformedAddress = errors.New("malformed address")

// Address is the canonical postal address shared by restaurants and seller
// applications.
type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipCode" json:"zipCode"`
}

// Complete reports whether every address line is filled in.
func (a Address) Complete() bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.ZipCode != ""
}

// AddressPayload holds an address exactly as a client sent it: either a JSON
// object or a string containing a JSON object. Resolve turns it into an
// Address.
type AddressPayload struct {
	raw []byte
}

// AddressPayloadFromString wraps a form value carrying the address as JSON text.
func AddressPayloadFromString(s string) *AddressPayload {
	return &AddressPayload{raw: []byte(s)}
}

func (p *AddressPayload) UnmarshalJSON(data []byte) error {
	p.raw = append([]byte(nil), data...)
	return nil
}

func (p *AddressPayload) Resolve() (Address, error) {
	if p == nil {
		return Address{}, ErrMalformedAddress
	}
	return ParseAddress(p.raw)
}

// ParseAddress accepts a JSON object, or a JSON string whose content is a JSON
// object. Scalar fields may be strings or numbers.
func ParseAddress(raw []byte) (Address, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Address{}, ErrMalformedAddress
	}

	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return Address{}, fmt.Errorf("%w: %v", ErrMalformedAddress, err)
		}
		trimmed = bytes.TrimSpace([]byte(inner))
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return Address{}, ErrMalformedAddress
		}
	}

	if trimmed[0] != '{' {
		return Address{}, ErrMalformedAddress
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrMalformedAddress, err)
	}

	var (
		addr Address
		err  error
	)
	if addr.Street, err = addressField(fields, "street"); err != nil {
		return Address{}, err
	}
	if addr.City, err = addressField(fields, "city"); err != nil {
		return Address{}, err
	}
	if addr.State, err = addressField(fields, "state"); err != nil {
		return Address{}, err
	}
	if addr.ZipCode, err = addressField(fields, "zipCode"); err != nil {
		return Address{}, err
	}
	return addr, nil
}

func addressField(fields map[string]json.RawMessage, key string) (string, error) {
	value, ok := fields[key]
	if !ok {
		return "", nil
	}
	value = bytes.TrimSpace(value)
	if len(value) == 0 || string(value) == "null" {
		return "", nil
	}

	switch value[0] {
	case '"':
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrMalformedAddress, key, err)
		}
		return strings.TrimSpace(s), nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(value, &n); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrMalformedAddress, key, err)
		}
		return n.String(), nil
	default:
		return "", fmt.Errorf("%w: %s must be a string", ErrMalformedAddress, key)
	}
}

type addressDocument Address

// UnmarshalBSONValue also accepts addresses that older writers stored as a
// JSON string.
func (a *Address) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*a = Address{}
		return nil
	case bsontype.EmbeddedDocument:
		var doc addressDocument
		if err := bson.UnmarshalValue(t, data, &doc); err != nil {
			return err
		}
		*a = Address(doc)
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		if strings.TrimSpace(value) == "" {
			*a = Address{}
			return nil
		}
		parsed, err := ParseAddress([]byte(value))
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	default:
		return fmt.Errorf("cannot decode %s into Address", t)
	}
}

// Package services holds the record lifecycle rules for users, restaurants and
// seller applications: validation, persistence and cleanup of the images the
// records own.
package services

import (
	"time"
)

// Blobs is the part of the blob store the services need. Delete is best
// effort and never fails.
type Blobs interface {
	Delete(stored string)
	URL(stored string) *string
}

type clock func() time.Time

// discardUpload removes a freshly uploaded blob when the operation that would
// have referenced it failed.
func discardUpload(blobs Blobs, err *error, stored string) {
	if *err != nil && stored != "" {
		blobs.Delete(stored)
	}
}

// replaceBlob deletes the previous blob once the record points at a new one.
func replaceBlob(blobs Blobs, previous, current string) {
	if current != "" && previous != "" && previous != current {
		blobs.Delete(previous)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

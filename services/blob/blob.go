// Package blob stores friend pictures outside the database. Clients upload
// directly to a presigned URL and hand the returned reference back to the API.
package blob

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

const refPrefix = "friends/"

var ErrInvalidRef = errors.New("invalid image reference")

// Store issues upload URLs, resolves references and deletes images
type Store interface {
	UploadURL(ctx context.Context) (uploadURL string, ref string, err error)
	URL(ctx context.Context, ref string) (string, error)
	Delete(ctx context.Context, ref string) error
}

func newRef() string {
	return refPrefix + uuid.NewString()
}

// ValidRef reports whether ref could have been issued by a Store
func ValidRef(ref string) bool {
	id, ok := strings.CutPrefix(ref, refPrefix)
	if !ok {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

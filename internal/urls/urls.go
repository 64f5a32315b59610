package urls

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// Builder produces the public URLs of the API's resources.
type Builder struct {
	base *url.URL
	path string
}

// New validates baseURL once so the per-request builders cannot fail.
func New(baseURL, recordingsPath string) (*Builder, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &Builder{base: u, path: strings.Trim(recordingsPath, "/")}, nil
}

// Prefix is the router mount point, e.g. "/recordings".
func (b *Builder) Prefix() string {
	return "/" + b.path
}

// Recording returns the canonical location of a recording.
func (b *Builder) Recording(id uuid.UUID) string {
	return b.base.JoinPath(b.path, "id", id.String()).String()
}

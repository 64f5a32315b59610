package storage

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// objectURL joins the public base of a bucket with the object key.
func objectURL(base string, id uuid.UUID) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(base, "/") + "/" + id.String())
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("public url %q is not absolute", base)
	}
	return u.String(), nil
}

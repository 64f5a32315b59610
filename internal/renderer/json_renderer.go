package renderer

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
)

// JSON returns the JSON encoding of v together with a quoted ETag derived
// from it, for responses that clients may revalidate with If-None-Match.
func JSON(v any) ([]byte, string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, "", fmt.Errorf("json marshal: %w", err)
	}
	return raw, ETag(raw), nil
}

// ETag is the strong validator of a rendered body.
func ETag(raw []byte) string {
	return fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(raw))
}

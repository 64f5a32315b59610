package main

import (
	"fmt"

	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// parseParents turns the CLI arguments into parent ids; no arguments means a
// single batch of root tokens.
func parseParents(args []string) ([]*uuid.UUID, error) {
	if len(args) == 0 {
		return []*uuid.UUID{nil}, nil
	}
	out := make([]*uuid.UUID, 0, len(args))
	for _, a := range args {
		id, err := uuid.Parse(a)
		if err != nil {
			return nil, fmt.Errorf("invalid recording id %q: %w", a, err)
		}
		out = append(out, &id)
	}
	return out, nil
}

package model

import (
	"errors"
	"fmt"
	"strings"
)

const audioFormatDelimiter = "/"

var ErrMalformedAudioFormat = errors.New("malformed audio format")

// AudioFormat is the container/codec pair of a single decoded stream.
type AudioFormat struct {
	Container string `json:"container"`
	Codec     string `json:"codec"`
}

func (f AudioFormat) String() string {
	return f.Container + audioFormatDelimiter + f.Codec
}

// ParseAudioFormat parses the "container/codec" form produced by String.
func ParseAudioFormat(s string) (AudioFormat, error) {
	parts := strings.Split(s, audioFormatDelimiter)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return AudioFormat{}, fmt.Errorf("%w: %q", ErrMalformedAudioFormat, s)
	}
	return AudioFormat{Container: parts[0], Codec: parts[1]}, nil
}

func (f AudioFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *AudioFormat) UnmarshalText(text []byte) error {
	parsed, err := ParseAudioFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

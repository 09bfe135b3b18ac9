package domain

import (
	"fmt"
	"strings"
)

// Picture is an immutable image reference. At most one picture per item may
// carry the Main flag; the Item aggregate enforces that, not Picture itself.
type Picture struct {
	URL  string `json:"url"`
	Main bool   `json:"main"`
	Alt  string `json:"alt,omitempty"`
}

// NewPicture validates and returns a Picture. The URL is required.
func NewPicture(url string, main bool, alt string) (Picture, error) {
	if strings.TrimSpace(url) == "" {
		return Picture{}, fmt.Errorf("%w: picture url required", ErrInvalidArgument)
	}
	return Picture{URL: url, Main: main, Alt: alt}, nil
}

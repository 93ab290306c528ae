package models

import (
	"encoding/hex"
	"errors"

	"lukechampine.com/blake3"
)

// Session identifies the pair of branches being compared and merged
type Session struct {
	Source      string `json:"source"`      // URL or path revisions are merged from
	Destination string `json:"destination"` // Working copy or URL revisions are merged into
	BaseURL     string `json:"baseUrl"`     // Repository root, informational
}

// Validate checks if the session has required fields
func (s *Session) Validate() error {
	if s.Source == "" {
		return errors.New("source is required")
	}
	if s.Destination == "" {
		return errors.New("destination is required")
	}
	return nil
}

// Fingerprint returns the key under which the session's revision cache is stored
func (s *Session) Fingerprint() string {
	sum := blake3.Sum256([]byte(s.Source + "::::" + s.Destination))
	return hex.EncodeToString(sum[:])
}

package domain

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrSchemaDisabled   = errors.New("schema plugin is disabled")
	ErrChecksumMismatch = errors.New("schema plugin checksum mismatch")
	ErrSeasonNotFound   = errors.New("no schema provider for season")
	ErrSchemaTimeout    = errors.New("schema plugin timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes one installed season-schema plugin binary. Payload
// shapes are owned by these external providers; the engine only ever
// merges stored documents against what they hand back.
type Manifest struct {
	Name    string `json:"name"`
	Season  string `json:"season"`
	Version string `json:"version"`
	Binary  string `json:"binary"`
	SHA256  string `json:"sha256"`
	Enabled bool   `json:"enabled"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("schema plugin name is required")
	}
	if m.Season == "" {
		return fmt.Errorf("schema plugin season is required")
	}
	if m.Version == "" {
		return fmt.Errorf("schema plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("schema plugin binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("schema plugin sha256 must be lowercase 64-char hex")
	}
	return nil
}

type Metadata struct {
	Name          string
	Season        string
	Version       string
	SchemaVersion int
}

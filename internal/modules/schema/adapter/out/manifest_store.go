package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"matchscout/internal/modules/schema/domain"
	schemaout "matchscout/internal/modules/schema/port/out"
)

const manifestFile = "plugins.json"

// FileManifestStore reads the installed-plugin list from
// <pluginDir>/plugins.json. Every entry is validated on load, so the
// rest of the module only ever sees well-formed manifests with absolute
// binary paths, and no two entries may serve the same season.
type FileManifestStore struct {
	dir string
}

func NewFileManifestStore(pluginDir string) schemaout.ManifestStore {
	return &FileManifestStore{dir: pluginDir}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, manifestFile))
	if os.IsNotExist(err) {
		return []domain.Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read schema manifest store: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	var manifests []domain.Manifest
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode schema manifests: %w", err)
	}

	seasons := make(map[string]string, len(manifests))
	for i, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, fmt.Errorf("manifest %d (%q): %w", i, manifest.Name, err)
		}
		if holder, taken := seasons[manifest.Season]; taken {
			return nil, fmt.Errorf("season %s is served by both %q and %q", manifest.Season, holder, manifest.Name)
		}
		seasons[manifest.Season] = manifest.Name
		if !filepath.IsAbs(manifest.Binary) {
			manifests[i].Binary = filepath.Clean(filepath.Join(s.dir, manifest.Binary))
		}
	}
	return manifests, nil
}

package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"matchscout/internal/modules/schema/domain"
	schemaout "matchscout/internal/modules/schema/port/out"
)

// SchemaService resolves a season to its installed plugin manifest,
// verifying the binary checksum before any dispense.
type SchemaService struct {
	store schemaout.ManifestStore
	host  schemaout.Host
}

func NewSchemaService(store schemaout.ManifestStore, host schemaout.Host) *SchemaService {
	return &SchemaService{store: store, host: host}
}

func (s *SchemaService) Manifests(ctx context.Context) ([]domain.Manifest, error) {
	return s.store.Load(ctx)
}

// Resolve finds the enabled manifest for a season. The reference season
// never resolves to a plugin.
func (s *SchemaService) Resolve(ctx context.Context, season string) (domain.Manifest, error) {
	if season == domain.ReferenceSeason {
		return domain.Manifest{}, domain.ErrSeasonNotFound
	}
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	for _, manifest := range manifests {
		if manifest.Season != season {
			continue
		}
		if !manifest.Enabled {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrSchemaDisabled, manifest.Name)
		}
		if err := manifest.Validate(); err != nil {
			return domain.Manifest{}, err
		}
		if err := verifyChecksum(manifest); err != nil {
			return domain.Manifest{}, err
		}
		return manifest, nil
	}
	return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrSeasonNotFound, season)
}

func (s *SchemaService) Check(ctx context.Context, manifest domain.Manifest) error {
	return s.host.Check(ctx, manifest)
}

func (s *SchemaService) Metadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	return s.host.GetMetadata(ctx, manifest)
}

func (s *SchemaService) DefaultPayload(ctx context.Context, manifest domain.Manifest) (json.RawMessage, error) {
	payload, err := s.host.DefaultPayload(ctx, manifest)
	if err != nil {
		return nil, err
	}
	doc := map[string]any{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("schema plugin returned malformed payload: %w", err)
	}
	return payload, nil
}

func verifyChecksum(manifest domain.Manifest) error {
	raw, err := os.ReadFile(manifest.Binary)
	if err != nil {
		return fmt.Errorf("read schema plugin binary: %w", err)
	}
	sum := sha256.Sum256(raw)
	if hex.EncodeToString(sum[:]) != manifest.SHA256 {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, manifest.Name)
	}
	return nil
}

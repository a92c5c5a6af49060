package domain_test

import (
	"encoding/json"
	"testing"

	"matchscout/internal/modules/schema/domain"
)

func validManifest() domain.Manifest {
	return domain.Manifest{
		Name:    "rapidreact",
		Season:  "2026",
		Version: "1.2.0",
		Binary:  "rapidreact-schema",
		SHA256:  "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		Enabled: true,
	}
}

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	if err := validManifest().Validate(); err != nil {
		t.Fatalf("valid manifest rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*domain.Manifest)
	}{
		{"missing name", func(m *domain.Manifest) { m.Name = "" }},
		{"missing season", func(m *domain.Manifest) { m.Season = "" }},
		{"missing version", func(m *domain.Manifest) { m.Version = "" }},
		{"missing binary", func(m *domain.Manifest) { m.Binary = "" }},
		{"short checksum", func(m *domain.Manifest) { m.SHA256 = "abc123" }},
		{"uppercase checksum", func(m *domain.Manifest) {
			m.SHA256 = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
		}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			manifest := validManifest()
			tc.mutate(&manifest)
			if err := manifest.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestReferencePayloadIsWellFormed(t *testing.T) {
	t.Parallel()
	doc := map[string]any{}
	if err := json.Unmarshal(domain.ReferenceDefaultPayload(), &doc); err != nil {
		t.Fatalf("reference payload must decode: %v", err)
	}
	for _, section := range []string{"pre", "auto", "teleop", "post"} {
		if _, ok := doc[section]; !ok {
			t.Fatalf("reference payload missing %q section", section)
		}
	}
	if doc["schema_version"] != float64(domain.ReferenceMetadata().SchemaVersion) {
		t.Fatalf("schema_version mismatch: %v", doc["schema_version"])
	}
}

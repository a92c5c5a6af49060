package domain_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"matchscout/internal/modules/session/domain"
)

func TestMergeStoredValuesWin(t *testing.T) {
	t.Parallel()
	stored := map[string]any{
		"auto": map[string]any{"scored_high": float64(4)},
		"notes": "watch intake",
	}
	defaults := map[string]any{
		"auto":   map[string]any{"scored_high": float64(0), "mobility": false},
		"teleop": map[string]any{"scored_low": float64(0)},
		"notes":  "",
	}

	out := domain.Merge(stored, defaults)
	auto := out["auto"].(map[string]any)
	if auto["scored_high"] != float64(4) {
		t.Fatalf("stored value must win, got %v", auto["scored_high"])
	}
	if auto["mobility"] != false {
		t.Fatalf("missing nested default must be filled")
	}
	if _, ok := out["teleop"]; !ok {
		t.Fatalf("missing top-level default must be filled")
	}
	if out["notes"] != "watch intake" {
		t.Fatalf("stored scalar must win, got %v", out["notes"])
	}
}

func TestMergeKeepsKeysAbsentFromDefaults(t *testing.T) {
	t.Parallel()
	stored := map[string]any{"custom_field": float64(7)}
	out := domain.Merge(stored, map[string]any{"auto": map[string]any{}})
	if out["custom_field"] != float64(7) {
		t.Fatalf("keys unknown to the defaults must survive")
	}
}

func TestMergeArraysAreOpaque(t *testing.T) {
	t.Parallel()
	stored := map[string]any{"pickups": []any{float64(1)}}
	defaults := map[string]any{"pickups": []any{float64(0), float64(0), float64(0)}}
	out := domain.Merge(stored, defaults)
	if !reflect.DeepEqual(out["pickups"], []any{float64(1)}) {
		t.Fatalf("stored array must be kept whole, got %v", out["pickups"])
	}
}

func TestMergeIdempotent(t *testing.T) {
	t.Parallel()
	stored := map[string]any{"auto": map[string]any{"scored_high": float64(4)}}
	defaults := map[string]any{
		"auto": map[string]any{"scored_high": float64(0), "mobility": false},
		"post": map[string]any{"endgame": "none"},
	}
	once := domain.Merge(stored, defaults)
	twice := domain.Merge(once, defaults)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("merge must be idempotent:\nonce  %v\ntwice %v", once, twice)
	}
}

func TestMergeRawMalformedStoredYieldsDefaults(t *testing.T) {
	t.Parallel()
	defaults := json.RawMessage(`{"auto":{"mobility":false}}`)
	out, err := domain.MergeRaw(json.RawMessage(`{"auto": truncated`), defaults)
	if err != nil {
		t.Fatalf("merge raw: %v", err)
	}
	doc := map[string]any{}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("decode merged: %v", err)
	}
	if _, ok := doc["auto"]; !ok {
		t.Fatalf("malformed stored document must fall back to defaults, got %s", out)
	}
}

func TestMergeRawMalformedDefaultsIsError(t *testing.T) {
	t.Parallel()
	if _, err := domain.MergeRaw(json.RawMessage(`{}`), json.RawMessage(`not json`)); err == nil {
		t.Fatalf("malformed defaults must be rejected")
	}
}

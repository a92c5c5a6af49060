package domain

import "encoding/json"

// ReferenceSeason is the built-in fallback schema used when no plugin is
// installed for the configured season. It carries one representative
// section per entry phase so the engine is usable out of the box.
const ReferenceSeason = "reference"

const referencePayload = `{
  "schema_version": 1,
  "pre": {
    "starting_position": "",
    "preload": false,
    "no_show": false
  },
  "auto": {
    "mobility": false,
    "scored_low": 0,
    "scored_high": 0
  },
  "teleop": {
    "scored_low": 0,
    "scored_high": 0,
    "defense_rating": 0
  },
  "post": {
    "endgame": "none",
    "broke_down": false,
    "notes": ""
  }
}`

func ReferenceDefaultPayload() json.RawMessage {
	return json.RawMessage(referencePayload)
}

func ReferenceMetadata() Metadata {
	return Metadata{Name: "reference", Season: ReferenceSeason, Version: "builtin", SchemaVersion: 1}
}

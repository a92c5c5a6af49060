package main

import (
	"context"

	"github.com/hashicorp/go-plugin"

	schemarpc "matchscout/internal/modules/schema/adapter/out/rpc"
)

// The reference season plugin: the same payload document the engine
// falls back to when no plugin is installed, served over the plugin
// contract so hosts can be exercised end to end.
type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *schemarpc.Empty) (*schemarpc.Metadata, error) {
	return &schemarpc.Metadata{
		Name:          "reference",
		Season:        "reference",
		Version:       "1.0.0",
		SchemaVersion: 1,
	}, nil
}

func (s *server) DefaultPayload(_ context.Context, _ *schemarpc.Empty) (*schemarpc.DefaultPayloadResponse, error) {
	return &schemarpc.DefaultPayloadResponse{
		PayloadJSON: `{
  "schema_version": 1,
  "pre": {"starting_position": "", "preload": false, "no_show": false},
  "auto": {"mobility": false, "scored_low": 0, "scored_high": 0},
  "teleop": {"scored_low": 0, "scored_high": 0, "defense_rating": 0},
  "post": {"endgame": "none", "broke_down": false, "notes": ""}
}`,
	}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: schemarpc.HandshakeConfig,
		Plugins:         schemarpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}

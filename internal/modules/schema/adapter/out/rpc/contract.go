package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey         = "matchscout"
	serviceName          = "matchscout.schema.v1.SeasonSchema"
	jsonCodecName        = "json"
	methodGetMetadata    = "/" + serviceName + "/GetMetadata"
	methodDefaultPayload = "/" + serviceName + "/DefaultPayload"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "MATCHSCOUT_SCHEMA",
	MagicCookieValue: "matchscout",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name          string `json:"name"`
	Season        string `json:"season"`
	Version       string `json:"version"`
	SchemaVersion int32  `json:"schema_version"`
}

type DefaultPayloadResponse struct {
	PayloadJSON string `json:"payload_json"`
}

type SeasonSchemaServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	DefaultPayload(ctx context.Context, in *Empty) (*DefaultPayloadResponse, error)
}

type SeasonSchemaClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	DefaultPayload(ctx context.Context) (*DefaultPayloadResponse, error)
}

type seasonSchemaClient struct {
	conn *grpc.ClientConn
}

func NewSeasonSchemaClient(conn *grpc.ClientConn) SeasonSchemaClient {
	return &seasonSchemaClient{conn: conn}
}

func (c *seasonSchemaClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *seasonSchemaClient) DefaultPayload(ctx context.Context) (*DefaultPayloadResponse, error) {
	out := &DefaultPayloadResponse{}
	if err := c.conn.Invoke(ctx, methodDefaultPayload, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterSeasonSchemaServer(server grpc.ServiceRegistrar, impl SeasonSchemaServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*SeasonSchemaServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "DefaultPayload",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.DefaultPayload(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodDefaultPayload}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.DefaultPayload(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/season-schema-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl SeasonSchemaServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterSeasonSchemaServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewSeasonSchemaClient(conn), nil
}

func PluginMap(impl SeasonSchemaServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}

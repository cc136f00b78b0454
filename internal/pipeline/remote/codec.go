package remote

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is sent as the gRPC content-subtype ("application/grpc+json").
const codecName = "json"

// jsonCodec carries request and reply as JSON so the service needs no
// generated protobuf stubs.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

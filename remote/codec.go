// Package remote exposes a host.Host's predict method over a single unary
// gRPC RPC: service ModelHost, method predict. Request and response bodies
// are opaque byte payloads — the adapter never interprets the argument
// tuple or result it carries, matching the wire format spec.md describes.
// There is no .proto file: protoc is not part of this toolchain, so the
// service is registered by hand against a grpc.ServiceDesc and framed with
// a codec that passes bytes straight through instead of marshaling protos.
package remote

import "fmt"

// Payload is the message type exchanged in both directions of the
// ModelHost.predict RPC — a single opaque byte slice.
type Payload []byte

// Codec implements encoding.Codec (google.golang.org/grpc/encoding) by
// passing bytes straight to and from the wire without any schema.
type Codec struct{}

// Name identifies this codec to gRPC's negotiation; it is not one of the
// registered global codecs ("proto"), so it must be selected explicitly
// via grpc.ForceServerCodec / grpc.ForceCodec rather than content-type
// negotiation.
func (Codec) Name() string { return "raw" }

func (Codec) Marshal(v any) ([]byte, error) {
	p, ok := v.(*Payload)
	if !ok {
		return nil, fmt.Errorf("remote: raw codec cannot marshal %T", v)
	}
	return []byte(*p), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	p, ok := v.(*Payload)
	if !ok {
		return fmt.Errorf("remote: raw codec cannot unmarshal into %T", v)
	}
	*p = append((*p)[:0], data...)
	return nil
}

package remote

import (
	"context"
	"fmt"
)

// TypedCodec bridges a caller's typed argument/result pair to the opaque
// byte payload a Predictor exchanges over the wire. remote itself never
// interprets the bytes it carries; TypedCodec is how an application
// supplies that interpretation at the edges, matching the wire format's
// requirement that the RPC body stay schema-free.
type TypedCodec[I, O any] struct {
	EncodeRequest  func(I) ([]byte, error)
	DecodeResponse func([]byte) (O, error)
}

// Wrap adapts a byte-oriented Predictor into a typed predict function using
// codec to encode the argument and decode the result. It does not change
// what crosses the wire — only what the caller on this side of it sees.
func Wrap[I, O any](p Predictor, codec TypedCodec[I, O]) func(ctx context.Context, args I) (O, error) {
	return func(ctx context.Context, args I) (O, error) {
		var zero O

		req, err := codec.EncodeRequest(args)
		if err != nil {
			return zero, fmt.Errorf("remote: encode request: %w", err)
		}

		raw, err := p.Predict(ctx, req)
		if err != nil {
			return zero, err
		}

		out, err := codec.DecodeResponse(raw)
		if err != nil {
			return zero, fmt.Errorf("remote: decode response: %w", err)
		}
		return out, nil
	}
}

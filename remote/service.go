package remote

import (
	"context"

	"google.golang.org/grpc"
)

// Predictor is satisfied directly by a host.Host[[]byte, B, C, R, []byte]
// for any batched-argument/context/result types the bound Batcher uses —
// the remote adapter only ever sees opaque request and result bytes, so
// it is agnostic to everything behind this interface.
type Predictor interface {
	Predict(ctx context.Context, args []byte) ([]byte, error)
}

const serviceName = "ModelHost"
const predictMethod = "predict"
const predictFullMethod = "/" + serviceName + "/" + predictMethod

// ServiceDesc is the hand-written equivalent of what protoc-gen-go-grpc
// would generate for a service with one unary RPC: ModelHost.predict.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Predictor)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: predictMethod,
			Handler:    predictHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "batchhost/remote/modelhost",
}

func predictHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Payload)
	if err := dec(in); err != nil {
		return nil, err
	}

	handler := func(ctx context.Context, req any) (any, error) {
		out, err := srv.(Predictor).Predict(ctx, []byte(*req.(*Payload)))
		if err != nil {
			return nil, err
		}
		result := Payload(out)
		return &result, nil
	}

	if interceptor == nil {
		return handler(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: predictFullMethod}
	return interceptor(ctx, in, info, handler)
}

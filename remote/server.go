package remote

import (
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/batchhost/batchhost/internal/tlsutil"
)

// Server hosts the ModelHost.predict unary RPC over a gRPC listener,
// forwarding every call into the same Predictor instance — typically a
// host.Host — so concurrent RPCs batch together exactly as concurrent
// in-process submissions would.
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	logger     *zap.Logger
}

// NewServer binds addr and registers predictor against ServiceDesc. When
// certFile and keyFile are both set, the listener requires TLS via
// tlsutil.LoadServerTLSConfig; otherwise it serves in the clear.
func NewServer(addr string, predictor Predictor, certFile, keyFile string, logger *zap.Logger) (*Server, error) {
	opts := []grpc.ServerOption{grpc.ForceServerCodec(Codec{})}

	if certFile != "" && keyFile != "" {
		tlsCfg, err := tlsutil.LoadServerTLSConfig(certFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("remote: tls config: %w", err)
		}
		opts = append(opts, grpc.Creds(credentials.NewTLS(tlsCfg)))
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("remote: listen %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer(opts...)
	grpcServer.RegisterService(&ServiceDesc, predictor)

	return &Server{grpcServer: grpcServer, listener: lis, logger: logger}, nil
}

// Serve blocks, accepting connections until Stop is called or the
// listener returns an error.
func (s *Server) Serve() error {
	return s.grpcServer.Serve(s.listener)
}

// Addr returns the bound listener's address, including any OS-assigned
// port when addr's port was ":0".
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Stop gracefully drains in-flight RPCs before stopping the server.
func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}

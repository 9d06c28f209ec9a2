package remote

import (
	"context"
	"crypto/tls"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// Client calls the ModelHost.predict RPC against a remote Server.
type Client struct {
	conn *grpc.ClientConn
}

// NewClient dials addr. Pass a non-nil tlsConfig (e.g. tlsutil's hardened
// client config) to require TLS, or nil for an insecure local dial.
func NewClient(addr string, tlsConfig *tls.Config) (*Client, error) {
	var creds credentials.TransportCredentials
	if tlsConfig != nil {
		creds = credentials.NewTLS(tlsConfig)
	} else {
		creds = insecure.NewCredentials()
	}

	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{})),
	)
	if err != nil {
		return nil, fmt.Errorf("remote: dial %s: %w", addr, err)
	}

	return &Client{conn: conn}, nil
}

// Predict invokes ModelHost.predict with args and returns the opaque
// result bytes, or the RPC's native error (wrapping whatever error the
// remote host's Predict call produced).
func (c *Client) Predict(ctx context.Context, args []byte) ([]byte, error) {
	in := Payload(args)
	out := new(Payload)

	if err := c.conn.Invoke(ctx, predictFullMethod, &in, out); err != nil {
		return nil, err
	}
	return []byte(*out), nil
}

// Close tears down the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

package fingerprintrpc

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/nodeid/fingerprint"
	"xdao.co/nodeid/trust"
)

// Client talks to a Fingerprints gRPC service. Replies that carry a
// fingerprint are re-checked locally.
type Client struct {
	cc     *grpc.ClientConn
	client FingerprintsClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout, when non-zero, makes Dial wait up to that long for the
	// connection to become ready.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	cc, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, err
	}
	if opts.Timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
		defer cancel()
		if err := waitReady(ctx, cc); err != nil {
			_ = cc.Close()
			return nil, fmt.Errorf("fingerprintrpc: connect %s: %w", target, err)
		}
	}
	return NewClient(cc), nil
}

// waitReady blocks until cc is ready or ctx is done.
func waitReady(ctx context.Context, cc *grpc.ClientConn) error {
	cc.Connect()
	for {
		state := cc.GetState()
		if state == connectivity.Ready {
			return nil
		}
		if !cc.WaitForStateChange(ctx, state) {
			return ctx.Err()
		}
	}
}

// NewClient wraps an existing connection.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewFingerprintsClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Derive asks the server for the fingerprint of material.
func (c *Client) Derive(ctx context.Context, material []byte) (fingerprint.Fingerprint, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Derive(ctx, wrapperspb.Bytes(material))
	if err != nil {
		return fingerprint.Fingerprint{}, mapRPC(err)
	}
	fp, err := fingerprint.ParseStrict(reply.GetValue())
	if err != nil {
		return fingerprint.Fingerprint{}, fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	if !fp.VerifyAgainst(material) {
		return fingerprint.Fingerprint{}, ErrBadReply
	}
	return fp, nil
}

// Canonicalize asks the server to parse s and returns the canonical form.
func (c *Client) Canonicalize(ctx context.Context, s string) (string, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Canonicalize(ctx, wrapperspb.String(s))
	if err != nil {
		return "", mapRPC(err)
	}
	if _, err := fingerprint.ParseStrict(reply.GetValue()); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	return reply.GetValue(), nil
}

// Verify asks the server whether material matches fp.
func (c *Client) Verify(ctx context.Context, fp fingerprint.Fingerprint, material []byte) (bool, error) {
	text, err := fp.Encode()
	if err != nil {
		return false, err
	}
	req, err := structpb.NewStruct(map[string]interface{}{
		FieldFingerprint: text,
		FieldKeyMaterial: base64.StdEncoding.EncodeToString(material),
	})
	if err != nil {
		return false, err
	}

	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Verify(ctx, req)
	if err != nil {
		return false, mapRPC(err)
	}
	return reply.GetValue(), nil
}

// Authenticate checks material against the server's trust policy.
func (c *Client) Authenticate(ctx context.Context, material []byte) (trust.Entry, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Authenticate(ctx, wrapperspb.Bytes(material))
	if err != nil {
		return trust.Entry{}, mapRPC(err)
	}
	fields := reply.GetFields()
	fp, err := fingerprint.ParseStrict(fields[FieldFingerprint].GetStringValue())
	if err != nil {
		return trust.Entry{}, fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	if !fp.VerifyAgainst(material) {
		return trust.Entry{}, ErrBadReply
	}
	return trust.Entry{Fingerprint: fp, Role: fields[FieldRole].GetStringValue()}, nil
}

func (c *Client) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}

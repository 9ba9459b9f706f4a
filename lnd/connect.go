package lnd

import (
	"context"
	"fmt"
	internal_log "log"
	"os"
	"time"

	"github.com/elementsproject/lnregtest/log"
	grpc_retry "github.com/grpc-ecosystem/go-grpc-middleware/retry"
	"github.com/lightningnetwork/lnd/macaroons"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"gopkg.in/macaroon.v2"
)

const (
	// defaultGrpcBackoffTime is the base of the exponential back off
	// between failing grpc calls to a starting lnd node.
	defaultGrpcBackoffTime   = 500 * time.Millisecond
	defaultGrpcBackoffJitter = 0.1

	// defaultMaxGrpcRetries keeps a single call short. Longer waits are the
	// job of the readiness prober.
	defaultMaxGrpcRetries = 4
)

var (
	// defaultGrpcRetryCodes are the grpc status codes that are retried:
	// - Unavailable: most likely a transient condition while lnd starts.
	// - ResourceExhausted: some per-user quota or resource ran out.
	defaultGrpcRetryCodes = []codes.Code{
		codes.Unavailable,
		codes.ResourceExhausted,
	}

	// defaultGrpcRetryCodesWithMsg are retried only with a matching message
	// because lnd answers with codes.Unknown while it starts up.
	// See: https://github.com/lightningnetwork/lnd/issues/6765
	defaultGrpcRetryCodesWithMsg = []grpc_retry.CodeWithMsg{
		{
			Code: codes.Unknown,
			Msg:  "the RPC server is in the process of starting up, but not yet ready to accept calls",
		},
		{
			Code: codes.Unknown,
			Msg:  "server is in the process of starting up, but not yet ready to accept calls",
		},
		{
			Code: codes.Unknown,
			Msg:  "chain notifier RPC is still in the process of starting",
		},
	}
)

type ClientConfig struct {
	// Host is the rpclisten address, e.g. localhost:11009.
	Host         string
	TlsCertPath  string
	MacaroonPath string
	MaxRetries   uint
}

func (c *ClientConfig) maxRetries() uint {
	if c.MaxRetries == 0 {
		return defaultMaxGrpcRetries
	}
	return c.MaxRetries
}

// GetClientConnection dials lnd with tls and the admin macaroon. The dial does
// not block; use WaitForReady to wait for the connection.
func GetClientConnection(ctx context.Context, cfg *ClientConfig, options ...grpc.DialOption) (*grpc.ClientConn, error) {
	creds, err := credentials.NewClientTLSFromFile(cfg.TlsCertPath, "")
	if err != nil {
		return nil, fmt.Errorf("NewClientTLSFromFile() %w", err)
	}
	macBytes, err := os.ReadFile(cfg.MacaroonPath)
	if err != nil {
		return nil, fmt.Errorf("ReadFile() %w", err)
	}
	mac := &macaroon.Macaroon{}
	if err := mac.UnmarshalBinary(macBytes); err != nil {
		return nil, fmt.Errorf("UnmarshalBinary() %w", err)
	}
	cred, err := macaroons.NewMacaroonCredential(mac)
	if err != nil {
		return nil, fmt.Errorf("NewMacaroonCredential() %w", err)
	}
	maxMsgRecvSize := grpc.MaxCallRecvMsgSize(1 * 1024 * 1024 * 500)

	debugLogger := internal_log.New(debugWriter{}, "[grpc_conn]: ", 0)
	retryOptions := []grpc_retry.CallOption{
		grpc_retry.WithBackoff(
			grpc_retry.BackoffExponentialWithJitter(
				defaultGrpcBackoffTime,
				defaultGrpcBackoffJitter,
			),
		),
		grpc_retry.WithCodes(defaultGrpcRetryCodes...),
		grpc_retry.WithCodesAndMatchingMessage(defaultGrpcRetryCodesWithMsg...),
		grpc_retry.WithMax(cfg.maxRetries()),
		grpc_retry.WithLogger(debugLogger),
	}
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithPerRPCCredentials(cred),
		grpc.WithDefaultCallOptions(maxMsgRecvSize),
		grpc.WithStreamInterceptor(grpc_retry.StreamClientInterceptor(
			retryOptions...,
		)),
		grpc.WithUnaryInterceptor(grpc_retry.UnaryClientInterceptor(
			retryOptions...,
		)),
	}
	opts = append(opts, options...)

	conn, err := grpc.DialContext(ctx, cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("DialContext(%s) %w", cfg.Host, err)
	}
	return conn, nil
}

// debugWriter feeds the grpc retry logger into the debug log.
type debugWriter struct{}

func (debugWriter) Write(p []byte) (int, error) {
	log.Debugf("%s", p)
	return len(p), nil
}

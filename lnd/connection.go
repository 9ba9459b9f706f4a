package lnd

import (
	"context"
	"fmt"

	"github.com/elementsproject/lnregtest/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
)

// WaitForReady blocks until the client connection is READY or ctx is done.
// An idle connection is asked to connect first.
func WaitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	state := conn.GetState()
	if state == connectivity.Ready {
		return nil
	}
	if state == connectivity.Idle {
		conn.Connect()
	}

	log.Debugf("Waiting for client connection to be READY: current state: %s", state)

	for {
		ok := conn.WaitForStateChange(ctx, state)
		if !ok {
			return fmt.Errorf("waiting for client connection to be READY (last state %s): %w", state, ctx.Err())
		}
		state = conn.GetState()
		log.Debugf("Waiting for client connection to be READY: state changed: %s", state)
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return fmt.Errorf("client connection shut down")
		case connectivity.Idle:
			conn.Connect()
		}
	}
}

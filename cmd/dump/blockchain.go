package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
)

// wrapper over the Neo RPC client providing read-only access to a deployed
// contract. Connection and all requests are done within 15s timeout.
type remoteBlockchain struct {
	rpc     *rpcclient.Client
	invoker *invoker.Invoker
}

func newRemoteBlockchain(blockChainRPCEndpoint string) (*remoteBlockchain, error) {
	c, err := rpcclient.New(context.Background(), blockChainRPCEndpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	if err = c.Init(); err != nil {
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	return &remoteBlockchain{
		rpc:     c,
		invoker: invoker.New(c, nil),
	}, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

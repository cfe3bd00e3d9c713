package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionlive/go/internal/auction/events"
	"github.com/mcdev12/auctionlive/go/internal/auction/gateway"
)

type slowClient struct {
	stopped atomic.Bool
}

func (c *slowClient) OnOpen(string)              {}
func (c *slowClient) OnEvent(events.Inbound)     {}
func (c *slowClient) OnState(gateway.StateEvent) {}

func (c *slowClient) Run(ctx context.Context) {
	<-ctx.Done()
	time.Sleep(20 * time.Millisecond)
	c.stopped.Store(true)
}

type slowManager struct {
	err     error
	stopped atomic.Bool
}

func (m *slowManager) Run(ctx context.Context, h gateway.Handler) error {
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	time.Sleep(20 * time.Millisecond)
	m.stopped.Store(true)
	return nil
}

func TestStartLoops_WaitsForBothLoops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client, manager := &slowClient{}, &slowManager{}

	loops := startLoops(ctx, cancel, client, manager)
	cancel()
	loops.Wait()

	assert.True(t, client.stopped.Load())
	assert.True(t, manager.stopped.Load())
}

func TestStartLoops_ManagerFailureCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := &slowClient{}

	loops := startLoops(ctx, cancel, client, &slowManager{err: errors.New("connect to NATS: no servers")})

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		require.Fail(t, "context not cancelled after manager failure")
	}
	loops.Wait()
	assert.True(t, client.stopped.Load())
}

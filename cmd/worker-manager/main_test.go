package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"plan-uptake-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	failures int
	pings    int
	closed   int
}

func (f *fakeClient) Ping(context.Context) error {
	f.pings++
	if f.pings <= f.failures {
		return errors.New("connection refused")
	}
	return nil
}

func (f *fakeClient) Close() error {
	f.closed++
	return nil
}

func TestPingWithRetry_ReusesClient(t *testing.T) {
	client := &fakeClient{failures: 2}

	err := pingWithRetry(context.Background(), client, 5, time.Millisecond, logger.NewNoOpLogger(), "test connection")
	require.NoError(t, err)
	assert.Equal(t, 3, client.pings)
	assert.Zero(t, client.closed)
}

func TestPingWithRetry_ClosesClientWhenExhausted(t *testing.T) {
	client := &fakeClient{failures: 10}

	err := pingWithRetry(context.Background(), client, 3, time.Millisecond, logger.NewNoOpLogger(), "test connection")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test connection failed after 3 attempts")
	assert.Equal(t, 3, client.pings)
	assert.Equal(t, 1, client.closed)
}

// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package monitor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookcircle/internal/platform/monitor"
)

/*
TestInit_WithoutDSN keeps reporting disabled but callable.
*/
func TestInit_WithoutDSN(t *testing.T) {
	require.NoError(t, monitor.Init("", "test", "0.0.0"))
	assert.False(t, monitor.Enabled())

	ctx := monitor.WithHub(context.Background(), map[string]string{"request_id": "abc"})
	assert.NotNil(t, sentry.GetHubFromContext(ctx))

	assert.NotPanics(t, func() {
		monitor.SetUser(ctx, "u1", "reader")
		monitor.CaptureError(ctx, errors.New("boom"))
		monitor.CaptureError(context.Background(), nil)
		monitor.CapturePanic(ctx, "panic value")
	})
}

/*
TestInit_InvalidDSN surfaces configuration mistakes at startup.
*/
func TestInit_InvalidDSN(t *testing.T) {
	assert.Error(t, monitor.Init("not a dsn", "test", "0.0.0"))
}

// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package monitor forwards unexpected failures to Sentry.

Reporting is optional: when no DSN is configured the SDK runs with a no-op
transport, so callers can report unconditionally without checking configuration.

Usage:

	if err := monitor.Init(cfg.SentryDSN, cfg.Environment, constants.AppVersion); err != nil {
	    logger.Warn("monitor_init_failed", slog.Any("error", err))
	}
	defer monitor.Flush(constants.MonitorFlushTimeout)
*/
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/taibuivan/bookcircle/internal/platform/constants"
)

// Init configures the global Sentry client.
func Init(dsn, environment, release string) error {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          fmt.Sprintf("%s@%s", constants.AppName, release),
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("monitor: init sentry: %w", err)
	}
	return nil
}

// Enabled reports whether a DSN was configured and events will leave the process.
func Enabled() bool {
	client := sentry.CurrentHub().Client()
	return client != nil && client.Options().Dsn != ""
}

// WithHub attaches a request-scoped clone of the global hub to the context.
//
// Tags set on the clone do not leak into other requests.
func WithHub(ctx context.Context, tags map[string]string) context.Context {
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
	})
	return sentry.SetHubOnContext(ctx, hub)
}

// SetUser tags the request-scoped hub with the authenticated user.
func SetUser(ctx context.Context, userID, username string) {
	hub := hubFromContext(ctx)
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetUser(sentry.User{ID: userID, Username: username})
	})
}

// CaptureError reports err using the hub bound to ctx.
func CaptureError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hubFromContext(ctx).CaptureException(err)
}

// CapturePanic reports a recovered panic value using the hub bound to ctx.
func CapturePanic(ctx context.Context, recovered any) {
	hubFromContext(ctx).RecoverWithContext(ctx, recovered)
}

// Flush waits up to timeout for buffered events to be delivered.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

func hubFromContext(ctx context.Context) *sentry.Hub {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}

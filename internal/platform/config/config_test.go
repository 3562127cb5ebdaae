// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookcircle/internal/platform/config"
)

/*
TestLoad_Defaults verifies that only SESSION_SECRET is needed for the in-memory setup.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, "memory", cfg.SessionBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestValidate_Backends checks the backend-dependent requirements.
*/
func TestValidate_Backends(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{"memory_defaults", config.Config{StoreBackend: "memory", SessionBackend: "memory", SessionTTL: time.Hour}, false},
		{"postgres_without_url", config.Config{StoreBackend: "postgres", SessionBackend: "memory", SessionTTL: time.Hour}, true},
		{"postgres_with_url", config.Config{StoreBackend: "postgres", DatabaseURL: "postgres://localhost/bookcircle", SessionBackend: "memory", SessionTTL: time.Hour}, false},
		{"redis_without_url", config.Config{StoreBackend: "memory", SessionBackend: "redis", SessionTTL: time.Hour}, true},
		{"unknown_store", config.Config{StoreBackend: "mongo", SessionBackend: "memory", SessionTTL: time.Hour}, true},
		{"zero_ttl", config.Config{StoreBackend: "memory", SessionBackend: "memory"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestAllowedOrigins splits and trims EXTRA_ORIGINS.
*/
func TestAllowedOrigins(t *testing.T) {
	cfg := config.Config{ExtraOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

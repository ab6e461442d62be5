//go:build !integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/guttosm/image-proxy/config"
)

func TestInitializeDatabase(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
	}{
		{
			name: "disabled",
			cfg:  config.DatabaseConfig{Enabled: false},
		},
		{
			name: "unreachable server",
			cfg: config.DatabaseConfig{
				Enabled:      true,
				URI:          "mongodb://127.0.0.1:1",
				DatabaseName: "image_proxy_test",
				LogsTTL:      time.Hour,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			components := InitializeDatabase(tt.cfg)
			assert.Nil(t, components)
		})
	}
}

func TestDatabaseComponents_CloseNil(t *testing.T) {
	var components *DatabaseComponents
	assert.NoError(t, components.Close(context.Background()))
}

package app

import (
	"time"

	"github.com/guttosm/image-proxy/config"
)

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           "0",
			RateLimit:      100,
			RateWindow:     time.Minute,
			RequestTimeout: 5 * time.Second,
		},
		Cache: config.CacheConfig{Size: 8},
		Fetch: config.FetchConfig{
			Timeout:      time.Second,
			MaxBytes:     1 << 20,
			AllowFile:    true,
			SingleFlight: true,
		},
		Image: config.ImageConfig{Quality: 80, CacheMaxAge: time.Hour},
		Log:   config.LogConfig{Level: "error"},
	}
}

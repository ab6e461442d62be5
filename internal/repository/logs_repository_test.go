//go:build !integration

package repository

import (
	"testing"
	"time"

	"github.com/guttosm/image-proxy/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildFilter(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	tests := []struct {
		name string
		opts model.LogQueryOptions
		want bson.M
	}{
		{name: "empty", opts: model.LogQueryOptions{}, want: bson.M{}},
		{
			name: "exact fields",
			opts: model.LogQueryOptions{RequestID: "req-1", Level: "warn", CacheStatus: "HIT"},
			want: bson.M{"request_id": "req-1", "level": "warn", "cache_status": "HIT"},
		},
		{
			name: "source host is matched literally",
			opts: model.LogQueryOptions{SourceHost: "img.example.com"},
			want: bson.M{"source_host": bson.M{"$regex": `^img\.example\.com$`, "$options": "i"}},
		},
		{
			name: "time window",
			opts: model.LogQueryOptions{StartTime: &start, EndTime: &end},
			want: bson.M{"timestamp": bson.M{"$gte": start, "$lte": end}},
		},
		{
			name: "open ended window",
			opts: model.LogQueryOptions{StartTime: &start, Limit: 10, Skip: 5},
			want: bson.M{"timestamp": bson.M{"$gte": start}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildFilter(tt.opts))
		})
	}
}

func TestStamp(t *testing.T) {
	entry := &model.LogEntry{}
	stamp(entry)
	assert.False(t, entry.ID.IsZero())
	assert.False(t, entry.Timestamp.IsZero())

	id, ts := entry.ID, entry.Timestamp
	stamp(entry)
	assert.Equal(t, id, entry.ID)
	assert.Equal(t, ts, entry.Timestamp)
}

func TestDefaultMongoConfig(t *testing.T) {
	cfg := DefaultMongoConfig()
	assert.Greater(t, cfg.MaxPoolSize, cfg.MinPoolSize)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.True(t, cfg.EnableCompression)
}

package cache

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wono/hostpanel/pkg/config"
)

// newTestConfig returns a config pointing to REDIS_URL env var, falling back to localhost.
func newTestConfig(url string) *config.Config {
	return &config.Config{
		RedisURL:      url,
		RedisPoolSize: 4,
	}
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("not-a-valid-url"))
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("redis://localhost:19999"))
	if err == nil {
		t.Fatal("expected error when Redis is unreachable, got nil")
	}
}

func TestApplyPoolDefaults(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantPool     int
		wantIdle     int
		wantClient   string
		wantReadTime time.Duration
	}{
		{"config pool size", "redis://localhost:6379", 20, 5, "hostpanel", time.Second},
		{"url overrides", "redis://localhost:6379?pool_size=3&read_timeout=4s&client_name=sites", 3, 1, "sites", 4 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := redis.ParseURL(tt.url)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			applyPoolDefaults(opts, &config.Config{ServiceName: "hostpanel", RedisPoolSize: 20})
			if opts.PoolSize != tt.wantPool || opts.MinIdleConns != tt.wantIdle {
				t.Errorf("pool=%d idle=%d, want %d/%d", opts.PoolSize, opts.MinIdleConns, tt.wantPool, tt.wantIdle)
			}
			if opts.ClientName != tt.wantClient {
				t.Errorf("client name = %q, want %q", opts.ClientName, tt.wantClient)
			}
			if opts.ReadTimeout != tt.wantReadTime {
				t.Errorf("read timeout = %v, want %v", opts.ReadTimeout, tt.wantReadTime)
			}
		})
	}
}

// Integration tests: skipped unless REDIS_URL is set.
func TestRedisIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	t.Run("NewRedisClient_Success", func(t *testing.T) {
		rc, err := NewRedisClient(newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck
	})

	t.Run("Ping_Success", func(t *testing.T) {
		rc, err := NewRedisClient(newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck

		if err := rc.Ping(context.Background()); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("Close_Idempotent", func(t *testing.T) {
		rc, err := NewRedisClient(newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := rc.Close(); err != nil {
			t.Fatalf("first Close failed: %v", err)
		}
	})

	t.Run("Client_NotNil", func(t *testing.T) {
		rc, err := NewRedisClient(newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck

		if rc.Client() == nil {
			t.Fatal("expected non-nil underlying client")
		}
	})
}

func TestTemplateCacheIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}
	rc, err := NewRedisClient(newTestConfig(redisURL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close() //nolint:errcheck

	ctx := context.Background()
	tc := NewTemplateCache(rc, time.Minute)
	key := "it-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	defer tc.Delete(ctx, key) //nolint:errcheck

	t.Run("Get_Miss", func(t *testing.T) {
		if _, err := tc.Get(ctx, key); !errors.Is(err, redis.Nil) {
			t.Fatalf("expected redis.Nil, got %v", err)
		}
	})

	t.Run("Set_Get", func(t *testing.T) {
		in := &CachedTemplate{SearchKey: key, Revision: 3, IsActive: true, Document: []byte(`{"searchKey":"x"}`)}
		if err := tc.Set(ctx, in); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := tc.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Revision != 3 || !got.IsActive || string(got.Document) != string(in.Document) {
			t.Fatalf("unexpected cached template %+v", got)
		}
	})

	t.Run("Set_OlderRevisionIgnored", func(t *testing.T) {
		if err := tc.Set(ctx, &CachedTemplate{SearchKey: key, Revision: 2, Document: []byte(`{}`)}); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, _ := tc.Get(ctx, key)
		if got.Revision != 3 {
			t.Fatalf("older revision overwrote cache: %+v", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := tc.Delete(ctx, key); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := tc.Get(ctx, key); !errors.Is(err, redis.Nil) {
			t.Fatalf("expected redis.Nil after delete, got %v", err)
		}
	})
}

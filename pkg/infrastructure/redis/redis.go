package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RedisClient is the subset of hash commands the profile store needs
type RedisClient interface {
	HSet(ctx context.Context, key string, values map[string]any) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// redisClient implements RedisClient interface
type redisClient struct {
	cluster *redis.ClusterClient
	client  *redis.Client
	prefix  string
	tracer  trace.TracerProvider
}

// NewRedisClient creates a Redis client with tracing support.
// A non-empty clusterEnv (comma separated addresses) selects cluster mode.
func NewRedisClient(clusterEnv, address, password, prefix string, tracer trace.TracerProvider) (RedisClient, error) {
	rc := &redisClient{
		tracer: tracer,
	}

	if len(prefix) > 0 {
		rc.prefix = prefix + ":"
	}

	if strings.TrimSpace(clusterEnv) != "" {
		addrs := []string{}
		for _, p := range strings.Split(clusterEnv, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				addrs = append(addrs, p)
			}
		}
		if len(addrs) > 0 {
			rc.cluster = redis.NewClusterClient(&redis.ClusterOptions{
				Addrs:    addrs,
				Password: password,
			})
			return rc, nil
		}
	}

	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	rc.client = redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
	})
	return rc, nil
}

// trace creates a new span for Redis operations
func (r *redisClient) trace(ctx context.Context, operation, fullKey string) (context.Context, trace.Span) {
	ctx, span := r.tracer.Tracer("redis.client").Start(ctx, fmt.Sprintf("redis.%s", operation))
	span.SetAttributes(
		attribute.String("redis.key", fullKey),
		attribute.String("redis.operation", operation),
	)
	return ctx, span
}

// getClient returns the appropriate client (cluster or single instance)
func (r *redisClient) getClient() redis.Cmdable {
	if r.cluster != nil {
		return r.cluster
	}
	return r.client
}

func finish(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "success")
	return nil
}

func (r *redisClient) HSet(ctx context.Context, key string, values map[string]any) error {
	fullKey := r.prefix + key
	ctx, span := r.trace(ctx, "hset", fullKey)
	defer span.End()

	span.SetAttributes(attribute.Int("redis.field_count", len(values)))
	return finish(span, r.getClient().HSet(ctx, fullKey, values).Err())
}

func (r *redisClient) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	fullKey := r.prefix + key
	ctx, span := r.trace(ctx, "hgetall", fullKey)
	defer span.End()

	value, err := r.getClient().HGetAll(ctx, fullKey).Result()
	if err := finish(span, err); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("redis.hash_size", len(value)))
	return value, nil
}

func (r *redisClient) Ping(ctx context.Context) error {
	ctx, span := r.trace(ctx, "ping", "")
	defer span.End()
	return finish(span, r.getClient().Ping(ctx).Err())
}

func (r *redisClient) Close() error {
	if r.cluster != nil {
		return r.cluster.Close()
	}
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

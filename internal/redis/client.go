package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{client}, nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}

// GroupSetKey caches the group settings resolved for a request host.
func GroupSetKey(host string) string {
	return fmt.Sprintf("groupset:host:%s", host)
}

// IPLimitKey names the limiter bucket for an IP inside a tenant.
func IPLimitKey(bucket, groupPrefix, ip string) string {
	return fmt.Sprintf("ip:%s:%s:%s", bucket, groupPrefix, ip)
}

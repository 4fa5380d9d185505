package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyOptions configures a ValkeyStore.
type ValkeyOptions struct {
	Address  string
	Password string
	TLS      bool
}

// ValkeyStore is a Store backed by a Valkey (or Redis) server.
type ValkeyStore struct {
	client valkey.Client
}

// NewValkeyStore connects and pings the server.
func NewValkeyStore(ctx context.Context, opts ValkeyOptions) (*ValkeyStore, error) {
	clientOpts := valkey.ClientOption{
		InitAddress:      []string{opts.Address},
		Password:         opts.Password,
		ConnWriteTimeout: 5 * time.Second,
	}
	if opts.TLS {
		clientOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}

	return &ValkeyStore{client: client}, nil
}

// Read returns the value for key; expiry is enforced by the server.
func (s *ValkeyStore) Read(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Write sets key with an expiry of ttl rounded up to whole seconds.
// A ttl <= 0 stores it without expiry.
func (s *ValkeyStore) Write(ctx context.Context, key, value string, ttl time.Duration) error {
	var cmd valkey.Completed
	if ttl > 0 {
		seconds := int64((ttl + time.Second - 1) / time.Second)
		cmd = s.client.B().Set().Key(key).Value(value).ExSeconds(seconds).Build()
	} else {
		cmd = s.client.B().Set().Key(key).Value(value).Build()
	}
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Invalidate deletes key.
func (s *ValkeyStore) Invalidate(ctx context.Context, key string) error {
	if err := s.client.Do(ctx, s.client.B().Del().Key(key).Build()).Error(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func (s *ValkeyStore) Close() error {
	s.client.Close()
	return nil
}

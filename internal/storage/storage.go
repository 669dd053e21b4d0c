// Package storage is the durable key-value layer the cart store persists to.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

var ErrNotFound = errors.New("key not found")

type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Options struct {
	Driver    string
	DSN       string
	RedisAddr string
	// RedisTTL expires saved carts that are not written for that long.
	RedisTTL time.Duration
}

// Open builds the Storage selected by opts.Driver and checks it is reachable.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Driver {
	case DriverSQLite, DriverPostgres:
		return OpenGorm(ctx, opts.Driver, opts.DSN)
	case DriverRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisTTL)
	case DriverMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
}

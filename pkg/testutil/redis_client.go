package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/questx-lab/agora/pkg/xredis"
)

type MockRedisClient struct {
	ExistFunc  func(ctx context.Context, key string) (bool, error)
	DelFunc    func(ctx context.Context, key ...string) error
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	SetObjFunc func(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetFunc    func(ctx context.Context, key string) (string, error)
	GetObjFunc func(ctx context.Context, key string, v any) error
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if m.ExistFunc != nil {
		return m.ExistFunc(ctx, key)
	}

	return false, nil
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key...)
	}

	return nil
}

func (m *MockRedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}

	return nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if m.SetObjFunc != nil {
		return m.SetObjFunc(ctx, key, obj, ttl)
	}

	return nil
}

func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}

	return "", xredis.ErrNil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	if m.GetObjFunc != nil {
		return m.GetObjFunc(ctx, key, v)
	}

	return xredis.ErrNil
}

// NewMemoryRedisClient returns a mock whose Set/Exist/Del share an in-memory
// key space. TTLs are ignored.
func NewMemoryRedisClient() *MockRedisClient {
	var mu sync.Mutex
	store := map[string]string{}

	return &MockRedisClient{
		SetFunc: func(ctx context.Context, key, value string, ttl time.Duration) error {
			mu.Lock()
			defer mu.Unlock()
			store[key] = value
			return nil
		},
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			mu.Lock()
			defer mu.Unlock()
			_, ok := store[key]
			return ok, nil
		},
		GetFunc: func(ctx context.Context, key string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			v, ok := store[key]
			if !ok {
				return "", xredis.ErrNil
			}
			return v, nil
		},
		DelFunc: func(ctx context.Context, keys ...string) error {
			mu.Lock()
			defer mu.Unlock()
			for _, key := range keys {
				delete(store, key)
			}
			return nil
		},
	}
}

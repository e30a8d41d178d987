package state

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeRedis answers GET/SET/DEL from a map without touching the network.
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	last []any
	err  error
}

func (f *fakeRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("fake redis does not dial")
	}
}

func (f *fakeRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (f *fakeRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.last = cmd.Args()
		if f.err != nil {
			cmd.SetErr(f.err)
			return f.err
		}

		args := cmd.Args()
		key := fmt.Sprint(args[1])
		switch c := cmd.(type) {
		case *redis.StringCmd:
			v, ok := f.data[key]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(v)
		case *redis.StatusCmd:
			switch v := args[2].(type) {
			case []byte:
				f.data[key] = string(v)
			default:
				f.data[key] = fmt.Sprint(v)
			}
			c.SetVal("OK")
		case *redis.IntCmd:
			delete(f.data, key)
			c.SetVal(1)
		}
		return nil
	}
}

func newFakeRedisStore(t *testing.T, opts ...StoreOption) (*RedisStore, *fakeRedis) {
	t.Helper()
	fake := &fakeRedis{data: map[string]string{}}
	client := redis.NewClient(&redis.Options{Addr: "fake:6379"})
	client.AddHook(fake)
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewRedisStore(client, opts...)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	return store, fake
}

func TestRedisStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, fake := newFakeRedisStore(t, WithKeyPrefix("test:"), WithTTL(time.Hour))
	ctx := context.Background()

	st := NewSelectionState("s1", time.Now())
	st.SelectService(patent)
	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if fake.last[0] != "set" || fake.last[1] != "test:s1" {
		t.Fatalf("Save() command = %v", fake.last)
	}

	got, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Service == nil || got.Service.ID != "patent" {
		t.Fatalf("Load() = %+v", got)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, "s1"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() after Delete error = %v, want ErrStateNotFound", err)
	}
}

func TestRedisStoreSurfacesBackendErrors(t *testing.T) {
	t.Parallel()

	store, fake := newFakeRedisStore(t)
	fake.err = errors.New("connection reset")

	_, err := store.Load(context.Background(), "s1")
	if err == nil || errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() error = %v, want backend error", err)
	}
}

package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitInvalidURL(t *testing.T) {
	err := Init("://invalid-url", "")
	assert.Error(t, err)
}

func TestInitWithMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("secret")
	orig := client
	t.Cleanup(func() { client = orig })

	require.NoError(t, Init("redis://"+mr.Addr(), "secret"))
	require.NotNil(t, GetClient())
	require.NoError(t, Close())
}

func TestSetClientAndBasicOpsWithUnreachableRedis(t *testing.T) {
	cli := goredis.NewClient(&goredis.Options{
		Addr:         "127.0.0.1:0",
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
	})
	SetClient(cli)
	assert.NotNil(t, GetClient())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.Error(t, Set(ctx, "k", "v", time.Second))
	_, err := Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, Del(ctx, "k"))
	_, err = SetNX(ctx, "k", "v", time.Second)
	assert.Error(t, err)
	_, err = Publish(ctx, "ch", "msg")
	assert.Error(t, err)
}

func TestBasicOpsWithMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	require.NoError(t, Set(ctx, "k", "v", time.Minute))
	got, err := Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	ok, err := SetNX(ctx, "k", "other", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, Del(ctx, "k"))
	_, err = Get(ctx, "k")
	assert.True(t, IsNil(err))

	sub := GetClient().Subscribe(ctx, "wallet:test")
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	n, err := Publish(ctx, "wallet:test", "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Payload)
}

func TestInitPingFailure(t *testing.T) {
	orig := client
	origPing := pingClient
	t.Cleanup(func() {
		client = orig
		pingClient = origPing
	})

	var pinged bool
	pingClient = func(context.Context, *goredis.Client) error {
		pinged = true
		return errors.New("connection refused")
	}

	assert.EqualError(t, Init("redis://127.0.0.1:6379", ""), "connection refused")
	assert.True(t, pinged)
}

package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/rueidis/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/codyseavey/cardledger/backend/internal/models"
)

func TestRedisStoreGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	entry := models.CacheEntry{QueryHash: "abc", NormalizedQuery: "charizard", Results: products("a")}
	data, err := json.Marshal(entry)
	require.NoError(t, err)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "cardledger:search:abc")).
		Return(mock.Result(mock.RedisString(string(data))))

	s := NewRedisStoreWithClient(c, "cardledger:search:")
	got, err := s.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "charizard", got.NormalizedQuery)
	assert.Len(t, got.Results, 1)
}

func TestRedisStoreGetMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "p:nope")).
		Return(mock.Result(mock.RedisNil()))

	s := NewRedisStoreWithClient(c, "p:")
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisStoreGetError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "p:k")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewRedisStoreWithClient(c, "p:")
	_, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestRedisStoreSetUsesRemainingTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return len(cmd) == 5 && cmd[0] == "SET" && cmd[1] == "p:k" && cmd[3] == "EX" && cmd[4] == "3600"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewRedisStoreWithClient(c, "p:")
	s.now = func() time.Time { return now }
	err := s.Set(context.Background(), models.CacheEntry{QueryHash: "k", ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)
}

func TestRedisStoreSetSkipsExpired(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	s := NewRedisStoreWithClient(c, "p:")
	err := s.Set(context.Background(), models.CacheEntry{QueryHash: "k", ExpiresAt: time.Now().Add(-time.Minute)})
	assert.NoError(t, err)
}

func TestRedisStorePing(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewRedisStoreWithClient(c, "p:")
	assert.NoError(t, s.Ping(context.Background()))
}

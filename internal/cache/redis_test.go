package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type odds struct {
	Spread float64 `json:"spread"`
	Total  float64 `json:"total"`
}

func TestRedisStoreSet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, "odds", 15*time.Minute)

	mock.Regexp().ExpectSet("gg:odds:game1", `.*"version":"v1".*`, 15*time.Minute).SetVal("OK")

	err := store.Set(context.Background(), "game1", odds{Spread: -3, Total: 44}, Options{Version: "v1"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreGetRoundTrip(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, "odds", 15*time.Minute)

	data, err := json.Marshal(odds{Spread: -2.5, Total: 47})
	require.NoError(t, err)
	env, err := json.Marshal(envelope{Data: data, Version: "v1", Timestamp: time.Now()})
	require.NoError(t, err)

	mock.ExpectGet("gg:odds:game1").SetVal(string(env))

	var got odds
	ok, err := store.Get(context.Background(), "game1", Options{Version: "v1"}, &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, -2.5, got.Spread)
	assert.Equal(t, 47.0, got.Total)
}

func TestRedisStoreGetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, "odds", 15*time.Minute)

	mock.ExpectGet("gg:odds:missing").RedisNil()

	var got odds
	ok, err := store.Get(context.Background(), "missing", Options{Version: "v1"}, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreVersionMismatchPurges(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, "odds", 15*time.Minute)

	env, err := json.Marshal(envelope{Data: []byte(`{}`), Version: "old", Timestamp: time.Now()})
	require.NoError(t, err)

	mock.ExpectGet("gg:odds:game1").SetVal(string(env))
	mock.ExpectDel("gg:odds:game1").SetVal(1)

	var got odds
	ok, err := store.Get(context.Background(), "game1", Options{Version: "new"}, &got)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreMalformedEntryReadsAbsent(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, "odds", 15*time.Minute)

	mock.ExpectGet("gg:odds:game1").SetVal("{not json")
	mock.ExpectDel("gg:odds:game1").SetVal(1)

	var got odds
	ok, err := store.Get(context.Background(), "game1", Options{Version: "v1"}, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

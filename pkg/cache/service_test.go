package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

func TestGetHitAndMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)
	ctx := context.Background()

	mock.ExpectGet("k1").SetVal(`{"total":3,"available":2}`)
	mock.ExpectGet("k2").RedisNil()

	var got stats
	require.NoError(t, svc.Get(ctx, "k1", &got))
	assert.Equal(t, stats{Total: 3, Available: 2}, got)

	err := svc.Get(ctx, "k2", &got)
	assert.True(t, errors.Is(err, ErrCacheMiss))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetMarshalsJSON(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)

	mock.ExpectSet("k", []byte(`{"total":1,"available":0}`), 30*time.Second).SetVal("OK")

	require.NoError(t, svc.Set(context.Background(), "k", stats{Total: 1}, 30*time.Second))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePatternScansAllPages(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)

	mock.ExpectScan(0, "ticketbooker:events:*", scanBatch).SetVal([]string{"a", "b"}, 7)
	mock.ExpectDel("a", "b").SetVal(2)
	mock.ExpectScan(7, "ticketbooker:events:*", scanBatch).SetVal([]string{}, 0)

	require.NoError(t, svc.DeletePattern(context.Background(), "ticketbooker:events:*"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNoKeysIsNoop(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)

	require.NoError(t, svc.Delete(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrSetFetchesOnMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)
	ctx := context.Background()

	mock.ExpectGet("k").RedisNil()
	mock.ExpectSet("k", []byte(`{"total":5,"available":4}`), time.Minute).SetVal("OK")

	calls := 0
	var got stats
	err := svc.GetOrSet(ctx, "k", time.Minute, func() (interface{}, error) {
		calls++
		return stats{Total: 5, Available: 4}, nil
	}, &got)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 4, got.Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrSetSurvivesRedisOutage(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := NewService(client)

	mock.ExpectGet("k").SetErr(errors.New("connection refused"))
	mock.ExpectSet("k", []byte(`{"total":2,"available":2}`), time.Minute).SetErr(errors.New("connection refused"))

	var got stats
	err := svc.GetOrSet(context.Background(), "k", time.Minute, func() (interface{}, error) {
		return stats{Total: 2, Available: 2}, nil
	}, &got)

	require.NoError(t, err)
	assert.Equal(t, 2, got.Total)
}

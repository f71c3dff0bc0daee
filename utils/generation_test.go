package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewerRequestSupersedesOlder(t *testing.T) {
	generations := NewViewGenerations()

	firstCtx, first := generations.Begin(context.Background(), "client-1/tenders")
	secondCtx, second := generations.Begin(context.Background(), "client-1/tenders")

	assert.False(t, first.IsCurrent())
	assert.ErrorIs(t, firstCtx.Err(), context.Canceled)
	assert.True(t, second.IsCurrent())
	assert.NoError(t, secondCtx.Err())
	assert.Greater(t, second.Number, first.Number)

	second.Done()
	assert.False(t, first.IsCurrent(), "stays stale after the newer request finished")
	assert.Equal(t, 0, generations.Len())
	first.Done()
}

func TestViewsAreIndependent(t *testing.T) {
	generations := NewViewGenerations()

	_, tenders := generations.Begin(context.Background(), "tenders")
	_, feed := generations.Begin(context.Background(), "feed")

	assert.True(t, tenders.IsCurrent())
	assert.True(t, feed.IsCurrent())
	assert.Equal(t, 2, generations.Len())

	tenders.Done()
	feed.Done()
	assert.Equal(t, 0, generations.Len())
}

func TestUntrackedView(t *testing.T) {
	generations := NewViewGenerations()
	ctx := context.Background()

	got, gen := generations.Begin(ctx, "")

	assert.Equal(t, ctx, got)
	assert.True(t, gen.IsCurrent())
	gen.Done()
	assert.Equal(t, 0, generations.Len())
}

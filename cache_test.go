package eatery

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	*Content
	loads atomic.Int32
	err   error
}

func (s *countingSource) Blogs(ctx context.Context) ([]Blog, error) {
	s.loads.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.Content.Blogs(ctx)
}

func TestContentCacheServesPublished(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{Content: testContent(t)}
	c := NewContentCache(src, time.Hour)

	blogs, err := c.Blogs(ctx)
	require.NoError(t, err)
	assert.Len(t, blogs, 2)

	b, err := c.Blog(ctx, "dallas-brunch")
	require.NoError(t, err)
	assert.Equal(t, "Dallas Brunch", b.Title)
	_, err = c.Blog(ctx, "draft-post")
	assert.ErrorIs(t, err, ErrNotFound)

	loc, err := c.Location(ctx, "austin-congress")
	require.NoError(t, err)
	assert.Equal(t, 1, loc.ID)
	_, err = c.Location(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	menu, err := c.Menu(ctx)
	require.NoError(t, err)
	assert.Len(t, menu, 2)

	assert.Equal(t, int32(1), src.loads.Load())
}

func TestContentCacheInvalidateAndTTL(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{Content: testContent(t)}
	c := NewContentCache(src, time.Hour)

	_, err := c.Locations(ctx)
	require.NoError(t, err)
	c.Invalidate()
	_, err = c.Locations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.loads.Load())

	expired := NewContentCache(src, time.Nanosecond)
	_, err = expired.Blogs(ctx)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = expired.Blogs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(4), src.loads.Load())
}

func TestContentCacheError(t *testing.T) {
	boom := errors.New("boom")
	c := NewContentCache(&countingSource{Content: &Content{}, err: boom}, time.Hour)
	_, err := c.Blogs(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestContentCacheConcurrentReads(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{Content: testContent(t)}
	c := NewContentCache(src, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			blogs, err := c.Blogs(ctx)
			assert.NoError(t, err)
			assert.Len(t, blogs, 2)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), src.loads.Load())
}

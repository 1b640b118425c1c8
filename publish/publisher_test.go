package publish

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type memBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	meta    map[string]ObjectMeta
	puts    int
}

func newMemBucket() *memBucket {
	return &memBucket{objects: map[string][]byte{}, meta: map[string]ObjectMeta{}}
}

func (b *memBucket) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, ErrNotExist
	}
	return data, nil
}

func (b *memBucket) Put(_ context.Context, key string, data []byte, meta ObjectMeta) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = append([]byte(nil), data...)
	b.meta[key] = meta
	b.puts++
	return nil
}

func (b *memBucket) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
}

func TestPublishUploadsOnlyChanges(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"index.html":            "<h1>home</h1>",
		"blog/tacos/index.html": "<h1>tacos</h1>",
		"public/site.css":       "body{}",
	})
	bucket := newMemBucket()
	p := &Publisher{Bucket: bucket, CacheControl: func(key string) string {
		if strings.HasPrefix(key, "public/") {
			return "immutable"
		}
		return "short"
	}}

	res, err := p.Publish(context.Background(), dir)
	require.NoError(t, err)
	sort.Strings(res.Uploaded)
	assert.Equal(t, []string{"blog/tacos/index.html", "index.html", "public/site.css"}, res.Uploaded)
	assert.Equal(t, 0, res.Unchanged)
	assert.Contains(t, bucket.objects, ManifestKey)
	assert.Equal(t, "immutable", bucket.meta["public/site.css"].CacheControl)
	assert.Equal(t, "short", bucket.meta["index.html"].CacheControl)
	assert.True(t, strings.HasPrefix(bucket.meta["index.html"].ContentType, "text/html"))

	writeTree(t, dir, map[string]string{"index.html": "<h1>home v2</h1>"})
	res, err = p.Publish(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html"}, res.Uploaded)
	assert.Equal(t, 2, res.Unchanged)
}

func TestPublishDeleteStale(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"index.html":          "home",
		"blog/old/index.html": "old",
	})
	bucket := newMemBucket()
	p := &Publisher{Bucket: bucket, DeleteStale: true}
	_, err := p.Publish(context.Background(), dir)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(dir, "blog")))
	res, err := p.Publish(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"blog/old/index.html"}, res.Deleted)
	assert.NotContains(t, bucket.objects, "blog/old/index.html")
}

func TestPublishKeepsStaleByDefault(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.html": "a", "b.html": "b"})
	bucket := newMemBucket()
	p := &Publisher{Bucket: bucket}
	_, err := p.Publish(context.Background(), dir)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "b.html")))
	res, err := p.Publish(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, res.Deleted)
	assert.Contains(t, bucket.objects, "b.html")

	// Restoring the same content is not a change.
	writeTree(t, dir, map[string]string{"b.html": "b"})
	res, err = p.Publish(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, res.Uploaded)
}

func TestPublishDryRun(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"index.html": "home"})
	bucket := newMemBucket()
	p := &Publisher{Bucket: bucket, DryRun: true}

	res, err := p.Publish(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html"}, res.Uploaded)
	assert.Zero(t, bucket.puts)
}

func TestPublishWithLimiterAndDirBucket(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"index.html": "home", "feed.xml": "<rss/>"})
	dest := t.TempDir()
	bucket, err := NewDirBucket(dest)
	require.NoError(t, err)
	p := &Publisher{Bucket: bucket, Limiter: rate.NewLimiter(rate.Inf, 1), Workers: 2}

	res, err := p.Publish(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, res.Uploaded, 2)

	got, err := os.ReadFile(filepath.Join(dest, "feed.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<rss/>", string(got))
	_, err = bucket.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestScanSkipsDotfiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"index.html": "x", ".DS_Store": "junk"})
	files, err := scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "index.html", files[0].key)
}

func TestContentType(t *testing.T) {
	assert.True(t, strings.HasPrefix(ContentType("index.html", nil), "text/html"))
	assert.True(t, strings.HasPrefix(ContentType("public/site.css", nil), "text/css"))
	assert.True(t, strings.HasPrefix(ContentType("robots.txt", []byte("User-agent: *")), "text/plain"))
}

func TestNewBucketFromEnv(t *testing.T) {
	t.Setenv("PUBLISH_TARGET", "")
	t.Setenv("PUBLISH_DIR", filepath.Join(t.TempDir(), "out"))
	b, err := NewBucketFromEnv(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &DirBucket{}, b)

	t.Setenv("PUBLISH_TARGET", "s3")
	t.Setenv("PUBLISH_S3_BUCKET", "")
	_, err = NewBucketFromEnv(context.Background())
	assert.Error(t, err)

	t.Setenv("PUBLISH_TARGET", "ftp")
	_, err = NewBucketFromEnv(context.Background())
	assert.Error(t, err)
}

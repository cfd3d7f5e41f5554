package site

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/golang/groupcache"
)

var (
	postCache         *groupcache.Group
	postCacheOnce     sync.Once
	postCacheDuration = time.Minute
	postCacheBytes    = int64(1 << 20)
)

// ctxKey is the type used to pass the file system to cache getters.
type ctxKey string

// initPostCache creates the groupcache group for post collection. Groups are
// process-global, so this runs once no matter how many FS values exist.
func initPostCache() {
	postCache = groupcache.NewGroup("collectPosts", postCacheBytes, groupcache.GetterFunc(
		func(ctx context.Context, key string, dest groupcache.Sink) error {
			// the key is only the quantized time; the FS arrives via ctx
			var buf bytes.Buffer
			vfs := ctx.Value(ctxKey("fs")).(*FS)
			posts, err := vfs.collectPosts()
			if err != nil {
				return fmt.Errorf("collectPosts group: %w", err)
			}
			enc := gob.NewEncoder(&buf)
			err = enc.Encode(posts)
			if err != nil {
				return fmt.Errorf("collectPosts group: %w", err)
			}
			dest.SetBytes(buf.Bytes())
			return nil
		}))
}

// cachedPosts wraps collectPosts and provides caching. The FS is passed via
// a context key; results for a given quantized time bucket never change, so
// the cache key needs nothing else.
func (vfs *FS) cachedPosts() ([]Post, error) {
	postCacheOnce.Do(initPostCache)
	var (
		data  []byte
		q     = make(url.Values, 2)
		posts []Post
	)
	q.Set("fs", strconv.FormatInt(vfs.id, 10))
	t := quantize(time.Now(), postCacheDuration, "posts")
	q.Set("t", strconv.FormatInt(t, 10))
	ctx := context.WithValue(context.Background(), ctxKey("fs"), vfs)
	err := postCache.Get(ctx, q.Encode(), groupcache.AllocatingByteSliceSink(&data))
	if err != nil {
		return nil, fmt.Errorf("cachedPosts: %w", err)
	}
	dec := gob.NewDecoder(bytes.NewReader(data))
	err = dec.Decode(&posts)
	if err != nil {
		return nil, fmt.Errorf("cachedPosts: %w", err)
	}
	return posts, nil
}

// quantize buckets a time into intervals of d, staggered per name so that
// cache entries don't all expire on the same boundary.
func quantize(t time.Time, d time.Duration, name string) int64 {
	if d <= 0 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	offset := int64(h.Sum32()) % int64(d)
	return (t.UnixNano() + offset) / int64(d)
}

package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/petal-labs/ocbot/core"
)

// Cache stores chat details between reads.
type Cache interface {
	Get(key string) (*core.ChatDetailsResponse, bool)
	Set(key string, value *core.ChatDetailsResponse, ttl time.Duration)
	Delete(key string)
}

// DetailsCacheKey identifies the chat a details request reads.
func DetailsCacheKey(req *core.ChatDetailsRequest) string {
	scope := req.Context.Scope
	h := sha256.New()
	for _, part := range []string{
		string(req.Context.BotID),
		string(scope.Kind),
		string(scope.Chat.Kind), scope.Chat.ID, string(scope.Chat.ChannelID),
		string(scope.CommunityID),
		string(req.ChannelID),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// WithDetailsCache serves ChatDetails from cache for ttl. Deleting a channel
// evicts its entry. Other actions pass through.
func WithDetailsCache(cache Cache, ttl time.Duration) Middleware {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, req core.ActionRequest) (any, error) {
			switch r := req.(type) {
			case *core.ChatDetailsRequest:
				key := DetailsCacheKey(r)
				if cached, ok := cache.Get(key); ok {
					return cloneDetails(cached), nil
				}
				resp, err := next(ctx, req)
				if err != nil {
					return resp, err
				}
				if d, ok := resp.(*core.ChatDetailsResponse); ok && d != nil {
					cache.Set(key, cloneDetails(d), ttl)
				}
				return resp, nil

			case *core.DeleteChannelRequest:
				resp, err := next(ctx, req)
				if err == nil {
					cache.Delete(DetailsCacheKey(&core.ChatDetailsRequest{Context: r.Context, ChannelID: r.ChannelID}))
				}
				return resp, err

			default:
				return next(ctx, req)
			}
		}
	}
}

// cloneDetails copies d including the values behind its pointer fields.
func cloneDetails(d *core.ChatDetailsResponse) *core.ChatDetailsResponse {
	c := *d
	if d.EventsTTL != nil {
		ttl := *d.EventsTTL
		c.EventsTTL = &ttl
	}
	if d.LatestMessageIndex != nil {
		idx := *d.LatestMessageIndex
		c.LatestMessageIndex = &idx
	}
	return &c
}

// memoryCache is a simple in-memory cache implementation.
type memoryCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
}

type cacheItem struct {
	value   *core.ChatDetailsResponse
	expires time.Time
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() Cache {
	return &memoryCache{
		items: make(map[string]cacheItem),
	}
}

func (c *memoryCache) Get(key string) (*core.ChatDetailsResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]
	if !ok || time.Now().After(item.expires) {
		return nil, false
	}
	return item.value, true
}

func (c *memoryCache) Set(key string, value *core.ChatDetailsResponse, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		value:   value,
		expires: time.Now().Add(ttl),
	}
}

func (c *memoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

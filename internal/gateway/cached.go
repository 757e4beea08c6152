package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/promptsmith/internal/logger"
	"github.com/mark3labs/promptsmith/internal/wizard"
)

// WithCache memoizes successful plan and final prompt results in an LRU
// keyed by the exact request. Failures are never cached. Clarifying
// questions always reach the service so a restarted session with the same
// intent can get new ones. A size <= 0 disables caching.
func WithCache(size int) Middleware {
	return func(next wizard.Gateway) wizard.Gateway {
		if size <= 0 {
			return next
		}
		c, err := lru.New[string, cacheEntry](size)
		if err != nil {
			logger.Warn("gateway cache disabled: %v", err)
			return next
		}
		return &cached{next: next, cache: c}
	}
}

type cacheEntry struct {
	list []string
	text string
}

type cached struct {
	next  wizard.Gateway
	cache *lru.Cache[string, cacheEntry]
}

func (c *cached) GenerateClarifyingQuestions(ctx context.Context, intent, workflowJSON string) ([]string, error) {
	return c.next.GenerateClarifyingQuestions(ctx, intent, workflowJSON)
}

func (c *cached) GenerateExecutionPlan(ctx context.Context, form wizard.FormState) ([]string, error) {
	key := cacheKey(wizard.OpExecutionPlan, form)
	if e, ok := c.cache.Get(key); ok {
		logger.Debug("%s cache hit", wizard.OpExecutionPlan)
		return slices.Clone(e.list), nil
	}
	out, err := c.next.GenerateExecutionPlan(ctx, form)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, cacheEntry{list: slices.Clone(out)})
	return out, nil
}

func (c *cached) GenerateFinalSystemPrompt(ctx context.Context, form wizard.FormState) (string, error) {
	key := cacheKey(wizard.OpFinalSystemPrompt, form)
	if e, ok := c.cache.Get(key); ok {
		logger.Debug("%s cache hit", wizard.OpFinalSystemPrompt)
		return e.text, nil
	}
	out, err := c.next.GenerateFinalSystemPrompt(ctx, form)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, cacheEntry{text: out})
	return out, nil
}

// cacheKey hashes the JSON encoding of the request. Map keys are sorted by
// encoding/json, so equal forms produce equal keys.
func cacheKey(op string, req any) string {
	data, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(append([]byte(op+"\x00"), data...))
	return hex.EncodeToString(sum[:])
}

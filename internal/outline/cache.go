package outline

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/codespace/internal/symbols"
)

// symbolCache memoizes extraction results by language and content digest.
// A nil *symbolCache extracts without caching.
type symbolCache struct {
	cache otter.Cache[string, []symbols.Symbol]
}

func newSymbolCache(capacity int) (*symbolCache, error) {
	if capacity <= 0 {
		return nil, nil
	}

	cache, err := otter.MustBuilder[string, []symbols.Symbol](capacity).
		CollectStats().
		Build()
	if err != nil {
		return nil, err
	}
	return &symbolCache{cache: cache}, nil
}

func cacheKey(lang symbols.Language, text string) string {
	sum := sha256.Sum256([]byte(text))
	return lang.String() + ":" + hex.EncodeToString(sum[:])
}

// extract returns the symbols of text, served from the cache when possible.
// The returned slice is owned by the caller.
func (c *symbolCache) extract(lang symbols.Language, text string) []symbols.Symbol {
	if c == nil {
		return symbols.ExtractLanguage(lang, text)
	}

	key := cacheKey(lang, text)
	if syms, ok := c.cache.Get(key); ok {
		return clone(syms)
	}

	syms := symbols.ExtractLanguage(lang, text)
	c.cache.Set(key, clone(syms))
	return syms
}

func (c *symbolCache) hits() int64 {
	if c == nil {
		return 0
	}
	return c.cache.Stats().Hits()
}

func (c *symbolCache) close() {
	if c != nil {
		c.cache.Close()
	}
}

func clone(syms []symbols.Symbol) []symbols.Symbol {
	out := make([]symbols.Symbol, len(syms))
	copy(out, syms)
	return out
}

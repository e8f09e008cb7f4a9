package validate

import (
	"sync"

	"github.com/dekarrin/ebnflow/ir"
)

// Cache memoizes ValidateErrors by grammar fingerprint, for callers that
// validate the same static grammar repeatedly (e.g. a server building one
// engine per incoming document against a fixed, generator-produced
// grammar). The zero value is ready to use.
type Cache struct {
	mu      sync.RWMutex
	results map[[32]byte][]GrammarError
}

// Validate returns g's validation errors, computing and storing them on
// first call for a given fingerprint and returning the cached result on
// subsequent calls.
func (c *Cache) Validate(g *ir.Grammar) []GrammarError {
	fp := g.Fingerprint()

	c.mu.RLock()
	if cached, ok := c.results[fp]; ok {
		c.mu.RUnlock()
		return cached
	}
	c.mu.RUnlock()

	errs := ValidateErrors(g)

	c.mu.Lock()
	if c.results == nil {
		c.results = make(map[[32]byte][]GrammarError)
	}
	c.results[fp] = errs
	c.mu.Unlock()

	return errs
}

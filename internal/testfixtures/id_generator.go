package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator yields predictable listing need identifiers.
type IDGenerator struct {
	mu      sync.Mutex
	prefix  string
	counter int
}

// NewIDGenerator returns a generator producing "<prefix>-1", "<prefix>-2", ...
// An empty prefix defaults to "need".
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "need"
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s-%d", g.prefix, g.counter)
}

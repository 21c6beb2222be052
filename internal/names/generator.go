// Package names produces the fresh variable names used when a binder has to
// be renamed to avoid capture.
package names

import (
	"strconv"
	"sync/atomic"

	"github.com/funvibe/lamb/internal/config"
)

// Generator hands out names of the form <prefix><n> with n strictly
// increasing. It is safe for concurrent use.
type Generator struct {
	prefix  string
	counter atomic.Uint64
}

// New returns a generator whose names start with prefix.
func New(prefix string) *Generator {
	return &Generator{prefix: prefix}
}

// Default is the process-wide generator. Names it returns are unique for the
// life of the process.
var Default = New(config.FreshNamePrefix)

// Next returns a name that this generator has never returned before.
func (g *Generator) Next() string {
	n := g.counter.Add(1)
	return g.prefix + strconv.FormatUint(n, 10)
}

// Issued reports how many names have been handed out.
func (g *Generator) Issued() uint64 {
	return g.counter.Load()
}

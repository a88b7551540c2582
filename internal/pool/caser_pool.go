package pool

import (
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CaserPool implements a pool of lowercasing cases.Caser values.
// A Caser keeps state between calls and must not be shared by goroutines.
type CaserPool struct {
	pool sync.Pool
}

// NewCaserPool creates a pool of language-neutral lowercasers.
func NewCaserPool() *CaserPool {
	return &CaserPool{
		pool: sync.Pool{
			New: func() interface{} {
				c := cases.Lower(language.Und)
				return &c
			},
		},
	}
}

// Get retrieves a Caser from the pool or creates a new one.
func (cp *CaserPool) Get() *cases.Caser {
	return cp.pool.Get().(*cases.Caser)
}

// Put resets the Caser and returns it to the pool.
func (cp *CaserPool) Put(c *cases.Caser) {
	c.Reset()
	cp.pool.Put(c)
}

// Lower lowercases s with a pooled Caser.
func (cp *CaserPool) Lower(s string) string {
	c := cp.Get()
	defer cp.Put(c)
	return c.String(s)
}

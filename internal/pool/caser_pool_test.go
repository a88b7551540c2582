package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaserPoolLower(t *testing.T) {
	p := NewCaserPool()
	assert.Equal(t, "the train id is tr0192", p.Lower("The Train ID is TR0192"))
	assert.Equal(t, "café", p.Lower("CAFÉ"))
	assert.Equal(t, "", p.Lower(""))
}

func TestCaserPoolConcurrent(t *testing.T) {
	p := NewCaserPool()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "guest house in the north", p.Lower("Guest House in the NORTH"))
			}
		}()
	}
	wg.Wait()
}

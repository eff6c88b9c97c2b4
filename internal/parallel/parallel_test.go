package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		n    int
	}{
		{"default", DefaultConfig(), 1000},
		{"sequential", Sequential(), 100},
		{"small", DefaultConfig(), 10},
		{"many workers", Config{Enabled: true, NumWorkers: 8, MinChunkSize: 1}, 37},
		{"empty", DefaultConfig(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make([]int32, tt.n)
			var counter int64
			For(tt.n, func(i int) {
				atomic.AddInt64(&counter, 1)
				atomic.AddInt32(&seen[i], 1)
			}, tt.cfg)

			assert.Equal(t, int64(tt.n), counter)
			for i, c := range seen {
				assert.Equal(t, int32(1), c, "index %d", i)
			}
		})
	}
}

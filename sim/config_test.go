package sim

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_ZeroValueDefaults(t *testing.T) {
	var cfg Config
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.workers())
	assert.Equal(t, DefaultDrainTimeout, cfg.drainTimeout())
}

func TestConfig_ExplicitValues(t *testing.T) {
	cfg := Config{Workers: 3, DrainTimeout: 2 * time.Second}
	assert.Equal(t, 3, cfg.workers())
	assert.Equal(t, 2*time.Second, cfg.drainTimeout())

	cfg = Config{Workers: -1, DrainTimeout: -time.Second}
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.workers())
	assert.Equal(t, DefaultDrainTimeout, cfg.drainTimeout())
}

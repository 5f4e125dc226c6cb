package loadgen

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialDelay(t *testing.T) {
	assert.Equal(t, 0.0, ExponentialDelay(0, 0.5))
	assert.InDelta(t, 2*math.Ln2, ExponentialDelay(0.5, 0.5), 1e-9)
	assert.Equal(t, 0.0, ExponentialDelay(0.5, 0))
	assert.Equal(t, 0.0, ExponentialDelay(0.5, -1))
}

func TestPacerMean(t *testing.T) {
	pacer := NewPacer(0.5, rand.New(rand.NewPCG(3, 11)))

	const draws = 100000
	var total time.Duration
	for i := 0; i < draws; i++ {
		d := pacer.NextDelay()
		assert.GreaterOrEqual(t, d, time.Duration(0))
		total += d
	}

	mean := total.Seconds() / draws
	assert.InDelta(t, 2.0, mean, 0.05)
}

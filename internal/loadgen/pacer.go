package loadgen

import (
	"math"
	"time"
)

// Pacer produces think times of a Poisson arrival process with rate Lambda per second.
type Pacer struct {
	lambda float64
	rnd    Float64Source
}

// NewPacer returns a pacer with mean delay 1/lambda seconds.
func NewPacer(lambda float64, rnd Float64Source) *Pacer {
	return &Pacer{lambda: lambda, rnd: rnd}
}

// NextDelay draws the next think time.
func (p *Pacer) NextDelay() time.Duration {
	seconds := ExponentialDelay(p.rnd.Float64(), p.lambda)
	return time.Duration(seconds * float64(time.Second))
}

// ExponentialDelay maps u in [0, 1) to -ln(1-u)/lambda seconds. It returns 0 for a non-positive lambda.
func ExponentialDelay(u, lambda float64) float64 {
	if lambda <= 0 || u < 0 || u >= 1 {
		return 0
	}
	return -math.Log(1-u) / lambda
}

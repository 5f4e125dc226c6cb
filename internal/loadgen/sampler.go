package loadgen

import "errors"

// ErrNoEndpoints is returned when selecting from an empty catalogue.
var ErrNoEndpoints = errors.New("loadgen: no endpoints to select from")

// Float64Source yields uniform values in [0, 1). *rand.Rand from math/rand and math/rand/v2 both qualify.
type Float64Source interface {
	Float64() float64
}

// Sampler picks endpoints with probability proportional to their weight.
// A Sampler is not safe for concurrent use unless its source is.
type Sampler struct {
	rnd Float64Source
}

// NewSampler returns a sampler drawing from rnd.
func NewSampler(rnd Float64Source) *Sampler {
	return &Sampler{rnd: rnd}
}

// Select returns one endpoint. Weights below 1 count as 1.
func (s *Sampler) Select(endpoints []Endpoint) (Endpoint, error) {
	if len(endpoints) == 0 {
		return Endpoint{}, ErrNoEndpoints
	}

	var total float64
	for _, ep := range endpoints {
		total += float64(ep.effectiveWeight())
	}

	remaining := s.rnd.Float64() * total
	for _, ep := range endpoints {
		remaining -= float64(ep.effectiveWeight())
		if remaining < 0 {
			return ep, nil
		}
	}
	return endpoints[0], nil
}

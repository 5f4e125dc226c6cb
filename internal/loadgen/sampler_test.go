package loadgen

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource []float64

func (f *fixedSource) Float64() float64 {
	v := (*f)[0]
	*f = (*f)[1:]
	return v
}

func TestSamplerEmpty(t *testing.T) {
	_, err := NewSampler(rand.New(rand.NewPCG(1, 2))).Select(nil)
	assert.ErrorIs(t, err, ErrNoEndpoints)
}

func TestSamplerWalksCumulativeWeights(t *testing.T) {
	endpoints := []Endpoint{{Name: "a", Weight: 1}, {Name: "b", Weight: 3}}

	cases := []struct {
		u    float64
		want string
	}{
		{0, "a"},
		{0.24, "a"},
		{0.25, "b"},
		{0.99, "b"},
	}
	for _, tc := range cases {
		src := fixedSource{tc.u}
		got, err := NewSampler(&src).Select(endpoints)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Name, "u=%v", tc.u)
	}
}

func TestSamplerFallsBackToFirstEndpoint(t *testing.T) {
	endpoints := []Endpoint{{Name: "a", Weight: 1}, {Name: "b", Weight: 3}}

	// A draw of exactly 1 leaves the remainder at zero after the last weight, so no endpoint triggers.
	src := fixedSource{1.0}
	got, err := NewSampler(&src).Select(endpoints)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)
}

func TestSamplerTreatsNonPositiveWeightAsOne(t *testing.T) {
	endpoints := []Endpoint{{Name: "a", Weight: 0}, {Name: "b", Weight: -4}}

	src := fixedSource{0.6}
	got, err := NewSampler(&src).Select(endpoints)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)
}

func TestSamplerFrequencies(t *testing.T) {
	endpoints := []Endpoint{
		{Name: "login", Weight: 10},
		{Name: "register", Weight: 5},
		{Name: "orders", Weight: 15},
	}
	sampler := NewSampler(rand.New(rand.NewPCG(42, 7)))

	const draws = 60000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		ep, err := sampler.Select(endpoints)
		require.NoError(t, err)
		counts[ep.Name]++
	}

	assert.InDelta(t, 10.0/30, float64(counts["login"])/draws, 0.02)
	assert.InDelta(t, 5.0/30, float64(counts["register"])/draws, 0.02)
	assert.InDelta(t, 15.0/30, float64(counts["orders"])/draws, 0.02)
}

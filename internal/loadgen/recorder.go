package loadgen

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

// Result is the outcome of one request.
type Result struct {
	Endpoint string
	Status   int
	Latency  time.Duration
	Err      error
}

// Failed reports a transport error or a non-200 status.
func (r Result) Failed() bool {
	return r.Err != nil || r.Status != 200
}

// Recorder aggregates results from concurrent virtual users.
type Recorder struct {
	mu            sync.Mutex
	requests      int
	failures      int
	checkFailures int
	slowAfter     time.Duration
	latencies     []time.Duration
	byEndpoint    map[string]int
}

// NewRecorder counts a request as a failed check when it fails or takes slowAfter or longer.
func NewRecorder(slowAfter time.Duration) *Recorder {
	return &Recorder{slowAfter: slowAfter, byEndpoint: map[string]int{}}
}

// Record adds one result.
func (r *Recorder) Record(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests++
	r.byEndpoint[res.Endpoint]++
	if res.Failed() {
		r.failures++
	}
	if res.Failed() || (r.slowAfter > 0 && res.Latency >= r.slowAfter) {
		r.checkFailures++
	}
	if res.Err == nil {
		r.latencies = append(r.latencies, res.Latency)
	}
}

// Summary is a snapshot of everything recorded so far.
type Summary struct {
	Requests      int            `json:"requests"`
	Failures      int            `json:"failures"`
	CheckFailures int            `json:"check_failures"`
	ErrorRate     float64        `json:"error_rate"`
	P95           time.Duration  `json:"p95"`
	ByEndpoint    map[string]int `json:"by_endpoint"`
}

// Summary computes the error rate and the 95th latency percentile.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Summary{
		Requests:      r.requests,
		Failures:      r.failures,
		CheckFailures: r.checkFailures,
		ByEndpoint:    make(map[string]int, len(r.byEndpoint)),
	}
	for k, v := range r.byEndpoint {
		s.ByEndpoint[k] = v
	}
	if r.requests > 0 {
		s.ErrorRate = float64(r.failures) / float64(r.requests)
	}
	s.P95 = percentile(r.latencies, 0.95)
	return s
}

// percentile uses the nearest-rank method on a sorted copy.
func percentile(values []time.Duration, p float64) time.Duration {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	return sorted[rank]
}

// Thresholds are the pass criteria of a run.
type Thresholds struct {
	MaxErrorRate float64
	MaxP95       time.Duration
}

// DefaultThresholds fails a run at 10% errors or a p95 of 800ms.
func DefaultThresholds() Thresholds {
	return Thresholds{MaxErrorRate: 0.10, MaxP95: 800 * time.Millisecond}
}

// Breach describes one threshold a run did not meet.
type Breach struct {
	Metric   string
	Observed string
	Limit    string
}

func (b Breach) String() string {
	return fmt.Sprintf("%s %s exceeds %s", b.Metric, b.Observed, b.Limit)
}

// Evaluate returns the thresholds s breaches. Both limits are strict upper bounds; a
// non-positive limit is not checked.
func (t Thresholds) Evaluate(s Summary) []Breach {
	var breaches []Breach
	if t.MaxErrorRate > 0 && s.ErrorRate >= t.MaxErrorRate {
		breaches = append(breaches, Breach{
			Metric:   "error_rate",
			Observed: fmt.Sprintf("%.4f", s.ErrorRate),
			Limit:    fmt.Sprintf("< %.4f", t.MaxErrorRate),
		})
	}
	if t.MaxP95 > 0 && s.P95 >= t.MaxP95 {
		breaches = append(breaches, Breach{
			Metric:   "p95",
			Observed: s.P95.String(),
			Limit:    "< " + t.MaxP95.String(),
		})
	}
	return breaches
}

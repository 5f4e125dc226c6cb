package loadgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// overrunTolerance is how late a stage may finish before the runner warns.
const overrunTolerance = 100 * time.Millisecond

// Options configures a Runner.
type Options struct {
	Stages    []Stage
	Endpoints []Endpoint
	BaseURLs  BaseURLs
	// Lambda is the think-time rate per second; the mean pause is 1/Lambda.
	Lambda float64
	// Token, when set, is sent as a bearer credential on every request.
	Token string
	// SlowAfter marks a request as a failed check once it takes this long.
	SlowAfter      time.Duration
	RequestTimeout time.Duration
	// Seed makes endpoint choice and pacing reproducible per virtual user.
	Seed   uint64
	Client *http.Client
	Logger *zap.Logger
}

// Runner executes a staged load test.
type Runner struct {
	opts     Options
	recorder *Recorder
}

// NewRunner validates opts and fills in defaults.
func NewRunner(opts Options) (*Runner, error) {
	if len(opts.Endpoints) == 0 {
		return nil, ErrNoEndpoints
	}
	if len(opts.Stages) == 0 {
		return nil, errors.New("loadgen: no stages")
	}
	if opts.BaseURLs == nil {
		opts.BaseURLs = DefaultBaseURLs()
	}
	for _, ep := range opts.Endpoints {
		if _, ok := opts.BaseURLs[ep.Service]; !ok {
			return nil, fmt.Errorf("loadgen: no base url for service %q (endpoint %s)", ep.Service, ep.Name)
		}
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Runner{opts: opts, recorder: NewRecorder(opts.SlowAfter)}, nil
}

// Run plays every stage in order and returns the aggregated summary. Request
// failures are recorded, never returned; the error is only set when ctx ends early.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	for i, stage := range r.opts.Stages {
		if err := ctx.Err(); err != nil {
			return r.recorder.Summary(), err
		}
		r.opts.Logger.Info("stage started",
			zap.Int("stage", i),
			zap.Int("target", stage.Target),
			zap.Duration("duration", stage.Duration),
		)
		r.runStage(ctx, i, stage)
	}
	return r.recorder.Summary(), ctx.Err()
}

// Recorder exposes live counters, e.g. for progress reporting.
func (r *Runner) Recorder() *Recorder {
	return r.recorder
}

func (r *Runner) runStage(ctx context.Context, index int, stage Stage) {
	start := time.Now()
	stageCtx, cancel := context.WithTimeout(ctx, stage.Duration)
	defer cancel()

	if stage.Target == 0 {
		<-stageCtx.Done()
		return
	}

	// A request never outlives its stage by more than one stage length.
	timeout := r.opts.RequestTimeout
	if stage.Duration > 0 {
		timeout = min(timeout, stage.Duration)
	}

	var g errgroup.Group
	for vu := 0; vu < stage.Target; vu++ {
		seed := r.opts.Seed + uint64(index)<<32 + uint64(vu)
		g.Go(func() error {
			r.virtualUser(ctx, stageCtx, seed, timeout)
			return nil
		})
	}
	_ = g.Wait()

	if overrun := time.Since(start) - stage.Duration; overrun > overrunTolerance {
		r.opts.Logger.Warn("stage overran its schedule",
			zap.Int("stage", index),
			zap.Duration("overrun", overrun),
		)
	}
}

// virtualUser loops until stageCtx ends. Requests run on runCtx so a stage
// boundary does not abort a request already in flight.
func (r *Runner) virtualUser(runCtx, stageCtx context.Context, seed uint64, timeout time.Duration) {
	rnd := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	sampler := NewSampler(rnd)
	pacer := NewPacer(r.opts.Lambda, rnd)

	for stageCtx.Err() == nil {
		ep, err := sampler.Select(r.opts.Endpoints)
		if err != nil {
			return
		}
		r.recorder.Record(r.do(runCtx, ep, timeout))

		if !sleep(stageCtx, pacer.NextDelay()) {
			return
		}
	}
}

func (r *Runner) do(ctx context.Context, ep Endpoint, timeout time.Duration) Result {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if len(ep.Payload) > 0 {
		body = bytes.NewReader(ep.Payload)
	}
	url := r.opts.BaseURLs.URL(ep)
	req, err := http.NewRequestWithContext(ctx, ep.Method, url, body)
	if err != nil {
		return Result{Endpoint: ep.Name, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if r.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.opts.Token)
	}

	start := time.Now()
	resp, err := r.opts.Client.Do(req)
	if err != nil {
		r.opts.Logger.Debug("request failed", zap.String("endpoint", ep.Name), zap.Error(err))
		return Result{Endpoint: ep.Name, Latency: time.Since(start), Err: err}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	latency := time.Since(start)

	r.opts.Logger.Debug("request",
		zap.String("endpoint", ep.Name),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", latency),
	)
	return Result{Endpoint: ep.Name, Status: resp.StatusCode, Latency: latency}
}

// sleep waits for d and reports false when ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

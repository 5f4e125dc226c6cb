package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bazaarhq/marketplace/internal/config"
	"github.com/bazaarhq/marketplace/internal/loadgen"
	"github.com/bazaarhq/marketplace/internal/observability"
)

var errThresholdsBreached = errors.New("thresholds breached")

type settings struct {
	Duration       time.Duration
	Interval       time.Duration
	Baseline       float64
	Amplitude      float64
	Period         time.Duration
	Lambda         float64
	Token          string
	SlowAfter      time.Duration
	RequestTimeout time.Duration
	MaxErrorRate   float64
	MaxP95         time.Duration
	Seed           uint64
	LogLevel       string
	DryRun         bool
	BaseURLs       loadgen.BaseURLs
}

func main() {
	if err := newCommand(run).Execute(); err != nil {
		os.Exit(1)
	}
}

type runFunc func(ctx context.Context, out io.Writer, s settings) error

func newCommand(runFn runFunc) *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:          "loadtest",
		Short:        "Drive sinusoidal synthetic traffic against the marketplace services",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFn(cmd.Context(), cmd.OutOrStdout(), loadSettings(v))
		},
	}

	flags := cmd.Flags()
	flags.Duration("duration", 900*time.Second, "total test duration")
	flags.Duration("interval", 30*time.Second, "length of each stage")
	flags.Float64("baseline", 100, "mean number of virtual users")
	flags.Float64("amplitude", 50, "swing of virtual users around the baseline")
	flags.Duration("period", 300*time.Second, "length of one load wave")
	flags.Float64("lambda", 0.5, "think-time rate per second; mean pause is 1/lambda")
	flags.String("token", "", "bearer token sent with every request")
	flags.Duration("slow-after", 800*time.Millisecond, "latency at which a request fails its check")
	flags.Duration("request-timeout", 30*time.Second, "timeout of a single request")
	flags.Float64("max-error-rate", 0.10, "error rate the run must stay below")
	flags.Duration("max-p95", 800*time.Millisecond, "p95 latency the run must stay below")
	flags.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	flags.String("log-level", "info", "log level")
	flags.Bool("dry-run", false, "print the stage schedule and exit")
	for svc, url := range loadgen.DefaultBaseURLs() {
		flags.String(string(svc)+"-url", url, fmt.Sprintf("base url of the %s service", svc))
	}

	v.SetEnvPrefix("LOADTEST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)

	return cmd
}

func loadSettings(v *viper.Viper) settings {
	s := settings{
		Duration:       v.GetDuration("duration"),
		Interval:       v.GetDuration("interval"),
		Baseline:       v.GetFloat64("baseline"),
		Amplitude:      v.GetFloat64("amplitude"),
		Period:         v.GetDuration("period"),
		Lambda:         v.GetFloat64("lambda"),
		Token:          v.GetString("token"),
		SlowAfter:      v.GetDuration("slow-after"),
		RequestTimeout: v.GetDuration("request-timeout"),
		MaxErrorRate:   v.GetFloat64("max-error-rate"),
		MaxP95:         v.GetDuration("max-p95"),
		Seed:           v.GetUint64("seed"),
		LogLevel:       v.GetString("log-level"),
		DryRun:         v.GetBool("dry-run"),
		BaseURLs:       loadgen.BaseURLs{},
	}
	for svc := range loadgen.DefaultBaseURLs() {
		s.BaseURLs[svc] = v.GetString(string(svc) + "-url")
	}
	return s
}

func run(ctx context.Context, out io.Writer, s settings) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := observability.NewLogger(config.LoggerConfig{Level: s.LogLevel})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	stages := loadgen.GenerateStages(s.Duration, s.Interval, s.Baseline, s.Amplitude, s.Period)
	if s.DryRun {
		for i, st := range stages {
			fmt.Fprintf(out, "stage %2d  %6s  %4d vus\n", i, st.Duration, st.Target)
		}
		return nil
	}

	runner, err := loadgen.NewRunner(loadgen.Options{
		Stages:         stages,
		Endpoints:      loadgen.DefaultEndpoints(),
		BaseURLs:       s.BaseURLs,
		Lambda:         s.Lambda,
		Token:          s.Token,
		SlowAfter:      s.SlowAfter,
		RequestTimeout: s.RequestTimeout,
		Seed:           s.Seed,
		Client:         &http.Client{Transport: &http.Transport{MaxIdleConnsPerHost: 256}},
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	logger.Info("load test starting",
		zap.Int("stages", len(stages)),
		zap.Duration("duration", loadgen.TotalDuration(stages)),
		zap.Uint64("seed", s.Seed),
	)
	summary, runErr := runner.Run(ctx)
	report(out, summary)

	breaches := loadgen.Thresholds{MaxErrorRate: s.MaxErrorRate, MaxP95: s.MaxP95}.Evaluate(summary)
	for _, b := range breaches {
		logger.Error("threshold breached", zap.String("metric", b.Metric), zap.String("observed", b.Observed), zap.String("limit", b.Limit))
	}
	if runErr != nil {
		return fmt.Errorf("load test interrupted: %w", runErr)
	}
	if len(breaches) > 0 {
		return errThresholdsBreached
	}
	return nil
}

func report(out io.Writer, s loadgen.Summary) {
	fmt.Fprintf(out, "requests:       %d\n", s.Requests)
	fmt.Fprintf(out, "failed:         %d (%.2f%%)\n", s.Failures, s.ErrorRate*100)
	fmt.Fprintf(out, "checks failed:  %d\n", s.CheckFailures)
	fmt.Fprintf(out, "p95 latency:    %s\n", s.P95)

	names := make([]string, 0, len(s.ByEndpoint))
	for name := range s.ByEndpoint {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-28s %d\n", name, s.ByEndpoint[name])
	}
}

package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bradcypert/httpspec/packages/assertions"
	"github.com/bradcypert/httpspec/packages/core/parser"
	"github.com/bradcypert/httpspec/packages/history"
	"github.com/bradcypert/httpspec/packages/http"
	"github.com/bradcypert/httpspec/packages/output"
	"github.com/bradcypert/httpspec/packages/pool"
	"github.com/bradcypert/httpspec/packages/stats"
)

// Outcome is the per-file verdict.
type Outcome int

const (
	OutcomePass Outcome = iota
	OutcomeFail
	OutcomeInvalid
)

func (o Outcome) String() string {
	switch o {
	case OutcomePass:
		return "pass"
	case OutcomeFail:
		return "fail"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

type Config struct {
	Timeout        time.Duration
	FollowRedirect bool
	ValidateSSL    bool
	DefaultHeaders map[string]string
	ClientOptions  []http.ClientOption
}

// Runner executes one file at a time. Each worker builds its own
// Runner so the HTTP client is never shared across threads; the tally
// and the sink are the shared, lock-protected pieces.
type Runner struct {
	client *http.Client
	tally  *pool.Tally
	sink   *output.Sink

	collector *stats.Collector
	store     *history.Store
	runID     string
}

type Option func(*Runner)

// WithStats records request latencies into collector.
func WithStats(collector *stats.Collector) Option {
	return func(r *Runner) {
		r.collector = collector
	}
}

// WithHistory records per-file outcomes under the given run ID.
func WithHistory(store *history.Store, runID string) Option {
	return func(r *Runner) {
		r.store = store
		r.runID = runID
	}
}

func New(cfg *Config, tally *pool.Tally, sink *output.Sink, opts ...Option) *Runner {
	if cfg == nil {
		cfg = &Config{FollowRedirect: true, ValidateSSL: true}
	}

	clientOpts := []http.ClientOption{
		http.WithFollowRedirects(cfg.FollowRedirect),
		http.WithValidateSSL(cfg.ValidateSSL),
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, http.WithTimeout(cfg.Timeout))
	}
	if len(cfg.DefaultHeaders) > 0 {
		clientOpts = append(clientOpts, http.WithDefaultHeaders(cfg.DefaultHeaders))
	}
	clientOpts = append(clientOpts, cfg.ClientOptions...)

	r := &Runner{
		client: http.NewClient(clientOpts...),
		tally:  tally,
		sink:   sink,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunFile runs one file to its verdict and updates the tally exactly
// once for total and once for the outcome.
func (r *Runner) RunFile(ctx context.Context, path string) Outcome {
	start := time.Now()
	outcome, failures := r.runFile(ctx, path)

	r.tally.IncTotal()
	switch outcome {
	case OutcomePass:
		r.tally.IncPass()
	case OutcomeFail:
		r.tally.IncFail()
	case OutcomeInvalid:
		r.tally.IncInvalid()
	}

	if r.store != nil {
		err := r.store.Record(ctx, history.Record{
			RunID:    r.runID,
			File:     path,
			Outcome:  outcome.String(),
			Duration: time.Since(start),
			Failures: failures,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	return outcome
}

// runFile is the per-file pipeline: parse, then execute and evaluate
// each request in source order, stopping at the first request whose
// diagnostic is non-empty.
func (r *Runner) runFile(ctx context.Context, path string) (Outcome, int) {
	file, err := parser.ParseFile(path)
	if err != nil {
		r.sink.Invalid(path, err)
		return OutcomeInvalid, 0
	}

	for _, req := range file.Requests {
		resp, err := r.client.Do(ctx, req)
		if err != nil {
			r.sink.Invalid(path, err)
			return OutcomeInvalid, 0
		}

		if r.collector != nil {
			r.collector.Record(resp.Duration)
		}

		diag := assertions.Check(req, resp, path)
		if !diag.Empty() {
			for _, f := range diag.Failures {
				r.sink.Failure(f)
			}
			return OutcomeFail, len(diag.Failures)
		}
	}

	return OutcomePass, 0
}

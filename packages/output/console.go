package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/bradcypert/httpspec/packages/assertions"
	"github.com/bradcypert/httpspec/packages/pool"
	"github.com/bradcypert/httpspec/packages/stats"
)

// Sink is the shared line-oriented writer for failure reports. Each
// report is rendered to a string first and emitted in a single Write
// under the mutex, so lines from concurrent files never tear.
type Sink struct {
	mu      sync.Mutex
	writer  io.Writer
	fail    func(a ...interface{}) string
	invalid func(a ...interface{}) string
}

type SinkOption func(*Sink)

func NewSink(opts ...SinkOption) *Sink {
	s := &Sink{
		writer:  os.Stderr,
		fail:    color.New(color.FgRed).SprintFunc(),
		invalid: color.New(color.FgYellow).SprintFunc(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func SinkWithWriter(w io.Writer) SinkOption {
	return func(s *Sink) {
		s.writer = w
	}
}

func SinkWithNoColor(nc bool) SinkOption {
	return func(s *Sink) {
		if nc {
			color.NoColor = true
		}
	}
}

// Failure writes one assertion failure as a single line.
func (s *Sink) Failure(f *assertions.Failure) {
	line := fmt.Sprintf("%s in %s:%d %s\n", s.fail("[Fail]"), f.File, f.Index+1, failureMessage(f))
	s.write(line)
}

// Invalid writes one parse or transport error for a whole file.
func (s *Sink) Invalid(path string, err error) {
	line := fmt.Sprintf("%s %s: %v\n", s.invalid("[Invalid]"), path, err)
	s.write(line)
}

func (s *Sink) write(line string) {
	s.mu.Lock()
	_, _ = io.WriteString(s.writer, line)
	s.mu.Unlock()
}

func failureMessage(f *assertions.Failure) string {
	a := f.Assertion
	switch f.Reason {
	case assertions.ReasonStatusMismatch:
		if f.Actual == "" {
			return fmt.Sprintf("Expected status %s, got no status", f.Expected)
		}
		return fmt.Sprintf("Expected status %s, got %s", f.Expected, f.Actual)
	case assertions.ReasonStatusFormatError:
		return fmt.Sprintf("Cannot parse expected status %q", f.Expected)
	case assertions.ReasonBodyMismatch:
		return fmt.Sprintf("Expected body %q, got %q", f.Expected, f.Actual)
	case assertions.ReasonHeaderMismatch:
		return fmt.Sprintf("Expected %s to equal %q, got %q", a.Key, f.Expected, f.Actual)
	case assertions.ReasonHeaderMissing:
		return fmt.Sprintf("Expected %s to equal %q, but the header is missing", a.Key, f.Expected)
	case assertions.ReasonContainsFailed, assertions.ReasonNotContainsFailed:
		return fmt.Sprintf("Expected %s %s %q, got %q", a.Key, a.Operator, f.Expected, f.Actual)
	case assertions.ReasonInvalidAssertionKey:
		return fmt.Sprintf("Unknown assertion key %q", a.Key)
	default:
		return fmt.Sprintf("Expected %s %s %q, got %q", a.Key, a.Operator, f.Expected, f.Actual)
	}
}

// Summary prints the fixed end-of-run report. It is emitted exactly
// once, after all workers have joined.
func Summary(w io.Writer, counts pool.Counts) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "All %d tests ran successfully!\n", counts.Total)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Pass: %s\n", green(counts.Pass))
	fmt.Fprintf(w, "Fail: %s\n", red(counts.Fail))
	fmt.Fprintf(w, "Invalid: %s\n", yellow(counts.Invalid))
}

// Latency prints the request latency distribution (verbose mode).
func Latency(w io.Writer, s stats.Summary) {
	if s.Count == 0 {
		return
	}
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(w, "\n%s\n", cyan("Request latency"))
	fmt.Fprintf(w, "  count: %d\n", s.Count)
	fmt.Fprintf(w, "  min:   %s\n", s.Min)
	fmt.Fprintf(w, "  mean:  %s\n", s.Mean)
	fmt.Fprintf(w, "  p50:   %s\n", s.P50)
	fmt.Fprintf(w, "  p95:   %s\n", s.P95)
	fmt.Fprintf(w, "  p99:   %s\n", s.P99)
	fmt.Fprintf(w, "  max:   %s\n", s.Max)
}

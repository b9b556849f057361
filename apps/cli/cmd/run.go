package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bradcypert/httpspec/packages/core/config"
	"github.com/bradcypert/httpspec/packages/core/runner"
	"github.com/bradcypert/httpspec/packages/history"
	"github.com/bradcypert/httpspec/packages/http"
	"github.com/bradcypert/httpspec/packages/output"
	"github.com/bradcypert/httpspec/packages/pool"
	"github.com/bradcypert/httpspec/packages/stats"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

// ErrInvalidPath reports a path argument that is neither a test file
// nor an existing directory.
var ErrInvalidPath = errors.New("invalid path")

var (
	timeoutFlag  string
	threadsFlag  int
	rateFlag     float64
	noColorFlag  bool
	verboseFlag  bool
	watchFlag    bool
	insecureFlag bool
	configFlag   string
	historyFlag  string
)

func init() {
	rootCmd.Flags().StringVar(&timeoutFlag, "timeout", "", "Request timeout (e.g., 30s, 1m)")
	rootCmd.Flags().IntVar(&threadsFlag, "threads", 0, "Worker count (overrides "+config.ThreadCountEnv+")")
	rootCmd.Flags().Float64Var(&rateFlag, "rate", 0, "Throttle requests per second across all workers")
	rootCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("HTTPSPEC_NO_COLOR", false), "Disable colored output (env: HTTPSPEC_NO_COLOR)")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Print latency statistics after the run")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch files for changes and re-run tests")
	rootCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", false, "Disable SSL certificate validation")
	rootCmd.Flags().StringVar(&configFlag, "config", getEnvString("HTTPSPEC_CONFIG", ""), "Path to config file (env: HTTPSPEC_CONFIG)")
	rootCmd.Flags().StringVar(&historyFlag, "history", "", "Record outcomes in a SQLite database at this path")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func runCommand(cmd *cobra.Command, args []string) error {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no .http or .httpspec files found")
	}

	timeout, err := fileConfig.GetTimeout()
	if err != nil {
		return err
	}
	if timeoutFlag != "" {
		timeout, err = time.ParseDuration(timeoutFlag)
		if err != nil {
			return fmt.Errorf("invalid timeout value %q: %w (use format like 30s, 1m, 500ms)", timeoutFlag, err)
		}
	}

	threads := fileConfig.ThreadCount()
	if threadsFlag > 0 {
		threads = threadsFlag
	}

	rps := fileConfig.Rate
	if rateFlag > 0 {
		rps = rateFlag
	}

	historyPath := fileConfig.History
	if historyFlag != "" {
		historyPath = historyFlag
	}

	var store *history.Store
	if historyPath != "" {
		store, err = history.Open(historyPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	sink := output.NewSink(output.SinkWithNoColor(noColorFlag || fileConfig.NoColor))

	cfg := &runner.Config{
		Timeout:        timeout,
		FollowRedirect: true,
		ValidateSSL:    !insecureFlag,
		DefaultHeaders: fileConfig.Headers,
	}
	if rps > 0 {
		// One limiter shared by every worker's client.
		limiter := http.NewLimiter(rps)
		cfg.ClientOptions = append(cfg.ClientOptions, http.WithRateLimit(limiter))
	}

	runTests := func(ctx context.Context) pool.Counts {
		tally := pool.NewTally()
		collector := stats.NewCollector()
		runID := uuid.New().String()

		pool.Run(ctx, threads, files, func() pool.Handler {
			opts := []runner.Option{runner.WithStats(collector)}
			if store != nil {
				opts = append(opts, runner.WithHistory(store, runID))
			}
			r := runner.New(cfg, tally, sink, opts...)
			return func(ctx context.Context, path string) {
				r.RunFile(ctx, path)
			}
		})

		counts := tally.Snapshot()
		if verboseFlag {
			output.Latency(cmd.OutOrStdout(), collector.Summary())
			fmt.Fprintf(cmd.OutOrStdout(), "\n")
		}
		output.Summary(cmd.OutOrStdout(), counts)
		return counts
	}

	ctx := context.Background()
	counts := runTests(ctx)

	if !watchFlag {
		if !counts.Clean() {
			os.Exit(ExitTestFailure)
		}
		return nil
	}

	return watchLoop(cmd, ctx, files, args, runTests)
}

// watchLoop re-runs the suite whenever a watched test file changes.
func watchLoop(cmd *cobra.Command, ctx context.Context, files, args []string, runTests func(context.Context) pool.Counts) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	for _, file := range files {
		dir := filepath.Dir(file)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to watch %s: %v\n", dir, err)
			}
			watchedDirs[dir] = true
		}
	}

	// Also watch every directory under the directory args. A write to a
	// test file there triggers a re-run, but the re-run covers only the
	// files collected at startup; files created later are not run.
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			_ = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() && !watchedDirs[path] {
					_ = watcher.Add(path)
					watchedDirs[path] = true
				}
				return nil
			})
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Write) && isSpecFile(event.Name) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\n\nFile changed: %s\nRe-running tests...\n\n", event.Name)
					runTests(ctx)
					fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "warning: watcher error: %v\n", err)
		}
	}
}

// collectFiles resolves path arguments to test files. Paths with a
// test-file extension are files; anything else must be an existing
// directory, which is walked recursively. No arguments means the
// current directory.
func collectFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []string
	for _, arg := range args {
		if isSpecFile(arg) {
			files = append(files, arg)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is neither a test file nor a directory", ErrInvalidPath, arg)
		}

		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && isSpecFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

func isSpecFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".http" || ext == ".httpspec"
}

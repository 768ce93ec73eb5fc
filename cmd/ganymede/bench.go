package main

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/gdl/parser"
)

var benchFlags struct {
	iterations  int
	concurrency int
}

var benchCmd = &cobra.Command{
	Use:   "bench <file>",
	Short: "Measure parse throughput",
	Long: `Parse a grammar repeatedly and report throughput and latency.

The bench command reads the grammar once and parses the same bytes for
the configured number of iterations, optionally across parallel
workers. The parser keeps no state between runs, so concurrent workers
measure real contention-free throughput.

Metrics Collected:
  - Parse throughput (parses/sec)
  - Latency percentiles (p50, p95, p99, max)

Examples:
  # Default run
  ganymede bench grammars/json.gdl

  # Longer run across four workers
  ganymede bench grammars/json.gdl --iterations 10000 --concurrency 4`,
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntVar(&benchFlags.iterations, "iterations", 1000, "number of parses")
	benchCmd.Flags().IntVar(&benchFlags.concurrency, "concurrency", 1, "parallel workers")
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := initLogging(cfg); err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return cli.NewExitError(exitUnreadable,
			cli.NewCommandError("bench", fmt.Errorf("failed to read grammar: %w", err)))
	}

	fmt.Println("Ganymede Parse Benchmark")
	fmt.Println("========================")
	fmt.Printf("Grammar: %s (%d bytes)\n", args[0], len(data))
	fmt.Printf("Iterations: %d\n", benchFlags.iterations)
	fmt.Printf("Concurrency: %d\n", benchFlags.concurrency)
	fmt.Println()

	p := parser.NewParser().
		WithMaxFileSize(cfg.Check.MaxFileSize).
		WithMaxDepth(cfg.Check.MaxDepth)

	fmt.Println("Running...")
	fmt.Println()

	results := runParseLoad(p, data, args[0])
	displayBenchResults(results)

	return nil
}

type benchResults struct {
	iterations int
	failed     int
	duration   time.Duration
	latencies  []time.Duration
}

func runParseLoad(p *parser.Parser, data []byte, sourcePath string) *benchResults {
	iterations := benchFlags.iterations
	if iterations < 1 {
		iterations = 1
	}
	workers := benchFlags.concurrency
	if workers < 1 {
		workers = 1
	}

	results := &benchResults{
		iterations: iterations,
		latencies:  make([]time.Duration, 0, iterations),
	}

	var (
		failed int64
		done   int64
		mu     sync.Mutex
	)

	progress := cli.NewProgressReporter(nil)
	progress.Start(int64(iterations))

	jobs := make(chan struct{})
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				parseStart := time.Now()
				_, err := p.ParseBytes(data, sourcePath)
				latency := time.Since(parseStart)

				mu.Lock()
				results.latencies = append(results.latencies, latency)
				mu.Unlock()

				if err != nil {
					atomic.AddInt64(&failed, 1)
				}
				progress.Update(atomic.AddInt64(&done, 1))
			}
		}()
	}

	for i := 0; i < iterations; i++ {
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()
	progress.Finish()

	results.duration = time.Since(start)
	results.failed = int(atomic.LoadInt64(&failed))

	return results
}

func displayBenchResults(results *benchResults) {
	successful := results.iterations - results.failed

	fmt.Println()
	fmt.Println("Results:")
	fmt.Println("--------")
	fmt.Printf("Parses:          %d total, %d successful, %d failed\n",
		results.iterations, successful, results.failed)
	fmt.Printf("Duration:        %.2fs\n", results.duration.Seconds())

	if results.duration > 0 {
		throughput := float64(results.iterations) / results.duration.Seconds()
		fmt.Printf("Throughput:      %.0f parses/s\n", throughput)
	}

	if len(results.latencies) > 0 {
		min, mean, median, p95, p99, max := calculatePercentiles(results.latencies)

		fmt.Println()
		fmt.Println("Latency:")
		fmt.Printf("  Min:     %.3fms\n", float64(min.Microseconds())/1000)
		fmt.Printf("  Mean:    %.3fms\n", float64(mean.Microseconds())/1000)
		fmt.Printf("  Median:  %.3fms\n", float64(median.Microseconds())/1000)
		fmt.Printf("  p95:     %.3fms\n", float64(p95.Microseconds())/1000)
		fmt.Printf("  p99:     %.3fms\n", float64(p99.Microseconds())/1000)
		fmt.Printf("  Max:     %.3fms\n", float64(max.Microseconds())/1000)
	}

	if results.failed > 0 {
		fmt.Println()
		fmt.Println("The grammar did not parse cleanly; failed parses still count")
		fmt.Println("toward throughput. Run 'ganymede check' for the diagnostics.")
	}
}

func calculatePercentiles(latencies []time.Duration) (min, mean, median, p95, p99, max time.Duration) {
	if len(latencies) == 0 {
		return
	}

	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	min = sorted[0]
	max = sorted[len(sorted)-1]

	var sum time.Duration
	for _, latency := range sorted {
		sum += latency
	}
	mean = sum / time.Duration(len(sorted))

	median = sorted[len(sorted)/2]
	p95 = sorted[percentileIndex(len(sorted), 0.95)]
	p99 = sorted[percentileIndex(len(sorted), 0.99)]

	return
}

// percentileIndex clamps the index so small samples stay in range.
func percentileIndex(n int, q float64) int {
	idx := int(float64(n) * q)
	if idx >= n {
		idx = n - 1
	}
	return idx
}

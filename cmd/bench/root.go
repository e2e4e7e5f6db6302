package bench

import (
	"encoding/csv"
	"fmt"
	cmdUtil "github.com/ValentinKolb/dRPC/cmd/util"
	"github.com/ValentinKolb/dRPC/lib/demo"
	"github.com/ValentinKolb/dRPC/rpc/client"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

var (
	BenchCmd = &cobra.Command{
		Use:     "bench",
		Short:   "Round-trip benchmark for dRPC servers",
		Long:    `Benchmark the call round trip against a running dRPC server. One connection is dialed per thread and all calls on a connection serialize, so the throughput scales with the thread count`,
		RunE:    run,
		PreRunE: processBenchConfig,
	}
	benchPayloadSizeKB = 100
	benchNumThreads    = 10
	benchSkip          = make([]string, 0)

	// benchClients is the connection pool dialed in run, handed out
	// round-robin by nextService
	benchClients  []*client.RPCClient
	benchClientID atomic.Uint64
)

// benchResult pairs the benchmark timing with the latency distribution of
// the individual calls
type benchResult struct {
	result testing.BenchmarkResult
	hist   metrics.Histogram
}

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "skip"
	BenchCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Benchmarks to skip (comma separated - e.g. echo,add)"))
	key = "threads"
	BenchCmd.PersistentFlags().Int(key, 10, cmdUtil.WrapString("Number of threads to use for the benchmark. Each thread dials its own connection"))
	key = "payload-size"
	BenchCmd.PersistentFlags().Int(key, 100, cmdUtil.WrapString("How large the payload for the echo-large test should be (in KB)"))
	key = "csv"
	BenchCmd.Flags().String(key, "", cmdUtil.WrapString("Optional path to save benchmark results as CSV"))

	// socket tuning flags
	cmdUtil.SetupChannelFlags(BenchCmd)
}

func processBenchConfig(cmd *cobra.Command, _ []string) error {
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	benchPayloadSizeKB = viper.GetInt("payload-size")
	benchNumThreads = viper.GetInt("threads")
	benchSkip = strings.Split(viper.GetString("skip"), ",")

	if benchNumThreads < 1 {
		benchNumThreads = 1
	}

	return nil
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Round-trip benchmark for dRPC servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	config := cmdUtil.GetClientConfig()
	fmt.Println(config.String())
	fmt.Printf("Threads: %d\n", benchNumThreads)
	fmt.Println()

	// Dial one connection per thread
	defer func() {
		for _, c := range benchClients {
			_ = c.Close()
		}
	}()
	for i := 0; i < benchNumThreads; i++ {
		c, err := cmdUtil.DialClient()
		if err != nil {
			return err
		}
		benchClients = append(benchClients, c)
	}

	fmt.Println("starting benchmarks...")

	// Create results map
	results := make(map[string]benchResult)

	addHist := newLatencyHist()
	addResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("add") {
			return
		}

		b.SetParallelism(benchNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			svc := nextService()
			counter := 0
			for pb.Next() {
				start := time.Now()
				if _, err := svc.Add(int32(counter), 1); err != nil {
					log.Printf("(add) - call failed: %v\n", err)
				}
				addHist.Update(time.Since(start).Nanoseconds())
				counter++
			}
		})
	})

	results["add"] = benchResult{addResult, addHist}
	printResult("add", results["add"])

	describeHist := newLatencyHist()
	describeResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("describe") {
			return
		}

		b.SetParallelism(benchNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			svc := nextService()
			counter := 0
			for pb.Next() {
				start := time.Now()
				if _, err := svc.Describe("benchmark", int32(counter)); err != nil {
					log.Printf("(describe) - call failed: %v\n", err)
				}
				describeHist.Update(time.Since(start).Nanoseconds())
				counter++
			}
		})
	})

	results["describe"] = benchResult{describeResult, describeHist}
	printResult("describe", results["describe"])

	echoHist := newLatencyHist()
	echoResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("echo") {
			return
		}

		payload := []byte("benchmark")

		b.SetParallelism(benchNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			svc := nextService()
			for pb.Next() {
				start := time.Now()
				if _, err := svc.Echo(payload); err != nil {
					log.Printf("(echo) - call failed: %v\n", err)
				}
				echoHist.Update(time.Since(start).Nanoseconds())
			}
		})
	})

	results["echo"] = benchResult{echoResult, echoHist}
	printResult("echo", results["echo"])

	echoLargeHist := newLatencyHist()
	echoLargeResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("echo-large") {
			return
		}

		// prepare large payload
		payload := make([]byte, benchPayloadSizeKB*1024)

		b.SetParallelism(benchNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			svc := nextService()
			for pb.Next() {
				start := time.Now()
				if _, err := svc.Echo(payload); err != nil {
					log.Printf("(echo-large) - call failed: %v\n", err)
				}
				echoLargeHist.Update(time.Since(start).Nanoseconds())
			}
		})
	})

	results["echo-large"] = benchResult{echoLargeResult, echoLargeHist}
	printResult("echo-large", results["echo-large"])

	failHist := newLatencyHist()
	failResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("fail") {
			return
		}

		b.SetParallelism(benchNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			svc := nextService()
			for pb.Next() {
				start := time.Now()
				// the remote error is the expected result here
				if err := svc.Fail("benchmark"); err == nil {
					log.Printf("(fail) - expected an error, got none\n")
				}
				failHist.Update(time.Since(start).Nanoseconds())
			}
		})
	})

	results["fail"] = benchResult{failResult, failHist}
	printResult("fail", results["fail"])

	mixedHist := newLatencyHist()
	mixedResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("mixed") {
			return
		}

		payload := []byte("benchmark")

		b.SetParallelism(benchNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			svc := nextService()
			counter := 0
			for pb.Next() {
				var err error

				start := time.Now()
				switch counter % 3 {
				case 0: // add
					_, err = svc.Add(int32(counter), 1)
				case 1: // describe
					_, err = svc.Describe("benchmark", int32(counter))
				case 2: // echo
					_, err = svc.Echo(payload)
				}
				mixedHist.Update(time.Since(start).Nanoseconds())

				if err != nil {
					log.Printf("(mixed) - call %d failed: %v\n", counter%3, err)
				}
				counter++
			}
		})
	})

	results["mixed"] = benchResult{mixedResult, mixedHist}
	printResult("mixed", results["mixed"])

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, &config); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range benchSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// newLatencyHist creates a histogram for per-call latencies in nanoseconds
func newLatencyHist() metrics.Histogram {
	return metrics.NewHistogram(metrics.NewExpDecaySample(1028, 0.015))
}

// nextService hands out the pooled connections round-robin, one per parallel
// goroutine
func nextService() demo.IDemoService {
	i := benchClientID.Add(1)
	return client.NewDemoClient(benchClients[int(i)%len(benchClients)])
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, r benchResult) {
	if r.result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(r.result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// latency distribution of the individual calls
	ps := r.hist.Percentiles([]float64{0.5, 0.95, 0.99})

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\tp50=%s p95=%s p99=%s\n",
		test, nsPerOp, time.Duration(nsPerOp), opsPerSec,
		time.Duration(ps[0]), time.Duration(ps[1]), time.Duration(ps[2]))
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]benchResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec",
		"P50Ns", "P95Ns", "P99Ns", "Skipped",
		"Network", "Endpoint", "Codec", "TimeoutSec",
		"Threads", "PayloadSizeKB",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, r := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string
		ps := []float64{0, 0, 0}

		if r.result.NsPerOp() == 0 {
			skipped = "true"
			nsPerOp = 0
			opsPerSec = 0
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(r.result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
			ps = r.hist.Percentiles([]float64{0.5, 0.95, 0.99})
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			fmt.Sprintf("%.0f", ps[2]),
			skipped,
			config.Network,
			config.Endpoint,
			config.Codec,
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(benchNumThreads),
			strconv.Itoa(benchPayloadSizeKB),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}

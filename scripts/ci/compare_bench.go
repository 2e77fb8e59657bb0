// Command compare_bench compares `go test -bench` output for the search and
// note store benchmarks against a baseline run and fails when any of them
// regresses past a threshold.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	benchmarkLinePattern = regexp.MustCompile(`^(Benchmark(?:Search|NoteStoreProjection)/\S+)\s+\d+\s+(\d+(?:\.\d+)?)\s+ns/op`)
	cpuSuffixPattern     = regexp.MustCompile(`-\d+$`)
	expectedBenchmarks   = []string{
		"BenchmarkSearch/small/text-query",
		"BenchmarkSearch/small/tag-query",
		"BenchmarkSearch/large/text-query",
		"BenchmarkSearch/large/tag-query",
		"BenchmarkNoteStoreProjection/medium/filtered",
		"BenchmarkNoteStoreProjection/medium/sorted",
		"BenchmarkNoteStoreProjection/large/filtered",
		"BenchmarkNoteStoreProjection/large/sorted",
	}
)

// errRegression marks a comparison that ran but found a regression.
var errRegression = errors.New("benchmark regression over threshold")

type comparisonRow struct {
	name       string
	baselineNs float64
	currentNs  float64
	deltaPct   float64
	pass       bool
}

type compareOptions struct {
	baselinePath     string
	currentPath      string
	maxRegressionPct float64
}

func main() {
	if err := newCompareCmd().Execute(); err != nil {
		if errors.Is(err, errRegression) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

func newCompareCmd() *cobra.Command {
	opts := &compareOptions{}
	cmd := &cobra.Command{
		Use:          "compare_bench",
		Short:        "Compare benchmark output against a baseline",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.baselinePath, "baseline", "", "path to baseline benchmark output")
	cmd.Flags().StringVar(&opts.currentPath, "current", "", "path to current benchmark output")
	cmd.Flags().Float64Var(&opts.maxRegressionPct, "max-regression-pct", 20, "maximum allowed regression percent before failing")
	_ = cmd.MarkFlagRequired("baseline")
	_ = cmd.MarkFlagRequired("current")
	return cmd
}

func runCompare(out io.Writer, opts *compareOptions) error {
	if opts.maxRegressionPct < 0 {
		return errors.New("--max-regression-pct must be non-negative")
	}

	baseline, err := parseBenchmarkFile(opts.baselinePath)
	if err != nil {
		return fmt.Errorf("parse baseline: %w", err)
	}
	current, err := parseBenchmarkFile(opts.currentPath)
	if err != nil {
		return fmt.Errorf("parse current: %w", err)
	}

	rows, err := compareBenchmarks(baseline, current, opts.maxRegressionPct)
	if err != nil {
		return fmt.Errorf("compare benchmarks: %w", err)
	}

	writeMarkdownReport(rows, opts.maxRegressionPct, out)
	if stepSummary := os.Getenv("GITHUB_STEP_SUMMARY"); stepSummary != "" {
		f, err := os.OpenFile(stepSummary, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
		if err != nil {
			return fmt.Errorf("open step summary: %w", err)
		}
		defer f.Close()
		writeMarkdownReport(rows, opts.maxRegressionPct, f)
	}

	for _, row := range rows {
		if !row.pass {
			return fmt.Errorf("%s: %w", row.name, errRegression)
		}
	}
	return nil
}

func parseBenchmarkFile(path string) (map[string]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer file.Close()
	return parseBenchmarkOutput(file)
}

func parseBenchmarkOutput(r io.Reader) (map[string]float64, error) {
	results := make(map[string]float64, len(expectedBenchmarks))
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		matches := benchmarkLinePattern.FindStringSubmatch(line)
		if len(matches) != 3 {
			continue
		}

		name := cpuSuffixPattern.ReplaceAllString(matches[1], "")
		nsPerOp, err := strconv.ParseFloat(matches[2], 64)
		if err != nil {
			return nil, fmt.Errorf("parse ns/op for %q: %w", name, err)
		}
		results[name] = nsPerOp
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, errors.New("no benchmark results found for expected suites")
	}
	return results, nil
}

func compareBenchmarks(baseline, current map[string]float64, maxRegressionPct float64) ([]comparisonRow, error) {
	for _, name := range expectedBenchmarks {
		if _, ok := current[name]; !ok {
			return nil, fmt.Errorf("missing current benchmark %q", name)
		}
	}

	rows := make([]comparisonRow, 0, len(expectedBenchmarks))
	for _, name := range expectedBenchmarks {
		base, ok := baseline[name]
		if !ok {
			// No baseline yet: compare the run against itself.
			base = current[name]
		}
		if base <= 0 {
			return nil, fmt.Errorf("non-positive baseline ns/op for %q", name)
		}
		curr := current[name]
		delta := ((curr - base) / base) * 100
		rows = append(rows, comparisonRow{
			name:       name,
			baselineNs: base,
			currentNs:  curr,
			deltaPct:   delta,
			pass:       delta <= maxRegressionPct,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].name < rows[j].name
	})
	return rows, nil
}

func writeMarkdownReport(rows []comparisonRow, maxRegressionPct float64, out io.Writer) {
	fmt.Fprintf(out, "## Benchmark Comparison\n\n")
	fmt.Fprintf(out, "Allowed regression threshold: %.2f%%\n\n", maxRegressionPct)
	fmt.Fprintf(out, "| Benchmark | Baseline ns/op | Current ns/op | Delta | Result |\n")
	fmt.Fprintf(out, "|---|---:|---:|---:|---|\n")
	for _, row := range rows {
		result := "PASS"
		if !row.pass {
			result = "FAIL"
		}
		delta := 0.0
		if !math.IsNaN(row.deltaPct) && !math.IsInf(row.deltaPct, 0) {
			delta = row.deltaPct
		}
		fmt.Fprintf(out, "| %s | %.0f | %.0f | %+0.2f%% | %s |\n", row.name, row.baselineNs, row.currentNs, delta, result)
	}
	fmt.Fprintln(out)
}

// Package bench drives repeated partition runs and reports their timings.
package bench

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const Usage = `Error: invalid args. Need to specify:
    * algorithm(s)   - Single or several, separated by commas (parallel, concurrent).
    * data size(s)   - Single or several, separated by commas. In 2^n.
    * hash bits      - Single number or range (e.g. 1-6, end exclusive).
    * num threads    - Single number or range.
    * repeats        - Number of times to repeat each test.
    * test integrity - 'test' (optional).
    * json report    - 'json' (optional).`

// maxSizeExponent bounds data sizes to what fits an int.
const maxSizeExponent = 62

var ErrUsage = errors.New("invalid arguments")

// Args is the parsed command line of a benchmark session.
type Args struct {
	Algorithms []string
	DataSizes  []int // Record counts, already expanded from their exponents.
	HashBits   []int
	Threads    []int
	Repeats    int
	Test       bool // Verify the integrity of every run.
	JSON       bool // Emit one JSON report line per combination.
}

// ParseArgs parses positional arguments, excluding the program name:
//
//	<algorithms> <data_sizes> <hash_bits> <thread_counts> <repeats> [test] [json]
func ParseArgs(args []string) (Args, error) {
	if len(args) < 5 {
		return Args{}, fmt.Errorf("%w: expected at least 5 arguments, got %d", ErrUsage, len(args))
	}
	var (
		a    Args
		errs []error
		err  error
	)
	a.Algorithms = strings.Split(args[0], ",")
	if a.DataSizes, err = parseSizes(args[1]); err != nil {
		errs = append(errs, fmt.Errorf("data sizes: %w", err))
	}
	if a.HashBits, err = parseRange(args[2]); err != nil {
		errs = append(errs, fmt.Errorf("hash bits: %w", err))
	}
	if a.Threads, err = parseRange(args[3]); err != nil {
		errs = append(errs, fmt.Errorf("thread counts: %w", err))
	}
	if a.Repeats, err = strconv.Atoi(args[4]); err != nil || a.Repeats < 1 {
		errs = append(errs, fmt.Errorf("repeats: must be a positive integer, got %q", args[4]))
	}
	for _, flag := range args[5:] {
		switch flag {
		case "test":
			a.Test = true
		case "json":
			a.JSON = true
		default:
			errs = append(errs, fmt.Errorf("unknown option %q", flag))
		}
	}
	if len(errs) > 0 {
		return Args{}, fmt.Errorf("%w: %w", ErrUsage, errors.Join(errs...))
	}
	return a, nil
}

// parseSizes expands comma separated exponents into sizes of 2^n.
func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, field := range strings.Split(s, ",") {
		exp, err := strconv.Atoi(field)
		if err != nil || exp < 0 || exp > maxSizeExponent {
			return nil, fmt.Errorf("invalid exponent %q", field)
		}
		sizes = append(sizes, 1<<exp)
	}
	return sizes, nil
}

// parseRange parses either a single non-negative integer or a range "a-b"
// covering a up to, but excluding, b.
func parseRange(s string) ([]int, error) {
	lo, hi, isRange := strings.Cut(s, "-")
	start, err := strconv.Atoi(lo)
	if err != nil || start < 0 {
		return nil, fmt.Errorf("invalid number %q", lo)
	}
	if !isRange {
		return []int{start}, nil
	}
	end, err := strconv.Atoi(hi)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", hi)
	}
	if end <= start {
		return nil, fmt.Errorf("empty range %q", s)
	}
	values := make([]int, 0, end-start)
	for v := start; v < end; v++ {
		values = append(values, v)
	}
	return values, nil
}

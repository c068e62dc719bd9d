// Command partbench benchmarks the lock-free partitioning strategies.
//
// Usage:
//
//	partbench <algorithms> <data_sizes> <hash_bits> <thread_counts> <repeats> [test] [json]
//
// For example, to compare both strategies on 2^20 and 2^24 records with
// 1 to 7 hash bits and 1 to 8 threads, repeating every combination 10 times:
//
//	partbench parallel,concurrent 20,24 1-8 1-9 10 test
package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/holmberd/go-partition/internal/bench"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	parsed, err := bench.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(stderr, bench.Usage)
		fmt.Fprintln(stderr, err)
		return 2
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	logger := zap.Must(cfg.Build())
	defer logger.Sync()

	r := bench.Runner{Out: stdout, Logger: logger}
	if err := r.Run(parsed); err != nil {
		logger.Error("benchmark failed", zap.Error(err))
		return 1
	}
	return 0
}

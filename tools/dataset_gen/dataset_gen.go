// Command dataset_gen emits deterministic key workloads used to drive
// the benchmarks in bench/ and ad hoc soak runs against the cache. It
// lives outside the library's own import path (pkg) — it is
// operator/benchmark tooling, not part of the cache's public surface.
//
// Three distributions are supported:
//
//	uniform        — independent uniformly-random uint64 keys.
//	zipf           — Zipf-distributed keys (skewed towards a hot set).
//	scan-then-hot  — a short "hot" prefix of size -hot, referenced -reps
//	                 times each (to become HOT under CLOCK-Pro), followed
//	                 by a long one-shot scan of -n distinct cold keys —
//	                 the workload shape that exercises scan resistance.
//
// Usage:
//
//	go run ./tools/dataset_gen -n 1000000 -dist=zipf -seed=42 -out keys.txt
//
// © 2025 clockpro-cache authors. MIT License.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
)

func main() {
	var (
		n       = flag.Int("n", 1_000_000, "number of keys to generate (scan length for scan-then-hot)")
		dist    = flag.String("dist", "uniform", "distribution: uniform, zipf, or scan-then-hot")
		zipfS   = flag.Float64("zipfs", 1.2, "zipf s parameter (>1)")
		zipfV   = flag.Float64("zipfv", 1.0, "zipf v parameter (>0)")
		hot     = flag.Int("hot", 16, "size of the hot prefix (scan-then-hot only)")
		reps    = flag.Int("reps", 4, "references per hot key before the scan (scan-then-hot only)")
		seedVal = flag.Int64("seed", 1, "PRNG seed")
		outPath = flag.String("out", "", "output file (default stdout)")
	)
	flag.Parse()

	rnd := rand.New(rand.NewSource(*seedVal))

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create file:", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriterSize(out, 1<<20)
	defer w.Flush()

	switch *dist {
	case "uniform":
		for i := 0; i < *n; i++ {
			fmt.Fprintln(w, rnd.Uint64())
		}
	case "zipf":
		if *zipfS <= 1.0 || *zipfV <= 0 {
			fmt.Fprintln(os.Stderr, "zipfs must be >1 and zipfv >0")
			os.Exit(1)
		}
		z := rand.NewZipf(rnd, *zipfS, *zipfV, ^uint64(0))
		for i := 0; i < *n; i++ {
			fmt.Fprintln(w, z.Uint64())
		}
	case "scan-then-hot":
		for k := 0; k < *hot; k++ {
			for r := 0; r < *reps; r++ {
				fmt.Fprintln(w, uint64(k))
			}
		}
		for i := 0; i < *n; i++ {
			fmt.Fprintln(w, uint64(*hot)+uint64(i))
		}
	default:
		fmt.Fprintln(os.Stderr, "unknown dist:", *dist)
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/tierkv/tierkv/client"
	"github.com/tierkv/tierkv/internal/storage"
)

var (
	benchAmount    int
	benchReads     bool
	benchThreshold int
	benchMemtable  string
	benchRemote    string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a write/read benchmark",
	Long: `Run a write/read benchmark against an in-process tree, or against
a running server over HTTP when --remote is set.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVarP(&benchAmount, "amount", "n", 100000, "Number of key-value pairs to write")
	benchCmd.Flags().BoolVar(&benchReads, "read", true, "Also benchmark reading every key back")
	benchCmd.Flags().IntVar(&benchThreshold, "flush-threshold", storage.DefaultConfig().FlushThreshold, "Memtable entry count that triggers a flush")
	benchCmd.Flags().StringVar(&benchMemtable, "memtable", storage.MemtableSkipList, "Memtable implementation (skiplist or rbtree)")
	benchCmd.Flags().StringVar(&benchRemote, "remote", "", "Benchmark a running server at this address instead of an in-process tree")
}

func runBench(cmd *cobra.Command, args []string) error {
	if benchRemote != "" {
		return runRemoteBench()
	}
	return runLocalBench()
}

func runLocalBench() error {
	tree, err := storage.New(storage.Config{
		FlushThreshold: benchThreshold,
		Memtable:       benchMemtable,
	})
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	fmt.Printf("writing %d key-value pairs\n", benchAmount)
	keys := make([][]byte, benchAmount)
	start := time.Now()
	for i := 0; i < benchAmount; i++ {
		key := []byte(fmt.Sprintf("key-%d-%d", i, rng.Int63()))
		tree.Insert(key, []byte(fmt.Sprintf("val-%d", i)))
		keys[i] = key
	}
	writeTime := time.Since(start)
	fmt.Printf("writes took %v (%.0f ops/s)\n", writeTime, float64(benchAmount)/writeTime.Seconds())

	if benchReads {
		start = time.Now()
		misses := 0
		for _, key := range keys {
			if _, ok := tree.Get(key); !ok {
				misses++
			}
		}
		readTime := time.Since(start)
		fmt.Printf("reads took %v (%.0f ops/s), %d misses\n", readTime, float64(benchAmount)/readTime.Seconds(), misses)
	}

	stats := tree.Stats()
	fmt.Printf("flushes=%d cascades=%d levels=%d entries=%d\n",
		stats.Flushes, stats.Cascades, len(stats.Levels), stats.MemtableEntries+stats.TotalEntries)
	return nil
}

func runRemoteBench() error {
	c := client.New(benchRemote, client.DefaultRetryConfig())
	if err := c.Health(); err != nil {
		return fmt.Errorf("server at %s not reachable: %w", benchRemote, err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	fmt.Printf("writing %d key-value pairs to %s\n", benchAmount, benchRemote)
	keys := make([]string, benchAmount)
	start := time.Now()
	for i := 0; i < benchAmount; i++ {
		key := fmt.Sprintf("key-%d-%d", i, rng.Int63())
		if err := c.Set(key, []byte(fmt.Sprintf("val-%d", i))); err != nil {
			return fmt.Errorf("set %s failed: %w", key, err)
		}
		keys[i] = key
	}
	writeTime := time.Since(start)
	fmt.Printf("writes took %v (%.0f ops/s)\n", writeTime, float64(benchAmount)/writeTime.Seconds())

	if benchReads {
		start = time.Now()
		misses := 0
		for _, key := range keys {
			if _, err := c.Get(key); err != nil {
				misses++
			}
		}
		readTime := time.Since(start)
		fmt.Printf("reads took %v (%.0f ops/s), %d misses\n", readTime, float64(benchAmount)/readTime.Seconds(), misses)
	}

	stats, err := c.Stats()
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}
	fmt.Printf("flushes=%d cascades=%d levels=%d entries=%d\n",
		stats.Flushes, stats.Cascades, len(stats.Levels), stats.MemtableEntries+stats.TotalEntries)
	return nil
}

package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestBatchClientMixedOps(t *testing.T) {
	server := setupTestServer(t)
	c := New(server.URL, quickRetry())

	writes := NewBatchClient(c, 8)
	for i := 0; i < 10; i++ {
		writes.Set(fmt.Sprintf("key_%d", i), []byte(fmt.Sprintf("value_%d", i)))
	}
	for _, result := range writes.Wait() {
		if result.Err != nil {
			t.Fatalf("batched set of %s failed: %v", result.Key, result.Err)
		}
	}

	reads := NewBatchClient(c, 8)
	for i := 0; i < 10; i++ {
		reads.Get(fmt.Sprintf("key_%d", i))
	}
	reads.Get("missing")

	results := reads.Wait()
	if len(results) != 11 {
		t.Fatalf("got %d results, want 11", len(results))
	}
	for _, result := range results {
		if result.Key == "missing" {
			if !errors.Is(result.Err, ErrKeyNotFound) {
				t.Errorf("missing key result = %v, want ErrKeyNotFound", result.Err)
			}
			continue
		}
		if result.Err != nil {
			t.Errorf("batched get of %s failed: %v", result.Key, result.Err)
			continue
		}
		want := "value_" + result.Key[len("key_"):]
		if string(result.Value) != want {
			t.Errorf("batched get of %s = %q, want %q", result.Key, result.Value, want)
		}
	}
}

func TestBatchClientDelete(t *testing.T) {
	server := setupTestServer(t)
	c := New(server.URL, quickRetry())

	if err := c.Set("doomed", []byte("x")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	batch := NewBatchClient(c, 2)
	batch.Delete("doomed")
	for _, result := range batch.Wait() {
		if result.Err != nil {
			t.Fatalf("batched delete failed: %v", result.Err)
		}
	}

	if _, err := c.Get("doomed"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get after batched delete = %v, want ErrKeyNotFound", err)
	}
}

func TestLoadTest(t *testing.T) {
	server := setupTestServer(t)
	c := New(server.URL, quickRetry())

	if err := LoadTest(c, 200, 20); err != nil {
		t.Fatalf("LoadTest failed: %v", err)
	}

	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if got := stats.MemtableEntries + stats.TotalEntries; got != 200 {
		t.Errorf("entries after load = %d, want 200", got)
	}
}

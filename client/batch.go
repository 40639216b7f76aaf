package client

import (
	"fmt"
	"strings"
	"sync"
)

type opKind int

const (
	opSet opKind = iota
	opGet
	opDelete
)

type batchOp struct {
	kind  opKind
	key   string
	value []byte
}

// BatchResult is the outcome of one batched operation.
type BatchResult struct {
	Key   string
	Value []byte
	Err   error
}

// BatchClient fans batched operations out over a Client and collects
// their results.
type BatchClient struct {
	client    *Client
	batchCh   chan batchOp
	resultsCh chan BatchResult
	wg        sync.WaitGroup
}

// NewBatchClient creates a batch client buffering up to batchSize
// pending operations.
func NewBatchClient(client *Client, batchSize int) *BatchClient {
	bc := &BatchClient{
		client:    client,
		batchCh:   make(chan batchOp, batchSize),
		resultsCh: make(chan BatchResult, batchSize),
	}

	go bc.processBatch()

	return bc
}

// Set queues a set operation
func (bc *BatchClient) Set(key string, value []byte) {
	bc.wg.Add(1)
	bc.batchCh <- batchOp{kind: opSet, key: key, value: value}
}

// Get queues a get operation
func (bc *BatchClient) Get(key string) {
	bc.wg.Add(1)
	bc.batchCh <- batchOp{kind: opGet, key: key}
}

// Delete queues a delete operation
func (bc *BatchClient) Delete(key string) {
	bc.wg.Add(1)
	bc.batchCh <- batchOp{kind: opDelete, key: key}
}

// Wait blocks until every queued operation has finished and returns
// their results. The batch client cannot be reused afterwards.
func (bc *BatchClient) Wait() []BatchResult {
	// Drain results while waiting so workers never stall on a full
	// results channel.
	go func() {
		bc.wg.Wait()
		close(bc.batchCh)
	}()

	var results []BatchResult
	for res := range bc.resultsCh {
		results = append(results, res)
	}
	return results
}

func (bc *BatchClient) processBatch() {
	for op := range bc.batchCh {
		go func(op batchOp) {
			defer bc.wg.Done()

			result := BatchResult{Key: op.key}
			switch op.kind {
			case opSet:
				result.Err = bc.client.Set(op.key, op.value)
			case opGet:
				result.Value, result.Err = bc.client.Get(op.key)
			case opDelete:
				result.Err = bc.client.Delete(op.key)
			}

			bc.resultsCh <- result
		}(op)
	}
	close(bc.resultsCh)
}

// LoadTest writes numRequests keys through a batch client and reads
// them all back, returning the first failure it sees.
func LoadTest(c *Client, numRequests int, batchSize int) error {
	writes := NewBatchClient(c, batchSize)
	for i := 0; i < numRequests; i++ {
		writes.Set(fmt.Sprintf("key_%d", i), []byte(fmt.Sprintf("value_%d", i)))
	}
	for _, result := range writes.Wait() {
		if result.Err != nil {
			return fmt.Errorf("set %s failed: %w", result.Key, result.Err)
		}
	}

	reads := NewBatchClient(c, batchSize)
	for i := 0; i < numRequests; i++ {
		reads.Get(fmt.Sprintf("key_%d", i))
	}
	for _, result := range reads.Wait() {
		if result.Err != nil {
			return fmt.Errorf("get %s failed: %w", result.Key, result.Err)
		}
		want := "value_" + strings.TrimPrefix(result.Key, "key_")
		if string(result.Value) != want {
			return fmt.Errorf("get %s returned %q, want %q", result.Key, result.Value, want)
		}
	}
	return nil
}

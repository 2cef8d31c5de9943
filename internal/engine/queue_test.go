package engine

import (
	"sync"
	"testing"
)

func TestQueueFIFO(t *testing.T) {
	var q queue[int]
	for i := 0; i < 5; i++ {
		q.Push(i)
	}
	if q.Len() != 5 {
		t.Fatalf("got len %d, want 5", q.Len())
	}
	for i := 0; i < 5; i++ {
		v, ok := q.Pop()
		if !ok {
			t.Fatalf("pop %d: queue unexpectedly empty", i)
		}
		if v != i {
			t.Errorf("pop %d: got %d, want oldest-first order", i, v)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Error("drained queue must report empty")
	}
}

func TestQueueInterleaved(t *testing.T) {
	var q queue[string]
	q.Push("a")
	q.Push("b")
	if v, _ := q.Pop(); v != "a" {
		t.Errorf("got %q, want a", v)
	}
	q.Push("c")
	if v, _ := q.Pop(); v != "b" {
		t.Errorf("got %q, want b", v)
	}
	if v, _ := q.Pop(); v != "c" {
		t.Errorf("got %q, want c", v)
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	const perProducer = 100

	var q queue[[2]int]
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push([2]int{p, i})
			}
		}(p)
	}
	wg.Wait()

	if q.Len() != 4*perProducer {
		t.Fatalf("got len %d, want %d", q.Len(), 4*perProducer)
	}

	// Per-producer order must survive interleaving.
	last := map[int]int{0: -1, 1: -1, 2: -1, 3: -1}
	for {
		item, ok := q.Pop()
		if !ok {
			break
		}
		p, i := item[0], item[1]
		if i <= last[p] {
			t.Fatalf("producer %d: saw %d after %d", p, i, last[p])
		}
		last[p] = i
	}
	for p, v := range last {
		if v != perProducer-1 {
			t.Errorf("producer %d: last item %d, want %d", p, v, perProducer-1)
		}
	}
}

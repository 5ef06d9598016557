package parallel

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 4}

	var counter int64
	n := 1000
	seen := make([]bool, n)

	For(n, func(i int) {
		atomic.AddInt64(&counter, 1)
		seen[i] = true
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
	for i, ok := range seen {
		if !ok {
			t.Fatalf("index %d was never visited", i)
		}
	}
}

func TestFor_Sequential(t *testing.T) {
	var order []int
	For(10, func(i int) {
		order = append(order, i)
	}, Sequential())

	for i, got := range order {
		if got != i {
			t.Fatalf("sequential order = %v", order)
		}
	}
	if len(order) != 10 {
		t.Errorf("Expected 10 calls, got %d", len(order))
	}
}

func TestFor_Empty(t *testing.T) {
	For(0, func(int) { t.Error("f should not be called for n = 0") }, DefaultConfig())
}

func TestForEach(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1}

	var counter int64
	if err := ForEach(20, func(int) error {
		atomic.AddInt64(&counter, 1)
		return nil
	}, cfg); err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	if counter != 20 {
		t.Errorf("Expected 20 calls, got %d", counter)
	}
}

func TestForEach_Error(t *testing.T) {
	errBoom := errors.New("boom")

	for _, cfg := range []Config{Sequential(), {Enabled: true, NumWorkers: 4, MinChunkSize: 1}} {
		err := ForEach(16, func(i int) error {
			if i == 5 {
				return errBoom
			}
			return nil
		}, cfg)
		if !errors.Is(err, errBoom) {
			t.Errorf("ForEach(%+v) = %v, want %v", cfg, err, errBoom)
		}
	}
}

func TestForEach_SequentialStopsEarly(t *testing.T) {
	calls := 0
	_ = ForEach(10, func(i int) error {
		calls++
		if i == 2 {
			return errors.New("stop")
		}
		return nil
	}, Sequential())

	if calls != 3 {
		t.Errorf("Expected 3 calls before stopping, got %d", calls)
	}
}

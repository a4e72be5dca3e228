package compute

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestDispatchCoversRange(t *testing.T) {
	backends := []Backend{
		NewSerialBackend(),
		NewCPUBackendWorkers(1),
		NewCPUBackendWorkers(4),
		NewCPUBackendWorkers(64),
	}

	for _, b := range backends {
		for _, n := range []int{0, 1, 15, 16, 17, 100, 1023} {
			counts := make([]int32, n)
			err := b.Dispatch(context.Background(), n, func(start, end int) error {
				if start >= end {
					t.Errorf("%s: empty range [%d,%d)", b.Name(), start, end)
				}
				for i := start; i < end; i++ {
					atomic.AddInt32(&counts[i], 1)
				}
				return nil
			})
			if err != nil {
				t.Fatalf("%s n=%d: %v", b.Name(), n, err)
			}
			for i, c := range counts {
				if c != 1 {
					t.Errorf("%s n=%d: index %d visited %d times", b.Name(), n, i, c)
				}
			}
		}
	}
}

func TestDispatchPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	for _, b := range []Backend{NewSerialBackend(), NewCPUBackendWorkers(4)} {
		err := b.Dispatch(context.Background(), 200, func(start, end int) error {
			if start <= 50 && 50 < end {
				return boom
			}
			return nil
		})
		if !errors.Is(err, boom) {
			t.Errorf("%s: got %v, want boom", b.Name(), err)
		}
	}
}

func TestDispatchCanceled(t *testing.T) {
	for _, b := range []Backend{NewSerialBackend(), NewCPUBackendWorkers(4)} {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var calls int32
		err := b.Dispatch(ctx, 500, func(start, end int) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s: got %v, want context.Canceled", b.Name(), err)
		}
		if calls != 0 {
			t.Errorf("%s: %d ranges ran after cancel", b.Name(), calls)
		}
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"serial", "serial", false},
		{"cpu", "cpu", false},
		{"gpu", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ByName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if err == nil && b.Name() != tt.want {
				t.Errorf("got %s, want %s", b.Name(), tt.want)
			}
		})
	}

	if b, err := ByName("auto"); err != nil || b == nil {
		t.Errorf("auto: %v %v", b, err)
	}
}

func TestSetBackend(t *testing.T) {
	prev := GetBackend()
	defer SetBackend(prev)

	s := NewSerialBackend()
	SetBackend(s)
	if GetBackend() != Backend(s) {
		t.Error("SetBackend did not take effect")
	}
}

package mobileservice

import (
	"errors"
	"sync"
	"testing"
)

func TestFutureCompletesOnce(t *testing.T) {
	f := newFuture()
	first := &Response{StatusCode: 200}
	f.complete(first, nil)
	f.complete(&Response{StatusCode: 500}, errors.New("late"))

	resp, err := f.Result()
	if err != nil {
		t.Fatalf("Result error = %v", err)
	}
	if resp != first {
		t.Fatal("later completions must be ignored")
	}
}

func TestFutureMultipleObservers(t *testing.T) {
	f := newFuture()

	var wg sync.WaitGroup
	results := make([]*Response, 4)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = f.Result()
		}()
	}

	want := &Response{StatusCode: 204}
	f.complete(want, nil)
	wg.Wait()

	for i, got := range results {
		if got != want {
			t.Fatalf("observer %d got %v, want %v", i, got, want)
		}
	}
}

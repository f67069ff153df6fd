package mobileservice

import "sync"

// Future is the asynchronous handle returned by Connection.Start. It
// completes exactly once; any number of observers may wait on Done or
// block in Result.
type Future struct {
	done chan struct{}
	once sync.Once
	resp *Response
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// complete resolves the future. Calls after the first are ignored.
func (f *Future) complete(resp *Response, err error) {
	f.once.Do(func() {
		f.resp = resp
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed when the future completes.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the future completes and returns its outcome.
func (f *Future) Result() (*Response, error) {
	<-f.done
	return f.resp, f.err
}

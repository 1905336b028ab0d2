package sywclient

import (
	"context"

	"github.com/ansel1/merry"
	"github.com/sourcegraph/conc/panics"
)

// Promise is the pending outcome of a call started with GetAsync or
// PostAsync.  It settles exactly once.  On success it resolves with the
// decoded data; otherwise it rejects with the call's error, the same
// value a Callback would receive.
type Promise struct {
	done   chan struct{}
	result *Result
}

func newPromise(call func() *Result) *Promise {
	p := &Promise{done: make(chan struct{})}
	go func() {
		defer close(p.done)

		var res *Result
		var pc panics.Catcher
		pc.Try(func() { res = call() })
		if rec := pc.Recovered(); rec != nil {
			err := merry.Prepend(rec.AsError(), "request panicked")
			res = &Result{Kind: KindTransport, Err: withKind(err, KindTransport)}
		}
		p.result = res
	}()
	return p
}

// Done is closed once the promise has settled.
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Await blocks until the promise settles or ctx is done.  It returns the
// decoded data on success, and a nil data with the error on failure.
//
// Giving up on ctx does not cancel the call itself; pass a cancelable
// context to GetAsync/PostAsync for that.
func (p *Promise) Await(ctx context.Context) (interface{}, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		return nil, merry.Prepend(ctx.Err(), "awaiting response")
	}
	if p.result.Err != nil {
		return nil, p.result.Err
	}
	return p.result.Data, nil
}

// Result returns the full result, or nil if the promise has not settled yet.
func (p *Promise) Result() *Result {
	select {
	case <-p.done:
		return p.result
	default:
		return nil
	}
}

// Then invokes cb with the settled result, blocking until the promise
// settles.
func (p *Promise) Then(cb Callback) {
	mustCallback(cb)
	<-p.done
	p.result.deliver(cb)
}

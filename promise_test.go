package sywclient

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/ansel1/merry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestClient_Async(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := MustNew(MockDoer(200, `{"x":1}`))

	p := c.GetAsync(context.Background(), "/foo", nil)
	data, err := p.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"x": 1.0}, data)

	res := p.Result()
	require.NotNil(t, res)
	assert.Equal(t, KindNone, res.Kind)
	assert.Equal(t, 200, res.Response.StatusCode)

	p = c.PostAsync(context.Background(), "/foo", Params{"a": 1})
	data, err = p.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"x": 1.0}, data)
}

func TestPromise_reject(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := MustNew(MockDoer(500, `{"errors":["down"]}`))

	data, err := c.GetAsync(context.Background(), "/foo", nil).Await(context.Background())
	require.Error(t, err)
	assert.Nil(t, data)
	assert.True(t, IsAPI(err))

	// the rejection is the same value a callback receives
	var cbErr error
	c.GetFunc(context.Background(), "/foo", nil, func(err error, _ interface{}, _ *http.Response) {
		cbErr = err
	})
	assert.Equal(t, cbErr, err)
}

func TestPromise_pending(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	in, doer := ChannelDoer()
	c := MustNew(doer)

	p := c.GetAsync(context.Background(), "/foo", nil)

	assert.Nil(t, p.Result())
	select {
	case <-p.Done():
		t.Fatal("promise settled before a response was sent")
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Await(ctx)
	require.Error(t, err)
	assert.True(t, merry.Is(err, context.DeadlineExceeded))

	in <- MockResponse(200, `{"late":true}`)

	data, err := p.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"late": true}, data)
}

func TestPromise_Then(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := MustNew(MockDoer(404, `{}`))

	var calls int
	c.GetAsync(context.Background(), "/foo", nil).Then(func(err error, data interface{}, resp *http.Response) {
		calls++
		assert.True(t, IsHTTPStatus(err))
		assert.Equal(t, map[string]interface{}{}, data)
		assert.Equal(t, 404, resp.StatusCode)
	})
	assert.Equal(t, 1, calls)
}

func TestPromise_panic(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := MustNew(DoerFunc(func(*http.Request) (*http.Response, error) {
		panic("kaboom")
	}))

	_, err := c.GetAsync(context.Background(), "/foo", nil).Await(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Contains(t, err.Error(), "request panicked")
	assert.Contains(t, err.Error(), "kaboom")
}

func TestPromise_concurrent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := MustNew(MockDoer(200, `{}`))

	var wg sync.WaitGroup
	promises := make([]*Promise, 20)
	for n := range promises {
		promises[n] = c.GetAsync(context.Background(), "/foo", Params{"n": n})
	}
	for _, p := range promises {
		wg.Add(1)
		go func(p *Promise) {
			defer wg.Done()
			_, err := p.Await(context.Background())
			assert.NoError(t, err)
		}(p)
	}
	wg.Wait()
}

package httptestutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/ThalesGroup/sywclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(c *sywclient.Client, path string) {
	_, _, _ = c.Get(context.Background(), path, nil)
}

func TestNewInspector(t *testing.T) {
	i := NewInspector(0)

	ts := httptest.NewServer(sywclient.MockHandler(201, `{}`))
	defer ts.Close()

	origHandler := ts.Config.Handler

	ts.Config.Handler = i.Wrap(origHandler)

	get(Client(ts), "/test")
	get(Client(ts), "/test")

	assert.Len(t, i.Exchanges, 2)

	i = NewInspector(5)

	ts.Config.Handler = i.Wrap(origHandler)

	// run ten requests
	for n := 0; n < 10; n++ {
		get(Client(ts), "/test")
	}

	// channel should only have buffered 5
	assert.Len(t, i.Exchanges, 5)
}

func TestInspector(t *testing.T) {
	ts := httptest.NewServer(sywclient.MockHandler(201, `{"pong":true}`))
	defer ts.Close()

	is := Inspect(ts)

	_, resp, err := Client(ts).Post(context.Background(), "/test", sywclient.Params{"msg": "ping"})
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	ex := is.LastExchange()
	require.NotNil(t, ex)
	assert.Equal(t, "/test", ex.Request.URL.Path)
	assert.Equal(t, "msg=ping", ex.RequestBody.String())
	assert.Equal(t, 201, ex.StatusCode)
	assert.Equal(t, sywclient.MediaTypeJSON, ex.Header.Get(sywclient.HeaderContentType))
	assert.Equal(t, `{"pong":true}`, ex.ResponseBody.String())
}

func TestExchange_Params(t *testing.T) {
	tests := []struct {
		name   string
		method string
		params sywclient.Params
		want   map[string][]string
	}{
		{
			name:   "query",
			method: sywclient.MethodGet,
			params: sywclient.Params{"ids": "1,2"},
			want:   map[string][]string{"ids": {"1,2"}},
		},
		{
			name:   "form",
			method: sywclient.MethodPost,
			params: sywclient.Params{"userId": 42},
			want:   map[string][]string{"userId": {"42"}},
		},
		{
			name:   "multipart",
			method: sywclient.MethodPost,
			params: sywclient.Params{"media": strings.NewReader("PNG"), "caption": "me"},
			want:   map[string][]string{"media": {"PNG"}, "caption": {"me"}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(sywclient.MockHandler(200, `{}`))
			defer ts.Close()

			is := Inspect(ts)
			c := Client(ts, sywclient.OfflineToken("tok", "h"))

			res := c.Do(context.Background(), tc.method, "/test", tc.params)
			require.NoError(t, res.Err)

			ex := is.LastExchange()
			require.NotNil(t, ex)
			params, err := ex.Params()
			require.NoError(t, err)

			assert.Equal(t, "tok", params.Get(sywclient.ParamToken))
			assert.Equal(t, "h", params.Get(sywclient.ParamHash))
			for k, v := range tc.want {
				assert.Equal(t, v, params[k], k)
			}
		})
	}
}

func pongCounter() http.Handler {
	var count int
	return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(201)
		_, _ = writer.Write([]byte(`"pong` + strconv.Itoa(count) + `"`))
		count++
	})
}

func TestInspector_NextExchange(t *testing.T) {
	ts := httptest.NewServer(pongCounter())
	defer ts.Close()

	is := Inspect(ts)

	get(Client(ts), "/test")
	get(Client(ts), "/test")
	get(Client(ts), "/test")

	var exchanges []*Exchange

	for {
		ex := is.NextExchange()
		if ex == nil {
			break
		}
		exchanges = append(exchanges, ex)
	}

	require.Len(t, exchanges, 3)
	assert.Equal(t, `"pong0"`, exchanges[0].ResponseBody.String())
	assert.Equal(t, `"pong1"`, exchanges[1].ResponseBody.String())
	assert.Equal(t, `"pong2"`, exchanges[2].ResponseBody.String())
}

func TestInspector_LastExchange(t *testing.T) {
	ts := httptest.NewServer(pongCounter())
	defer ts.Close()

	is := Inspect(ts)

	get(Client(ts), "/test")
	get(Client(ts), "/test")
	get(Client(ts), "/test")

	ex := is.LastExchange()

	require.NotNil(t, ex)
	assert.Equal(t, `"pong2"`, ex.ResponseBody.String())

	require.Nil(t, is.LastExchange())
}

func TestInspector_Drain(t *testing.T) {
	ts := httptest.NewServer(pongCounter())
	defer ts.Close()

	is := Inspect(ts)

	get(Client(ts), "/test")
	get(Client(ts), "/test")
	get(Client(ts), "/test")

	drain := is.Drain()

	require.Len(t, drain, 3)
	assert.Equal(t, `"pong1"`, drain[1].ResponseBody.String())
	require.Nil(t, is.LastExchange())
}

func TestInspector_Clear(t *testing.T) {
	ts := httptest.NewServer(pongCounter())
	defer ts.Close()

	is := Inspect(ts)

	get(Client(ts), "/test")
	get(Client(ts), "/test")
	get(Client(ts), "/test")

	require.Len(t, is.Exchanges, 3)

	is.Clear()

	require.Empty(t, is.Exchanges)

	t.Run("nil", func(t *testing.T) {
		var i *Inspector
		assert.NotPanics(t, func() {
			i.Clear()
		})
	})
}

func TestInspector_readFrom(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(sywclient.HeaderContentType, sywclient.MediaTypeJSON)
		w.WriteHeader(201)
		readerFrom := w.(io.ReaderFrom)
		_, _ = readerFrom.ReadFrom(strings.NewReader(`{"a":`))
		_, _ = readerFrom.ReadFrom(strings.NewReader(`"kilroy"}`))
	}))
	defer ts.Close()

	i := Inspect(ts)

	data, _, err := Client(ts).Get(context.Background(), "/test", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": "kilroy"}, data)
	assert.Equal(t, `{"a":"kilroy"}`, i.LastExchange().ResponseBody.String())
}

func TestInspector_implicitStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	i := Inspect(ts)

	get(Client(ts), "/test")

	ex := i.LastExchange()
	require.NotNil(t, ex)
	assert.Equal(t, 200, ex.StatusCode)
}

func TestInspect_nilhandler(t *testing.T) {
	ts := httptest.NewServer(nil)
	defer ts.Close()

	i := Inspect(ts)

	get(Client(ts), "/")

	require.NotNil(t, i.LastExchange())
}

func ExampleInspector_Wrap() {
	mux := http.NewServeMux()
	// configure mux...

	i := NewInspector(0)

	ts := httptest.NewServer(i.Wrap(mux))
	defer ts.Close()
}

func ExampleInspector_NextExchange() {
	i := NewInspector(0)

	var h http.Handler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = writer.Write([]byte(`{}`))
	})

	ts := httptest.NewServer(i.Wrap(h))
	defer ts.Close()

	c := Client(ts)
	_, _, _ = c.Post(context.Background(), "/", sywclient.Params{"n": 1})
	_, _, _ = c.Post(context.Background(), "/", sywclient.Params{"n": 2})

	fmt.Println(i.NextExchange().RequestBody.String())
	fmt.Println(i.NextExchange().RequestBody.String())
	fmt.Println(i.NextExchange())

	// Output:
	// n=1
	// n=2
	// <nil>
}

func ExampleInspector_LastExchange() {
	i := NewInspector(0)

	var h http.Handler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = writer.Write([]byte(`{}`))
	})

	ts := httptest.NewServer(i.Wrap(h))
	defer ts.Close()

	c := Client(ts)
	_, _, _ = c.Post(context.Background(), "/", sywclient.Params{"n": 1})
	_, _, _ = c.Post(context.Background(), "/", sywclient.Params{"n": 2})

	fmt.Println(i.LastExchange().RequestBody.String())
	fmt.Println(i.LastExchange())

	// Output:
	// n=2
	// <nil>
}

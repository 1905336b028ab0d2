package clientserver

import (
	"context"
	"net/http"
	"testing"

	"github.com/ThalesGroup/sywclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pong(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(201)
	_, _ = writer.Write([]byte(`"pong"`))
}

func TestClientServer_InspectServer(t *testing.T) {
	cs := NewServer(nil)
	defer cs.Close()

	cs.HandlerFunc(pong)

	ctx := context.Background()
	_, _, err := cs.Client().Post(ctx, "/", sywclient.Params{"msg": "ping"})
	require.NoError(t, err)

	is := cs.InspectServer()

	// no capturing should be happening before the first call to InspectServer
	assert.Empty(t, is.Exchanges)

	_, _, err = cs.Client().Post(ctx, "/", sywclient.Params{"msg": "ping"})
	require.NoError(t, err)

	ex := is.LastExchange()
	require.NotNil(t, ex)
	assert.NotNil(t, ex.Request)
	assert.Equal(t, "msg=ping", ex.RequestBody.String())
	assert.Equal(t, `"pong"`, ex.ResponseBody.String())
}

func TestClientServer_InspectClient(t *testing.T) {
	cs := NewServer(nil)
	defer cs.Close()

	cs.HandlerFunc(pong)

	ctx := context.Background()
	_, _, err := cs.Client().Post(ctx, "/", sywclient.Params{"msg": "ping"})
	require.NoError(t, err)

	ic := cs.InspectClient()

	// no capturing should be happening before the first call to InspectClient
	assert.Nil(t, ic.Request)

	data, _, err := cs.Client().Post(ctx, "/", sywclient.Params{"msg": "ping"})
	require.NoError(t, err)

	assert.Equal(t, "pong", data)
	assert.Equal(t, `"pong"`, ic.ResponseBody.String())
	assert.Equal(t, "msg=ping", ic.RequestBody.String())
}

func TestClientServer_Clear(t *testing.T) {
	cs := NewServer(nil)
	defer cs.Close()

	cs.HandlerFunc(pong)

	is := cs.InspectServer()
	ic := cs.InspectClient()

	_, _, _ = cs.Client().Post(context.Background(), "/test", sywclient.Params{"msg": "ping"})

	require.Len(t, is.Exchanges, 1)
	require.NotNil(t, ic.Request)
	require.NotNil(t, ic.RequestBody)
	require.NotNil(t, ic.Response)
	require.NotNil(t, ic.ResponseBody)
	require.NotNil(t, cs.LastSrvReq)
	require.NotNil(t, cs.LastClientReq)
	require.NotNil(t, cs.LastClientResp)

	cs.Clear()

	assert.Len(t, is.Exchanges, 0)
	assert.Nil(t, ic.Request)
	assert.Nil(t, ic.RequestBody)
	assert.Nil(t, ic.Response)
	assert.Nil(t, ic.ResponseBody)
	assert.Nil(t, cs.LastSrvReq)
	assert.Nil(t, cs.LastClientReq)
	assert.Nil(t, cs.LastClientResp)
}

func TestClientServer_options(t *testing.T) {
	cs := NewServer(nil, sywclient.Token("tok", "secret"))
	defer cs.Close()

	cs.Respond(200, `{"ok":true}`)

	is := cs.InspectServer()

	_, _, err := cs.Client(sywclient.Header("X-Test", "1")).Get(context.Background(), "/users/get", nil)
	require.NoError(t, err)

	ex := is.LastExchange()
	require.NotNil(t, ex)
	assert.Equal(t, "1", ex.Request.Header.Get("X-Test"))
	assert.Equal(t, "tok", ex.Request.URL.Query().Get(sywclient.ParamToken))
	assert.Equal(t, sywclient.GenerateHash("tok", "secret"), ex.Request.URL.Query().Get(sywclient.ParamHash))
}

func TestClientServer_noHandler(t *testing.T) {
	cs := NewServer(nil)
	defer cs.Close()

	_, resp, err := cs.Client().Get(context.Background(), "/", nil)
	require.Error(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, sywclient.KindParse, sywclient.KindOf(err))
}

func TestNewTLSServer(t *testing.T) {
	cs := NewTLSServer(nil)
	defer cs.Close()

	cs.HandlerFunc(pong)

	is := cs.InspectServer()

	_, _, err := cs.Client().Get(context.Background(), "/", nil)
	require.NoError(t, err)

	ex := is.LastExchange()
	require.NotNil(t, ex)

	assert.NotNil(t, ex.Request.TLS)
}

func TestNewUnstartedServer(t *testing.T) {
	cs := NewUnstartedServer(nil)
	defer cs.Close()

	cs.HandlerFunc(pong)

	cs.Start()

	_, _, err := cs.Client().Get(context.Background(), "/", nil)
	require.NoError(t, err)
}

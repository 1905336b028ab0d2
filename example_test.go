package sywclient_test

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/ThalesGroup/sywclient"
	"github.com/ThalesGroup/sywclient/clientserver"
)

func Example() {
	cs := clientserver.NewServer(nil)
	defer cs.Close()

	cs.Mux().HandleFunc("/products/get", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"ids":%q,"signed":%t}`, r.URL.Query().Get("ids"), r.URL.Query().Get("hash") != "")
	})

	c := cs.Client(sywclient.Token("my-token", "my-app-secret"))

	data, resp, err := c.Get(context.Background(), "/products/get", sywclient.Params{"ids": "1,2"})
	if err != nil {
		panic(err)
	}

	fmt.Println(resp.StatusCode)
	fmt.Println(data)

	// Output:
	// 200
	// map[ids:1,2 signed:true]
}

func ExampleGenerateHash() {
	fmt.Println(sywclient.GenerateHash("a", "bc"))

	// Output: ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad
}

func ExampleResolveEndpoint() {
	fmt.Println(sywclient.ResolveEndpoint("users/get", sywclient.DefaultBaseURL))
	fmt.Println(sywclient.ResolveEndpoint("/users/get/", sywclient.DefaultBaseURL))
	fmt.Println(sywclient.ResolveEndpoint("https://other.io/x/", sywclient.DefaultBaseURL))

	// Output:
	// https://platform.shopyourway.com/users/get
	// https://platform.shopyourway.com/users/get
	// https://other.io/x
}

func ExampleClient_GetFunc() {
	c := sywclient.MustNew(sywclient.MockDoer(404, `{"message":"no such user"}`))

	c.GetFunc(context.Background(), "/users/get", nil, func(err error, data interface{}, resp *http.Response) {
		fmt.Println(err)
		fmt.Println(sywclient.KindOf(err))
		fmt.Println(data)
	})

	// Output:
	// HTTP Error: 404 Not Found
	// http_status
	// map[message:no such user]
}

func ExampleClient_PostAsync() {
	c := sywclient.MustNew(sywclient.MockDoer(200, `{"errors":["Invalid token"]}`))

	p := c.PostAsync(context.Background(), "/users/follow", sywclient.Params{"userId": 42})

	// ... do other work ...

	_, err := p.Await(context.Background())
	fmt.Println(err)
	fmt.Println(sywclient.IsAPI(err))

	// Output:
	// api error: Invalid token
	// true
}

func ExampleClient_Post_media() {
	var i sywclient.Inspector
	c := sywclient.MustNew(sywclient.MockDoer(200, `{}`), &i)

	_, _, _ = c.Post(context.Background(), "/users/upload-avatar", sywclient.Params{
		sywclient.MediaKey: sywclient.File{Name: "me.png", ContentType: "image/png", Content: strings.NewReader("...")},
	})

	fmt.Println(strings.HasPrefix(i.Request.Header.Get("Content-Type"), "multipart/form-data"))

	// Output: true
}

func ExampleDump() {
	c := sywclient.MustNew(
		sywclient.MockDoer(200, `{"color":"red"}`),
		sywclient.Use(sywclient.Dump(os.Stdout)),
		sywclient.DeleteHeader("Connection"),
		sywclient.DeleteHeader("Accept"),
	)

	_, _, _ = c.Get(context.Background(), "http://example.com/colors", nil)
}

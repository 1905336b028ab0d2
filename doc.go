/*
Package sywclient is a Go client for the Shop Your Way platform API.  It builds
authenticated requests, sends them with an `http.Client`, and reduces whatever
the platform answers into one success/failure contract.

Example:

```go
c, err := sywclient.New(
    sywclient.Token("my-token", "my-app-secret"),
)
if err != nil { return err }

data, resp, err := c.Get(ctx, "/products/get", sywclient.Params{"ids": "1,2"})
if err != nil { return err }

fmt.Printf("%d %v", resp.StatusCode, data)
```

Authentication

Two parameter-based strategies are supported.  With `Token(token, appSecret)`,
every request carries `token` and `hash`, where hash is the hex SHA-256 of the
token followed by the app secret.  With `OfflineToken(token, hash)`, both are
sent as given.  Token wins if both are configured.

Independently, `OAuth1(consumerKey, consumerSecret, accessTokenKey, accessTokenSecret)`
installs OAuth1 request signing in the default HTTP client.

Endpoints and parameters

Paths are resolved against the base URL (`https://platform.shopyourway.com` by
default) unless they are absolute URLs, see ResolveEndpoint.  GET parameters go
in the query string.  POST parameters go in a form-urlencoded body, or in a
multipart body if a `media` parameter is present:

```go
f, _ := os.Open("avatar.png")
_, _, err := c.Post(ctx, "/users/upload-avatar", sywclient.Params{"media": f})
```

Only GET and POST are supported.  Other methods fail without sending anything.

Results

Every call produces a Result.  Failures are classified by Kind, in the order
they are detected:

  - KindTransport: the HTTP client failed.  merry.Unwrap(err) is its error.
  - KindParse: the body was neither empty nor valid JSON.
  - KindAPI: the decoded body has an `errors` field, whatever the status.
    err is an *APIError holding that field as decoded.
  - KindHTTPStatus: the status was outside 200-299.

An empty body decodes to an empty map.

Completion

The same call can complete three ways.  Get/Post return `(data, resp, err)`.
GetFunc/PostFunc invoke a Callback with `(err, data, resp)`.  GetAsync/PostAsync
run the call on a goroutine and return a Promise:

```go
p := c.GetAsync(ctx, "/users/get", nil)
// ...
data, err := p.Await(ctx)
```

Like http.Client, a Client is safe for concurrent use.
*/
package sywclient

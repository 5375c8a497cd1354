package youtube

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

type rawBodyKey struct{}

// rawBody receives the body of a successful response made with its context.
type rawBody struct {
	data []byte
}

func withRawBody(ctx context.Context) (context.Context, *rawBody) {
	slot := &rawBody{}
	return context.WithValue(ctx, rawBodyKey{}, slot), slot
}

// rawBodyTransport copies successful response bodies into the rawBody slot of the request context.
// The typed API structs drop zero counters and false flags, so records are decoded from this copy.
// A non-empty key is sent as the API key parameter.
type rawBodyTransport struct {
	next http.RoundTripper
	key  string
}

func (t *rawBodyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.key != "" {
		req = req.Clone(req.Context())
		q := req.URL.Query()
		q.Set("key", t.key)
		req.URL.RawQuery = q.Encode()
	}

	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	resp, err := next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	slot, ok := req.Context().Value(rawBodyKey{}).(*rawBody)
	if !ok || resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, nil
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	slot.data = data
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return resp, nil
}

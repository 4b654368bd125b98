package rest

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
)

// FastHTTPTransport sends requests with fasthttp. Cancellation is honoured
// through the context deadline only.
type FastHTTPTransport struct {
	client *fasthttp.Client
}

// NewFastHTTPTransport creates a transport using client, or a default client when nil
func NewFastHTTPTransport(client *fasthttp.Client) *FastHTTPTransport {
	if client == nil {
		client = &fasthttp.Client{}
	}
	return &FastHTTPTransport{client: client}
}

// Do implements Transport
func (t *FastHTTPTransport) Do(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	freq := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(freq)
	fresp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(fresp)

	freq.Header.SetMethod(req.Method)
	freq.SetRequestURI(req.URL)
	for name, values := range req.Header {
		for _, v := range values {
			freq.Header.Add(name, v)
		}
	}
	if req.Body != nil {
		freq.SetBody(req.Body)
	}

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = t.client.DoDeadline(freq, fresp, deadline)
	} else {
		err = t.client.Do(freq, fresp)
	}
	if err != nil {
		return nil, err
	}

	header := make(http.Header)
	fresp.Header.VisitAll(func(key, value []byte) {
		header.Add(string(key), string(value))
	})

	body := make([]byte, len(fresp.Body()))
	copy(body, fresp.Body())

	return &TransportResponse{
		StatusCode: fresp.StatusCode(),
		Header:     header,
		Body:       body,
	}, nil
}

package repository

import (
	"io"
	"net/http"
	"strings"
)

// RoundTripperFunc allows us to easily mock http.Client responses in tests.
type RoundTripperFunc func(*http.Request) *http.Response

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	resp := f(req)
	if resp != nil && resp.Request == nil {
		resp.Request = req
	}
	return resp, nil
}

// StubResponse builds a response with the given status and JSON body.
func StubResponse(status int, body string) *http.Response {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     h,
	}
}

// StubClient returns an http.Client whose transport is fn.
func StubClient(fn RoundTripperFunc) *http.Client {
	return &http.Client{Transport: fn}
}

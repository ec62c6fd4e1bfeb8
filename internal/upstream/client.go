package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns the client shared by every platform. A zero timeout means none.
func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// Call describes one outbound request to a platform.
type Call struct {
	Platform string
	Op       string
	Method   string
	URL      string
	Query    url.Values
	Header   http.Header
	Body     any
}

// Do sends the call and decodes a 2xx JSON response into dst (nil skips decoding).
// Every failure comes back as *Error.
func Do(ctx context.Context, c HTTPClient, call Call, dst any) error {
	start := time.Now()
	code, err := do(ctx, c, call, dst)
	observe(call.Platform, call.Op, code, time.Since(start))
	return err
}

func do(ctx context.Context, c HTTPClient, call Call, dst any) (int, error) {
	u := call.URL
	if len(call.Query) > 0 {
		u += "?" + call.Query.Encode()
	}

	var body io.Reader
	if call.Body != nil {
		b, err := json.Marshal(call.Body)
		if err != nil {
			return 0, newError(call, 0, "encode request body", err)
		}
		body = bytes.NewReader(b)
	}
	method := call.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, newError(call, 0, "build request", err)
	}
	for k, vs := range call.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if call.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		return 0, newError(call, 0, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, newError(call, resp.StatusCode, errorMessage(b, resp.Status), nil)
	}
	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil && err != io.EOF {
		return resp.StatusCode, newError(call, resp.StatusCode, "decode response", err)
	}
	return resp.StatusCode, nil
}

// errorMessage pulls the human readable message out of a platform error body.
func errorMessage(body []byte, status string) string {
	var graph struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &graph) == nil && graph.Error != nil && graph.Error.Message != "" {
		return graph.Error.Message
	}
	var api struct {
		Errors []struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if json.Unmarshal(body, &api) == nil && len(api.Errors) > 0 {
		if api.Errors[0].Detail != "" {
			return api.Errors[0].Detail
		}
		if api.Errors[0].Title != "" {
			return api.Errors[0].Title
		}
	}
	if len(body) > 0 && len(body) <= 512 {
		return string(bytes.TrimSpace(body))
	}
	return status
}

func statusLabel(code int) string {
	if code == 0 {
		return "error"
	}
	return strconv.Itoa(code)
}

// Error is returned for any failed platform call: transport, auth, 4xx or 5xx.
type Error struct {
	Platform   string
	Op         string
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func newError(call Call, code int, msg string, err error) *Error {
	return &Error{Platform: call.Platform, Op: call.Op, StatusCode: code, Message: msg, Err: err}
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s %s: %s", e.Platform, e.Op, e.Message)
	if e.StatusCode != 0 {
		s = fmt.Sprintf("%s %s: status %d: %s", e.Platform, e.Op, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

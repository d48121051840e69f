package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrNotFound indicates a key is not in the remote store.
	ErrNotFound = errors.New("not found")
)

// StatusError reports a response status the operation does not expect.
type StatusError struct {
	Method string
	Key    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %q: unexpected status %d %s", e.Method, e.Key, e.Code, http.StatusText(e.Code))
}

type options struct {
	address    string
	httpClient *http.Client
}

type Option func(*options)

func WithAddress(value string) Option {
	return func(o *options) {
		o.address = value
	}
}

// WithHTTPClient replaces http.DefaultClient, e.g., to stop following
// redirects.
func WithHTTPClient(value *http.Client) Option {
	return func(o *options) {
		o.httpClient = value
	}
}

// Client talks to a verbstore fixture server. Keys are used as request
// targets without escaping, the way the server maps targets back to keys.
type Client struct {
	opts options
}

func New(opts ...Option) *Client {
	var c Client
	c.opts.address = "localhost:8080"
	c.opts.httpClient = http.DefaultClient
	for _, o := range opts {
		o(&c.opts)
	}
	return &c
}

// Get returns the value stored at key, or ErrNotFound.
func (c *Client) Get(key string) (value []byte, err error) {
	response, err := c.do(http.MethodGet, key, nil, nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(response)
	switch response.StatusCode {
	case http.StatusOK:
		return io.ReadAll(response.Body)
	case http.StatusNotFound:
		return nil, fmt.Errorf("%q: %w", key, ErrNotFound)
	default:
		return nil, &StatusError{Method: http.MethodGet, Key: key, Code: response.StatusCode}
	}
}

// Exists issues a HEAD for the key.
func (c *Client) Exists(key string) (bool, error) {
	response, err := c.do(http.MethodHead, key, nil, nil)
	if err != nil {
		return false, err
	}
	defer closeBody(response)
	switch response.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &StatusError{Method: http.MethodHead, Key: key, Code: response.StatusCode}
	}
}

// Put stores value at key, as text/plain.
func (c *Client) Put(key string, value []byte) error {
	header := make(http.Header)
	header.Set("Content-Type", "text/plain")
	response, err := c.do(http.MethodPut, key, header, value)
	if err != nil {
		return err
	}
	defer closeBody(response)
	if response.StatusCode != http.StatusCreated {
		return &StatusError{Method: http.MethodPut, Key: key, Code: response.StatusCode}
	}
	return nil
}

// Delete removes key. Deleting a key that is not there is not an error.
func (c *Client) Delete(key string) error {
	response, err := c.do(http.MethodDelete, key, nil, nil)
	if err != nil {
		return err
	}
	defer closeBody(response)
	if response.StatusCode != http.StatusNoContent {
		return &StatusError{Method: http.MethodDelete, Key: key, Code: response.StatusCode}
	}
	return nil
}

// Allowed returns the Allow field of an OPTIONS response.
func (c *Client) Allowed() (string, error) {
	response, err := c.do(http.MethodOptions, "", nil, nil)
	if err != nil {
		return "", err
	}
	defer closeBody(response)
	if response.StatusCode != http.StatusOK {
		return "", &StatusError{Method: http.MethodOptions, Code: response.StatusCode}
	}
	return response.Header.Get("Allow"), nil
}

// Echo sends header and body with the ECHO verb and returns what came back.
func (c *Client) Echo(header http.Header, body []byte) (http.Header, []byte, error) {
	response, err := c.do("ECHO", "", header, body)
	if err != nil {
		return nil, nil, err
	}
	defer closeBody(response)
	if response.StatusCode != http.StatusOK {
		return nil, nil, &StatusError{Method: "ECHO", Code: response.StatusCode}
	}
	echoed, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, nil, err
	}
	return response.Header, echoed, nil
}

func (c *Client) do(method, key string, header http.Header, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	request, err := http.NewRequest(method, c.urlFor(key), r)
	if err != nil {
		return nil, err
	}
	for k, vv := range header {
		request.Header[k] = vv
	}
	return c.opts.httpClient.Do(request)
}

func (c *Client) urlFor(key string) string {
	return fmt.Sprintf("http://%s/%s", c.opts.address, key)
}

func closeBody(response *http.Response) {
	_ = response.Body.Close()
}

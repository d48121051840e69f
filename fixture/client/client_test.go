package client_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nicolagi/verbstore/fixture/client"
	"github.com/nicolagi/verbstore/fixture/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientAgainstFixture(t *testing.T) {
	srv := server.New(server.WithAddress("localhost:0"))
	address, err := srv.Listen()
	require.Nil(t, err)
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve()
	}()
	defer func() {
		assert.Nil(t, srv.Shutdown())
		assert.Nil(t, <-errc)
	}()

	c := client.New(client.WithAddress(address))
	t.Run("crud", func(t *testing.T) {
		require.Nil(t, c.Put("k", []byte("ZONE//ALONE")))
		value, err := c.Get("k")
		require.Nil(t, err)
		assert.Equal(t, "ZONE//ALONE", string(value))
		exists, err := c.Exists("k")
		require.Nil(t, err)
		assert.True(t, exists)
		require.Nil(t, c.Put("k", nil))
		value, err = c.Get("k")
		require.Nil(t, err)
		assert.Empty(t, value)
		require.Nil(t, c.Delete("k"))
		exists, err = c.Exists("k")
		require.Nil(t, err)
		assert.False(t, exists)
	})
	t.Run("empty echoed field", func(t *testing.T) {
		header := make(http.Header)
		header["X-Nerv"] = []string{""}
		echoed, body, err := c.Echo(header, nil)
		require.Nil(t, err)
		values, ok := echoed["X-Nerv"]
		require.True(t, ok)
		assert.Equal(t, []string{""}, values)
		assert.Empty(t, body)
	})
}

func TestClientStatusErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer ts.Close()
	c := client.New(client.WithAddress(strings.TrimPrefix(ts.URL, "http://")))

	checks := map[string]func() error{
		"get": func() error {
			_, err := c.Get("k")
			return err
		},
		"exists": func() error {
			_, err := c.Exists("k")
			return err
		},
		"put":    func() error { return c.Put("k", []byte("v")) },
		"delete": func() error { return c.Delete("k") },
		"allowed": func() error {
			_, err := c.Allowed()
			return err
		},
		"echo": func() error {
			_, _, err := c.Echo(nil, []byte("v"))
			return err
		},
	}
	for name, check := range checks {
		err := check()
		var se *client.StatusError
		if assert.True(t, errors.As(err, &se), "%s: %v", name, err) {
			assert.Equal(t, http.StatusTeapot, se.Code, name)
		}
	}
}

func TestClientNotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()
	c := client.New(client.WithAddress(strings.TrimPrefix(ts.URL, "http://")))
	_, err := c.Get("missing")
	assert.True(t, errors.Is(err, client.ErrNotFound))
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestStatusErrorMessage(t *testing.T) {
	err := &client.StatusError{Method: http.MethodPut, Key: "k", Code: http.StatusBadRequest}
	assert.Equal(t, `PUT "k": unexpected status 400 Bad Request`, err.Error())
}

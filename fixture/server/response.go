package server

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	serverName = "verbstore"

	// Status lines are those of an HTTP/1.0 server: one request per
	// connection, closed once the response is written.
	responseProto = "HTTP/1.0"
)

// responseWriter writes a response straight to the connection, in order:
// status line, header fields, body. The first write error sticks and turns
// the remaining calls into no-ops.
type responseWriter struct {
	bw     *bufio.Writer
	status int
	err    error
}

func newResponseWriter(w io.Writer) *responseWriter {
	return &responseWriter{bw: bufio.NewWriter(w)}
}

// WriteStatus writes the status line followed by the fields every response
// carries.
func (w *responseWriter) WriteStatus(code int) {
	w.status = code
	w.printf("%s %d %s\r\n", responseProto, code, http.StatusText(code))
	w.Header("Server", serverName)
	w.Header("Date", time.Now().UTC().Format(http.TimeFormat))
}

func (w *responseWriter) Header(name, value string) {
	w.printf("%s: %s\r\n", name, value)
}

// RawHeader writes a header field line as is. The line must include its
// terminator.
func (w *responseWriter) RawHeader(line []byte) {
	_, _ = w.Write(line)
}

func (w *responseWriter) ContentLength(n int64) {
	w.Header("Content-Length", strconv.FormatInt(n, 10))
}

// EndHeaders writes the blank line that separates header from body.
func (w *responseWriter) EndHeaders() {
	w.Header("Connection", "close")
	w.printf("\r\n")
}

func (w *responseWriter) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.bw.Write(p)
	w.err = err
	return n, err
}

func (w *responseWriter) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.bw.Flush()
	return w.err
}

func (w *responseWriter) printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.bw, format, args...)
}

// writeContinue sends an interim 100 response, which clients that sent
// "Expect: 100-continue" wait for before sending the body.
func writeContinue(w io.Writer) error {
	_, err := io.WriteString(w, "HTTP/1.1 100 Continue\r\n\r\n")
	return err
}

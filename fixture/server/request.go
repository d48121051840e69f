package server

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
)

var errMalformedRequest = errors.New("malformed request")

// request is what the handler sees of a client request. Header holds the
// parsed fields, rawHeader the field lines exactly as they came off the wire.
type request struct {
	method string
	// Origin-form target ("/k?q"), or "*". Absolute-form targets are cut
	// down to their origin form, their authority kept apart.
	target    string
	authority string
	proto     string

	header    textproto.MIMEHeader
	rawHeader [][]byte

	// Declared body length. Missing or unparseable Content-Length counts
	// as zero.
	contentLength int64
	body          io.Reader
}

// headRecorder keeps a copy of what is read from the connection until stopped.
// The buffered reader on top of it reads ahead, so the copy may contain part
// of the body as well.
type headRecorder struct {
	buf     bytes.Buffer
	stopped bool
}

func (h *headRecorder) Write(p []byte) (int, error) {
	if !h.stopped {
		h.buf.Write(p)
	}
	return len(p), nil
}

func (h *headRecorder) stop() {
	h.stopped = true
}

func readRequest(br *bufio.Reader, head *headRecorder) (*request, error) {
	tp := textproto.NewReader(br)
	line, err := tp.ReadLine()
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 || parts[0] == "" {
		return nil, fmt.Errorf("%q: %w", line, errMalformedRequest)
	}
	target, authority, err := splitTarget(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%q: %v: %w", parts[1], err, errMalformedRequest)
	}
	if _, _, ok := http.ParseHTTPVersion(parts[2]); !ok {
		return nil, fmt.Errorf("%q: bad protocol version: %w", parts[2], errMalformedRequest)
	}
	header, err := tp.ReadMIMEHeader()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v: %w", err, errMalformedRequest)
	}
	head.stop()
	r := &request{
		method:        parts[0],
		target:        target,
		authority:     authority,
		proto:         parts[2],
		header:        header,
		rawHeader:     headerLines(head.buf.Bytes()),
		contentLength: contentLength(header),
	}
	r.body = io.LimitReader(br, r.contentLength)
	return r, nil
}

// splitTarget accepts the origin, absolute and asterisk forms of a request
// target. An absolute-form target, as sent to a proxy, maps to the same key as
// its origin form. Nothing is decoded.
func splitTarget(raw string) (target, authority string, err error) {
	if raw == "*" || strings.HasPrefix(raw, "/") {
		return raw, "", nil
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", "", errors.New("not an absolute URI")
	}
	rest := raw[strings.Index(raw, "://")+len("://"):]
	i := strings.IndexAny(rest, "/?")
	switch {
	case i < 0:
		target = "/"
	case rest[i] == '?':
		target = "/" + rest[i:]
	default:
		target = rest[i:]
	}
	return target, u.Host, nil
}

func contentLength(header textproto.MIMEHeader) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(header.Get("Content-Length")), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// headerLines splits a recorded request head into its field lines, line
// terminators included. Folded continuation lines stay with the field line
// they continue. The request line and anything after the blank line ending
// the head are dropped.
func headerLines(head []byte) [][]byte {
	var lines [][]byte
	for i, line := range bytes.SplitAfter(head, []byte("\n")) {
		if i == 0 {
			continue
		}
		if len(bytes.TrimRight(line, "\r\n")) == 0 {
			break
		}
		if (line[0] == ' ' || line[0] == '\t') && len(lines) > 0 {
			last := lines[len(lines)-1]
			folded := make([]byte, 0, len(last)+len(line))
			lines[len(lines)-1] = append(append(folded, last...), line...)
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// key maps the request target to a store key: the leading slash goes,
// everything else is kept as sent.
func (r *request) key() string {
	return strings.TrimPrefix(r.target, "/")
}

// path is the request target without the query string.
func (r *request) path() (path, query string) {
	if i := strings.IndexByte(r.target, '?'); i >= 0 {
		return r.target[:i], r.target[i:]
	}
	return r.target, ""
}

func (r *request) expectsContinue() bool {
	major, minor, _ := http.ParseHTTPVersion(r.proto)
	if major < 1 || (major == 1 && minor < 1) {
		return false
	}
	return strings.EqualFold(r.header.Get("Expect"), "100-continue")
}

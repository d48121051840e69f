package server

import (
	"io"
	"net/http"
	"strings"
	"unicode"

	log "github.com/sirupsen/logrus"
)

const (
	// MethodEcho is the non-standard verb that reflects a request back.
	MethodEcho = "ECHO"

	allowedMethods = "GET, PUT, DELETE"
	echoChunkSize  = 4096
)

// handle translates one request into a store operation and writes the
// response. Host is used for redirects when the request names no host, neither
// in an absolute-form target nor in a Host field.
func (s *Server) handle(w *responseWriter, r *request, host string, logger *log.Entry) {
	switch r.method {
	case http.MethodGet:
		if !s.redirectLowercase(w, r, host) {
			s.get(w, r)
		}
	case http.MethodHead:
		s.head(w, r)
	case http.MethodPut:
		s.put(w, r, logger)
	case http.MethodDelete:
		s.opts.store.Delete(r.key())
		empty(w, http.StatusNoContent)
	case http.MethodOptions:
		w.WriteStatus(http.StatusOK)
		w.Header("Allow", allowedMethods)
		w.ContentLength(0)
		w.EndHeaders()
	case http.MethodPost:
		if !s.redirectLowercase(w, r, host) {
			notAllowed(w)
		}
	case http.MethodPatch:
		notAllowed(w)
	case MethodEcho:
		echo(w, r, logger)
	default:
		logger.Warn("Unsupported method")
		empty(w, http.StatusNotImplemented)
	}
}

func (s *Server) get(w *responseWriter, r *request) {
	value, found := s.opts.store.Get(r.key())
	if !found {
		empty(w, http.StatusNotFound)
		return
	}
	w.WriteStatus(http.StatusOK)
	w.Header("Content-Type", "text/plain")
	w.ContentLength(int64(len(value)))
	w.Header("Content-Encoding", "unknown")
	w.EndHeaders()
	_, _ = w.Write(value)
}

func (s *Server) head(w *responseWriter, r *request) {
	if _, found := s.opts.store.Get(r.key()); found {
		empty(w, http.StatusOK)
	} else {
		empty(w, http.StatusNotFound)
	}
}

func (s *Server) put(w *responseWriter, r *request, logger *log.Entry) {
	if _, ok := r.header["Content-Type"]; ok && r.header.Get("Content-Type") != "text/plain" {
		logger.WithField("content-type", r.header.Get("Content-Type")).Warn("Unsupported content type")
		empty(w, http.StatusBadRequest)
		return
	}
	value, err := io.ReadAll(r.body)
	if err != nil || int64(len(value)) < r.contentLength {
		logger.WithFields(log.Fields{
			"err":     err,
			"missing": r.contentLength - int64(len(value)),
		}).Warn("Short body")
	}
	s.opts.store.Put(r.key(), value)
	empty(w, http.StatusCreated)
}

// redirectLowercase responds with a redirect to the lowercased path if the
// path has any uppercase letter in it, and reports whether it did.
func (s *Server) redirectLowercase(w *responseWriter, r *request, host string) bool {
	path, query := r.path()
	if strings.IndexFunc(path, unicode.IsUpper) < 0 {
		return false
	}
	if h := r.header.Get("Host"); h != "" {
		host = h
	}
	if r.authority != "" {
		host = r.authority
	}
	// The path is not escaped: bytes beyond ASCII go out as they came in.
	w.WriteStatus(http.StatusFound)
	w.Header("Location", "http://"+host+strings.ToLower(path)+query)
	w.ContentLength(0)
	w.EndHeaders()
	return true
}

// echo reflects the x- header fields, verbatim, and the body of the request.
func echo(w *responseWriter, r *request, logger *log.Entry) {
	w.WriteStatus(http.StatusOK)
	for _, line := range r.rawHeader {
		if len(line) >= 2 && strings.EqualFold(string(line[:2]), "x-") {
			w.RawHeader(line)
		}
	}
	w.ContentLength(r.contentLength)
	w.EndHeaders()
	buf := make([]byte, echoChunkSize)
	for remaining := r.contentLength; remaining > 0; {
		chunk := buf
		if remaining < int64(len(chunk)) {
			chunk = chunk[:remaining]
		}
		n, err := io.ReadFull(r.body, chunk)
		if _, werr := w.Write(chunk[:n]); werr != nil {
			return
		}
		if err != nil {
			logger.WithFields(log.Fields{
				"err":     err,
				"missing": remaining - int64(n),
			}).Warn("Short body")
			return
		}
		remaining -= int64(n)
	}
}

func notAllowed(w *responseWriter) {
	w.WriteStatus(http.StatusMethodNotAllowed)
	w.Header("Allow", allowedMethods)
	w.ContentLength(0)
	w.EndHeaders()
}

func empty(w *responseWriter, code int) {
	w.WriteStatus(code)
	w.ContentLength(0)
	w.EndHeaders()
}

package server

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type serverConn struct {
	id     string
	server *Server
	conn   net.Conn
}

func (s *Server) wrapConn(conn net.Conn) *serverConn {
	return &serverConn{
		id:     uuid.New().String(),
		server: s,
		conn:   conn,
	}
}

// serve reads a single request, answers it and closes the connection.
func (sc *serverConn) serve() {
	defer sc.close()
	logger := log.WithFields(log.Fields{
		"id":     sc.id,
		"remote": sc.conn.RemoteAddr(),
	})
	var head headRecorder
	br := bufio.NewReader(io.TeeReader(sc.conn, &head))
	w := newResponseWriter(sc.conn)
	r, err := readRequest(br, &head)
	if err != nil {
		// The following happens when the client connects and goes away
		// without sending anything.
		if err == io.EOF {
			logger.Debug("Client detached")
			return
		}
		logger.WithField("err", err).Warn("Bad request")
		if errors.Is(err, errMalformedRequest) {
			empty(w, http.StatusBadRequest)
			_ = w.Flush()
		}
		return
	}
	logger = logger.WithFields(log.Fields{
		"op":  r.method,
		"key": r.key(),
	})
	if r.contentLength > 0 && r.expectsContinue() && readsBody(r.method) {
		if err := writeContinue(sc.conn); err != nil {
			logger.WithField("err", err).Warn("Failed writing interim response")
			return
		}
	}
	sc.server.handle(w, r, sc.conn.LocalAddr().String(), logger)
	// Whatever the handler left unread would make the close reset the
	// connection, possibly before the client gets to read the response.
	if _, err := io.Copy(io.Discard, r.body); err != nil {
		logger.WithField("err", err).Debug("Could not drain body")
	}
	if err := w.Flush(); err != nil {
		logger.WithField("err", err).Warn("Failed writing response")
		return
	}
	logger.WithField("status", w.status).Debug("Served")
}

func readsBody(method string) bool {
	return method == http.MethodPut || method == MethodEcho
}

func (sc *serverConn) close() {
	if err := sc.conn.Close(); err != nil {
		log.WithFields(log.Fields{
			"err": err,
			"id":  sc.id,
		}).Warn("Could not close connection")
	}
}

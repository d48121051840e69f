package server

import (
	"errors"
	"net"

	"github.com/nicolagi/verbstore/storage"
	log "github.com/sirupsen/logrus"
)

// DefaultAddress is where the fixture listens unless told otherwise. Client
// test suites hardcode it.
const DefaultAddress = "localhost:8080"

type Option func(*options)

type options struct {
	address string
	store   storage.Store
}

func WithAddress(value string) Option {
	return func(o *options) {
		o.address = value
	}
}

// WithStore makes the server operate on the given store, which the caller
// keeps ownership of. Without it, the server creates its own in-memory store.
func WithStore(value storage.Store) Option {
	return func(o *options) {
		o.store = value
	}
}

// Server exposes a storage.Store over HTTP. Connections are served one at a
// time, in the order they are accepted, each carrying a single request.
type Server struct {
	opts options
	ln   net.Listener
}

func New(opts ...Option) *Server {
	var s Server
	s.opts.address = DefaultAddress
	for _, o := range opts {
		o(&s.opts)
	}
	if s.opts.store == nil {
		s.opts.store = storage.NewInMemoryStore()
	}
	return &s
}

func (s *Server) Listen() (addr string, err error) {
	s.ln, err = net.Listen("tcp", s.opts.address)
	if err != nil {
		return
	}
	addr = s.ln.Addr().String()
	return
}

// Serve accepts connections and handles each of them to completion before
// accepting the next one. The function will return (some time after) shutdown
// is called.
func (s *Server) Serve() error {
	if s.ln == nil {
		return errNotListening
	}
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				// Shutdown must've been called. Interrupt the accept loop.
				break
			}
			log.Error(err)
			continue
		}
		s.wrapConn(conn).serve()
	}
	return nil
}

// Shutdown closes the listener, which makes Serve return once the connection
// being served, if any, is done with.
func (s *Server) Shutdown() error {
	if s.ln == nil {
		return errNotListening
	}
	return s.ln.Close()
}

var errNotListening = errors.New("server is not listening")

package tcp

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/linechat/linechat-server/internal/core"
	"github.com/linechat/linechat-server/internal/session"
)

// Server accepts TCP clients and runs one chat session per connection.
type Server struct {
	addr      string
	registry  *core.Registry
	directory *core.Directory
	log       *zerolog.Logger

	wg     sync.WaitGroup
	mu     sync.Mutex
	active map[*lineConn]struct{}
}

// NewServer builds the TCP transport over the shared registry and room
// directory.
func NewServer(addr string, registry *core.Registry, directory *core.Directory, logger *zerolog.Logger) *Server {
	return &Server{
		addr:      addr,
		registry:  registry,
		directory: directory,
		log:       logger,
		active:    make(map[*lineConn]struct{}),
	}
}

// Run listens on the configured address and serves until ctx is
// cancelled, then waits for in-flight sessions to finish their cleanup.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on an existing listener. Split out from Run so tests can
// bind their own port.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info().Str("addr", ln.Addr().String()).Msg("tcp transport listening")

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			// Whatever killed the accept loop, no session may outlive
			// the server: kick them loose and wait for their cleanup.
			s.closeActive()
			s.wg.Wait()
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, conn)
		}()
	}
}

func (s *Server) closeActive() {
	s.mu.Lock()
	for lc := range s.active {
		_ = lc.Close()
	}
	s.mu.Unlock()
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	logger := s.log.With().
		Str("conn_id", uuid.NewString()).
		Str("remote", conn.RemoteAddr().String()).
		Logger()
	logger.Info().Msg("client connected")

	lc := newLineConn(conn)
	s.mu.Lock()
	s.active[lc] = struct{}{}
	s.mu.Unlock()
	if ctx.Err() != nil {
		// Accepted in the same instant the server shut down.
		_ = lc.Close()
	}
	defer func() {
		s.mu.Lock()
		delete(s.active, lc)
		s.mu.Unlock()
	}()

	session.New(s.registry, s.directory, lc, lc, logger).Run()
	logger.Info().Msg("client disconnected")
}

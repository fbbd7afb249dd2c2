package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/store"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	// TransportHTTP serves MCP via the streamable HTTP transport.
	TransportHTTP Transport = "http"
	// TransportStdio serves MCP over stdio.
	TransportStdio Transport = "stdio"
)

// Runner serves the tracker over MCP and keeps it in step with other rpt
// processes by reloading whenever persistence changes on disk.
type Runner struct {
	Tracker     *app.Tracker
	Persistence store.Persistence
	Name        string
	Version     string

	Transport        Transport
	HTTPListenAddr   string
	HTTPEndpointPath string
	OnHTTPListening  func(net.Addr)
	HTTPServerCert   string
	HTTPServerKey    string
}

// NewServer builds the MCP server with every resource and tool registered.
func NewServer(name, version string, svc *Service) *server.MCPServer {
	srv := server.NewMCPServer(
		fmt.Sprintf("%s MCP", name),
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Track research ideas, projects and deadlines, and read the daily check-in."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

func (r Runner) Do(ctx context.Context) error {
	if r.Tracker == nil {
		return errors.New("mcp runner requires a tracker")
	}
	name := r.Name
	if name == "" {
		name = "rpt"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}
	srv := NewServer(name, version, NewService(r.Tracker))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.reload(gctx)
	})

	switch t := r.Transport; t {
	case "", TransportHTTP:
		handler, err := r.router(srv)
		if err != nil {
			return err
		}
		g.Go(func() error {
			defer cancel()
			return r.serveHTTP(gctx, handler)
		})
	case TransportStdio:
		g.Go(func() error {
			defer cancel()
			err := server.NewStdioServer(srv).Listen(gctx, os.Stdin, os.Stdout)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	default:
		return fmt.Errorf("unknown MCP transport %q", t)
	}
	return g.Wait()
}

// reload re-reads the tracker on every persistence change until ctx ends.
// Backends that cannot watch simply never reload.
func (r Runner) reload(ctx context.Context) error {
	if r.Persistence == nil {
		return nil
	}
	events, err := r.Persistence.Watch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("mcp: persistence watch unavailable, changes from other processes will not be seen")
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			log.Debug().Str("slot", ev.Key).Msg("mcp: persistence changed, reloading")
			r.Tracker.Reload()
		}
	}
}

func (r Runner) endpoint() string {
	path := strings.TrimSpace(r.HTTPEndpointPath)
	if path == "" {
		path = "/mcp"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func (r Runner) router(srv *server.MCPServer) (http.Handler, error) {
	if (r.HTTPServerCert != "" && r.HTTPServerKey == "") || (r.HTTPServerCert == "" && r.HTTPServerKey != "") {
		return nil, errors.New("both http tls cert and key must be provided")
	}
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle(r.endpoint(), server.NewStreamableHTTPServer(srv))
	return router, nil
}

func (r Runner) serveHTTP(ctx context.Context, handler http.Handler) error {
	listenAddr := r.HTTPListenAddr
	if listenAddr == "" {
		listenAddr = "127.0.0.1:8080"
	}

	httpSrv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	if r.OnHTTPListening != nil {
		r.OnHTTPListening(ln.Addr())
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if r.HTTPServerCert != "" && r.HTTPServerKey != "" {
		err = httpSrv.ServeTLS(ln, r.HTTPServerCert, r.HTTPServerKey)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

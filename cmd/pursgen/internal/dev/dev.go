package dev

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/broady/pursgen"
	"github.com/broady/pursgen/cmd/pursgen/internal/inputs"
	"github.com/broady/pursgen/ir"
	"github.com/broady/pursgen/purescript"
	"github.com/gorilla/schema"
)

var schemaDecoder = schema.NewDecoder()

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

type Cmd struct {
	inputs.Flags `embed:""`

	Port        int      `help:"Port to listen on." default:"9000"`
	AllowOrigin []string `help:"Origin allowed to fetch previews. Repeatable." name:"allow-origin" default:"*"`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := c.Load()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort("localhost", strconv.Itoa(c.Port)),
		Handler:           NewServer(cfg, logger, c.AllowOrigin...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("pursgen dev listening on http://%s\n", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Server previews generated modules. Every request rebuilds the module from
// the configured inputs, so edits to Go sources show up on reload.
type Server struct {
	cfg     *pursgen.Config
	logger  *slog.Logger
	origins []string
}

// NewServer creates a preview server for cfg. With no origins, every origin
// is allowed.
func NewServer(cfg *pursgen.Config, logger *slog.Logger, origins ...string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, logger: logger, origins: origins}
}

// Handler returns the HTTP handler serving /module and /declarations.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/module", s.handleModule)
	mux.HandleFunc("/declarations", s.handleDeclarations)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, pursgen.Errorf(pursgen.CodeNotFound, "no route for %s", r.URL.Path))
	})
	return Logging(s.logger)(CORS(s.origins)(mux))
}

// ModuleQuery is the query of GET /module.
type ModuleQuery struct {
	// Module renames the generated module.
	Module string `schema:"module" validate:"purs_module"`

	// Types selects declarations by PureScript name.
	Types []string `schema:"type" validate:"dive,purs_name"`

	// Comments enables doc comments regardless of the config.
	Comments bool `schema:"comments"`
}

// DeclarationsQuery is the query of GET /declarations.
type DeclarationsQuery struct {
	Types  []string `schema:"type" validate:"dive,purs_name"`
	Format string   `schema:"format" validate:"omitempty,oneof=json yaml"`
}

func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	var q ModuleQuery
	if err := decodeQuery(r, &q); err != nil {
		s.writeError(w, err)
		return
	}

	g := pursgen.FromConfig(s.cfg).Logger(s.logger)
	mod, err := s.build(r.Context(), g, q.Types)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if q.Module != "" {
		mod.Name = q.Module
	}
	if err := purescript.ValidateModule(mod); err != nil {
		s.writeError(w, err)
		return
	}

	cfg := g.GeneratorConfig()
	if q.Comments {
		cfg.EmitComments = true
	}
	content := (&purescript.Generator{}).Render(mod, cfg)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Purs-Path", purescript.ModulePath(mod.Name))
	w.Write(content)
}

func (s *Server) handleDeclarations(w http.ResponseWriter, r *http.Request) {
	var q DeclarationsQuery
	if err := decodeQuery(r, &q); err != nil {
		s.writeError(w, err)
		return
	}

	mod, err := s.build(r.Context(), pursgen.FromConfig(s.cfg).Logger(s.logger), q.Types)
	if err != nil {
		s.writeError(w, err)
		return
	}

	format, contentType := ir.FormatJSON, "application/json"
	if q.Format == string(ir.FormatYAML) {
		format, contentType = ir.FormatYAML, "application/yaml"
	}

	var buf bytes.Buffer
	if err := ir.EncodeModule(&buf, mod, format); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(buf.Bytes())
}

// build builds the configured module and narrows it to types. Unknown
// types are reported as not_found.
func (s *Server) build(ctx context.Context, g *pursgen.Generator, types []string) (*ir.Module, error) {
	mod, err := g.Build(ctx)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return mod, nil
	}
	for _, name := range types {
		if mod.Find(name) == nil {
			return nil, pursgen.Errorf(pursgen.CodeNotFound, "module %s has no declaration %s", mod.Name, name)
		}
	}
	return mod.Select(types...)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	pursgen.WriteError(w, err, s.logger)
}

// decodeQuery decodes and validates the query of a GET request into dst.
func decodeQuery(r *http.Request, dst any) error {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return pursgen.Errorf(pursgen.CodeMethodNotAllowed, "method %s not allowed, use GET", r.Method)
	}
	if err := schemaDecoder.Decode(dst, r.URL.Query()); err != nil {
		return pursgen.Errorf(pursgen.CodeInvalidArgument, "failed to decode query: %v", err)
	}
	return pursgen.ValidateStruct(dst)
}

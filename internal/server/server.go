// Package server exposes the reader backend over HTTP.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/porticus-lab/bionic-api/internal/extract"
	"github.com/porticus-lab/bionic-api/internal/metrics"
	"github.com/porticus-lab/bionic-api/internal/render"
)

// LivenessMessage is the body served at "/".
const LivenessMessage = "Bionic API backend is running!"

// Extractor pulls text out of an uploaded PDF.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (*extract.Document, error)
}

// Renderer prints an HTML fragment to PDF.
type Renderer interface {
	Render(ctx context.Context, fragment string, style render.Style) (*render.Result, error)
}

// Assistant runs the AI operations. *ai.Gateway implements it.
type Assistant interface {
	Available() bool
	Summarize(ctx context.Context, text string) (string, error)
	Chat(ctx context.Context, docContext, question string) (string, error)
	Diagram(ctx context.Context, text string) (string, error)
	Speech(ctx context.Context, text string) ([]byte, error)
}

// Deps are the collaborators behind the routes.
type Deps struct {
	Extractor Extractor
	Renderer  Renderer
	Assistant Assistant
	Metrics   *metrics.Metrics

	// RendererReady reports whether the PDF renderer has a running browser.
	// Nil means always ready.
	RendererReady func() bool
}

// Config holds HTTP settings.
type Config struct {
	BodyLimit    int           // bytes; zero uses fiber's default
	CORSOrigins  string        // comma-separated; empty means "*"
	ReadTimeout  time.Duration // zero means none
	WriteTimeout time.Duration // zero means none
}

// Server is the HTTP front of the service.
type Server struct {
	app  *fiber.App
	deps Deps
}

// New builds the fiber application and registers every route.
func New(deps Deps, cfg Config) *Server {
	s := &Server{deps: deps}

	origins := cfg.CORSOrigins
	if origins == "" {
		origins = "*"
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "bionic-api",
		BodyLimit:             cfg.BodyLimit,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	s.app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	s.app.Use(accessLog(deps.Metrics))
	s.app.Use(recover.New())

	s.app.Get("/", s.handleRoot)
	s.app.Get("/healthz", s.handleHealth)
	if deps.Metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := s.app.Group("/api", cors.New(cors.Config{AllowOrigins: origins}))
	api.Post("/extract-pdf", s.handleExtractPDF)
	api.Post("/generate-pdf", s.handleGeneratePDF)
	api.Post("/summarize", s.handleSummarize)
	api.Post("/generate-speech", s.handleGenerateSpeech)
	api.Post("/chat", s.handleChat)
	api.Post("/generate-mindmap", s.handleGenerateMindmap)

	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

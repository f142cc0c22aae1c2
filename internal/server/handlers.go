package server

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/porticus-lab/bionic-api/internal/apperr"
	"github.com/porticus-lab/bionic-api/internal/logger"
	"github.com/porticus-lab/bionic-api/internal/render"
)

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.SendString(LivenessMessage)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	rendererReady := s.deps.Renderer != nil
	if rendererReady && s.deps.RendererReady != nil {
		rendererReady = s.deps.RendererReady()
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"ai":       s.deps.Assistant != nil && s.deps.Assistant.Available(),
		"renderer": rendererReady,
	})
}

func (s *Server) handleExtractPDF(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.Wrap(apperr.MissingField, "No file part", err)
	}
	if fh.Filename == "" {
		return apperr.New(apperr.EmptyUpload, "No selected file")
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	doc, err := s.deps.Extractor.Extract(c.UserContext(), data)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"text": doc.Text})
}

type generatePDFRequest struct {
	Text          string   `json:"text"`
	Filename      string   `json:"filename"`
	LineSpacing   *float64 `json:"lineSpacing"`
	TextSize      *float64 `json:"textSize"`
	LetterSpacing *float64 `json:"letterSpacing"`
}

func (s *Server) handleGeneratePDF(c *fiber.Ctx) error {
	var req generatePDFRequest
	decode(c, &req)
	if strings.TrimSpace(req.Text) == "" {
		return apperr.New(apperr.MissingField, "Missing 'text' in request")
	}

	style := render.StyleInput{
		LineSpacing:   req.LineSpacing,
		TextSize:      req.TextSize,
		LetterSpacing: req.LetterSpacing,
	}.Resolved()

	res, err := s.deps.Renderer.Render(c.UserContext(), req.Text, style)
	if err != nil {
		return err
	}

	s.deps.Metrics.ObserveBinary("pdf", res.Len())
	c.Attachment(render.Filename(req.Filename))
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(res.Bytes())
}

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSummarize(c *fiber.Ctx) error {
	var req textRequest
	decode(c, &req)
	summary, err := s.deps.Assistant.Summarize(c.UserContext(), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"summary": summary})
}

func (s *Server) handleGenerateSpeech(c *fiber.Ctx) error {
	var req textRequest
	decode(c, &req)
	wav, err := s.deps.Assistant.Speech(c.UserContext(), req.Text)
	if err != nil {
		return err
	}

	s.deps.Metrics.ObserveBinary("wav", len(wav))
	c.Set(fiber.HeaderContentType, "audio/wav")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="speech.wav"`)
	return c.Send(wav)
}

type chatRequest struct {
	Context  string `json:"context"`
	Question string `json:"question"`
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	decode(c, &req)
	answer, err := s.deps.Assistant.Chat(c.UserContext(), req.Context, req.Question)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"answer": answer})
}

func (s *Server) handleGenerateMindmap(c *fiber.Ctx) error {
	var req textRequest
	decode(c, &req)
	code, err := s.deps.Assistant.Diagram(c.UserContext(), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"mermaidCode": code})
}

// decode fills v from a JSON body. A missing or malformed body leaves v
// zero, so the route reports the field it needed as missing.
func decode(c *fiber.Ctx, v any) {
	body := c.Body()
	if len(body) == 0 {
		return
	}
	if err := c.App().Config().JSONDecoder(body, v); err != nil {
		logger.DebugContext(c.UserContext(), "ignoring malformed JSON body",
			"route", c.Path(), logger.Err(err))
	}
}

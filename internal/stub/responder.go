package stub

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/feipenta/penta-web/internal/logger"
	"github.com/feipenta/penta-web/internal/model"
	"go.uber.org/zap"
)

const (
	DefaultMaxLength   = 100
	DefaultTemperature = 1.0

	EmptyPromptDetail   = "Prompt não pode ser vazio"
	acquisitionLogName  = "acquisitions.log"
	acquisitionTimeForm = "2006-01-02 15:04:05"
)

var ErrEmptyPrompt = errors.New(EmptyPromptDetail)

// Responder stands in for the remote generation service during local runs.
type Responder struct {
	acquisitions *zap.Logger
	now          func() time.Time
}

// NewResponder creates logDir if needed and appends acquisitions to
// logDir/acquisitions.log.
func NewResponder(logDir string) (*Responder, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	acquisitions, err := logger.NewFileLogger(filepath.Join(logDir, acquisitionLogName))
	if err != nil {
		return nil, fmt.Errorf("failed to open acquisition log: %w", err)
	}
	return &Responder{acquisitions: acquisitions, now: time.Now}, nil
}

func (r *Responder) Close() error {
	return r.acquisitions.Sync()
}

func (r *Responder) Respond(req model.StubGenerationRequest) (*model.StubGenerationResponse, error) {
	if req.Prompt == "" {
		return nil, ErrEmptyPrompt
	}
	maxLength := DefaultMaxLength
	if req.MaxLength != nil {
		maxLength = *req.MaxLength
	}
	temperature := DefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	response := cannedResponse(req.Prompt, maxLength, temperature)
	r.recordAcquisition(req.Prompt, response)

	return &model.StubGenerationResponse{
		Prompt:      req.Prompt,
		Response:    response,
		MaxLength:   maxLength,
		Temperature: temperature,
		Image:       placard(response),
	}, nil
}

func cannedResponse(prompt string, maxLength int, temperature float64) string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "olá"):
		return "Olá! Como posso ajudar você hoje?"
	case strings.Contains(lower, "ajuda"):
		return "Claro! Estou aqui para te auxiliar."
	case strings.Contains(lower, "teste"):
		return "Este é um teste do modelo fake. Tudo funcionando!"
	default:
		return fmt.Sprintf("[RESPOSTA SIMULADA] Prompt: %s, max_length: %d, temperature: %v", prompt, maxLength, temperature)
	}
}

func (r *Responder) recordAcquisition(prompt, response string) {
	line := fmt.Sprintf("[%s] PROMPT: %s | RESPONSE: %s", r.now().Format(acquisitionTimeForm), prompt, response)
	r.acquisitions.Info(line)
	logger.Info(line)
}

// placard renders text onto a small svg, returned as a data uri.
func placard(text string) string {
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="512" height="512">`+
		`<rect width="100%%" height="100%%" fill="#1d1f2b"/>`+
		`<foreignObject x="32" y="32" width="448" height="448">`+
		`<div xmlns="http://www.w3.org/1999/xhtml" style="color:#f5f5f5;font:20px sans-serif">%s</div>`+
		`</foreignObject></svg>`, html.EscapeString(text))
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

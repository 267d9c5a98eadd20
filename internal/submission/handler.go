package submission

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode"

	"github.com/feipenta/penta-web/internal/generator"
	"github.com/feipenta/penta-web/internal/logger"
	"github.com/google/uuid"
)

var (
	ErrEmptyPrompt = errors.New("empty prompt")
	ErrInFlight    = errors.New("a submission is already in flight")
)

// Generator turns a prompt into an image reference.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Handler runs submit-and-render cycles for one form. At most one
// generation is in flight at a time; extra submissions are refused.
type Handler struct {
	generator Generator
	notifier  Notifier
	logger    *logger.CustomLogger
	observers []func(State)

	mu       sync.Mutex
	state    State
	inFlight bool
}

type Option func(*Handler)

func WithLogger(l *logger.CustomLogger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

// WithObserver registers fn to be called with every new state, in order.
func WithObserver(fn func(State)) Option {
	return func(h *Handler) {
		h.observers = append(h.observers, fn)
	}
}

func NewHandler(g Generator, n Notifier, opts ...Option) *Handler {
	h := &Handler{
		generator: g,
		notifier:  n,
		logger:    logger.NewCustomLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Submit validates raw, then generates and waits for the outcome.
// The returned error is ErrEmptyPrompt, ErrInFlight or the generator's error;
// the user has already been alerted where appropriate.
func (h *Handler) Submit(ctx context.Context, raw string) error {
	prompt, id, err := h.begin(raw)
	if err != nil {
		return err
	}
	return h.run(ctx, id, prompt)
}

// Start is Submit without waiting for the generation. It returns once the
// handler is loading.
func (h *Handler) Start(raw string) (State, error) {
	prompt, id, err := h.begin(raw)
	if err != nil {
		return h.State(), err
	}
	loading := h.State()
	go h.run(context.Background(), id, prompt)
	return loading, nil
}

func (h *Handler) begin(raw string) (string, string, error) {
	prompt := trimPrompt(raw)
	if prompt == "" {
		h.notifier.Alert(EmptyPromptMessage)
		return "", "", ErrEmptyPrompt
	}

	h.mu.Lock()
	if h.inFlight {
		h.mu.Unlock()
		h.logger.Warnf("submission ignored, another one is in flight")
		return "", "", ErrInFlight
	}
	h.inFlight = true
	id := uuid.New().String()
	h.mu.Unlock()
	h.logger.Debugf("submission %s accepted, %d bytes", id, len(prompt))

	h.transition(State{Status: StatusLoading, SubmissionId: id})
	return prompt, id, nil
}

func (h *Handler) run(ctx context.Context, id, prompt string) error {
	log := h.logger.With("submission_id", id)
	// leaving Loading happens here and only here, whatever the outcome
	next := State{Status: StatusIdle, SubmissionId: id}
	defer func() {
		h.transition(next)
		h.mu.Lock()
		h.inFlight = false
		h.mu.Unlock()
	}()

	log.Infof("generating image, prompt: %q", prompt)
	image, err := h.generator.Generate(ctx, prompt)
	if err != nil {
		log.Errorf("generation failed, kind: %s, err: %s", generator.Kind(err), errorDetail(err))
		message := FailurePrefix + err.Error()
		next = State{Status: StatusFailed, SubmissionId: id, Message: message}
		h.notifier.Alert(message)
		return err
	}
	log.Infof("generation completed")
	next = State{Status: StatusSuccess, SubmissionId: id, Image: image}
	return nil
}

func (h *Handler) transition(s State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
	for _, fn := range h.observers {
		fn(s)
	}
}

// trimPrompt strips the same characters as a browser's String.prototype.trim,
// which includes the byte order mark.
func trimPrompt(raw string) string {
	return strings.TrimFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

func errorDetail(err error) string {
	var statusErr *generator.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Detail()
	}
	return err.Error()
}

package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/sortviz/internal/presentation/tui"
	"github.com/muesli/termenv"
)

// DefaultWidth is the terminal width assumed when none is configured.
const DefaultWidth = 64

// TextHandler draws frames as bar charts and reads commands line by line.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	Profile  termenv.Profile
	Width    int

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the markdown renderer for system output.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerProfile sets the colour profile. Defaults to termenv.Ascii (no colour).
func WithTextHandlerProfile(p termenv.Profile) TextHandlerOption {
	return func(h *TextHandler) {
		h.Profile = p
	}
}

// WithTextHandlerWidth sets the column budget for bars.
func WithTextHandlerWidth(width int) TextHandlerOption {
	return func(h *TextHandler) {
		if width > 0 {
			h.Width = width
		}
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Profile: termenv.Ascii,
		Width:   DefaultWidth,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines on its own goroutine so Input can give up on ctx.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, frame Frame) error {
	_, err := fmt.Fprint(h.Writer, "\n"+tui.RenderStep(frame.Step, frame.Index, frame.Total, h.Profile, h.Width))
	return err
}

// Input prompts and returns the next line with surrounding blanks removed. Validation
// belongs to the command parser.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(h.Writer, "> ")

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-h.inputChan:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	output := msg
	if h.Renderer != nil {
		if rendered, err := h.Renderer(msg); err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintf(h.Writer, "\n%s\n", strings.TrimSpace(output))
	return err
}

package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/logging"
)

// Recognizer turns an image into text.
type Recognizer interface {
	Recognize(ctx context.Context, raw []byte) (string, error)
}

// TesseractCLI recognises text by piping the image through the tesseract
// binary. It reports domain.ErrOCRUnavailable when the binary is missing.
type TesseractCLI struct {
	Path      string // defaults to "tesseract" on PATH
	Languages string // defaults to "ell+eng"
}

func (t TesseractCLI) Recognize(ctx context.Context, raw []byte) (string, error) {
	bin := t.Path
	if bin == "" {
		bin = "tesseract"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrOCRUnavailable, err)
	}
	langs := t.Languages
	if langs == "" {
		langs = "ell+eng"
	}

	cmd := exec.CommandContext(ctx, path, "stdin", "stdout", "-l", langs)
	cmd.Stdin = bytes.NewReader(raw)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// ImageExtractor recognises text in an image and runs the text patterns
// over it. When recognition cannot run the result is marked Unavailable
// and carries no facts.
type ImageExtractor struct {
	Recognizer Recognizer
	Text       *TextExtractor
	Logger     logging.Logger
}

func (e *ImageExtractor) Extract(ctx context.Context, raw []byte, filename string) *domain.PartialFacts {
	if e.Recognizer == nil {
		p := newPartial(SourceImage)
		p.Unavailable = true
		soft(e.Logger, p, "recognising "+filename, domain.ErrOCRUnavailable)
		return p
	}
	text, err := e.Recognizer.Recognize(ctx, raw)
	if err != nil {
		p := newPartial(SourceImage)
		p.Unavailable = errors.Is(err, domain.ErrOCRUnavailable)
		soft(e.Logger, p, "recognising "+filename, err)
		return p
	}
	return textAnalyzer(e.Text).Analyze(text, SourceImage)
}

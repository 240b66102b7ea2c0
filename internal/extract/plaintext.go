package extract

import (
	"bytes"
	"context"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"

	"github.com/rgehrsitz/grpension/internal/domain"
)

// PlainTextExtractor runs the text patterns over a .txt upload.
type PlainTextExtractor struct {
	Text *TextExtractor
}

func (e *PlainTextExtractor) Extract(ctx context.Context, raw []byte, filename string) *domain.PartialFacts {
	return textAnalyzer(e.Text).Analyze(DecodeText(raw), SourceText)
}

// DecodeText decodes UTF-8 or BOM-marked UTF-16, falling back to the Greek
// Windows-1253 code page for legacy exports.
func DecodeText(raw []byte) string {
	if bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) || bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) {
		dec := xunicode.UTF16(xunicode.LittleEndian, xunicode.UseBOM).NewDecoder()
		if out, err := dec.Bytes(raw); err == nil {
			return string(out)
		}
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw)
	}
	out, err := charmap.Windows1253.NewDecoder().Bytes(raw)
	if err != nil {
		return string(bytes.ToValidUTF8(raw, []byte("?")))
	}
	return string(out)
}

package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/saintfish/chardet"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html/charset"

	"github.com/webtop-os/webtop/internal/shared/paths"
	"github.com/webtop-os/webtop/internal/shared/types"
)

// markdown renders GFM-flavored documents, sanitized before anything
// reaches the shell's DOM.
var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// ErrNoPreview marks files whose type has no quick-look rendering.
var ErrNoPreview = errors.New("no preview")

// Preview is a render-ready view of one file.
type Preview struct {
	Kind string `json:"kind"` // "markdown", "text" or "image"
	HTML string `json:"html,omitempty"`
	Text string `json:"text,omitempty"`
	UUID string `json:"uuid,omitempty"`
	MIME string `json:"mime,omitempty"`
}

// PreviewFile renders a file for the shell's quick-look panel. Markdown
// becomes sanitized HTML; plain text is decoded to UTF-8, sniffing the
// charset when the raw bytes are not valid; images hand back the content
// reference for the shell to stream. Anything else has no preview.
func (m *Manager) PreviewFile(ctx context.Context, path string) (*Preview, error) {
	path = paths.Normalize(path)
	item, ok := m.fs.Get(path)
	if !ok || item.Trashed() {
		return nil, fmt.Errorf("nothing to preview at %s", path)
	}
	if item.IsDirectory || item.UUID == "" {
		return nil, fmt.Errorf("%w for %s", ErrNoPreview, path)
	}

	if item.Type.IsImage() {
		return &Preview{
			Kind: "image",
			UUID: item.UUID,
			MIME: imageMIME(item.Type),
		}, nil
	}

	bucket := types.BucketForType(item.Type)
	entry, found, err := m.loader.EnsureLoaded(ctx, bucket, item.UUID)
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", path, err)
	}
	if !found {
		return nil, fmt.Errorf("content for %s is missing", path)
	}

	switch item.Type {
	case types.TypeMarkdown:
		text, err := decodeText(entry.Content)
		if err != nil {
			return nil, fmt.Errorf("preview %s: %w", path, err)
		}
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(text), &buf); err != nil {
			return nil, fmt.Errorf("render %s: %w", path, err)
		}
		return &Preview{
			Kind: "markdown",
			HTML: sanitizer.Sanitize(buf.String()),
		}, nil

	case types.TypeText:
		text, err := decodeText(entry.Content)
		if err != nil {
			return nil, fmt.Errorf("preview %s: %w", path, err)
		}
		return &Preview{Kind: "text", Text: text}, nil
	}

	return nil, fmt.Errorf("%w for %s files", ErrNoPreview, item.Type)
}

func imageMIME(t types.ItemType) string {
	switch t {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "svg":
		return "image/svg+xml"
	case "ico":
		return "image/x-icon"
	default:
		return "image/" + string(t)
	}
}

// decodeText returns content as UTF-8, detecting the charset of legacy
// encodings.
func decodeText(content []byte) (string, error) {
	if utf8.Valid(content) {
		return string(content), nil
	}

	result, err := chardet.NewTextDetector().DetectBest(content)
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}
	reader, err := charset.NewReaderLabel(result.Charset, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("charset %s: %w", result.Charset, err)
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", result.Charset, err)
	}
	return string(decoded), nil
}

package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtop-os/webtop/internal/shared/types"
)

// TestPreviewMarkdown tests rendering and sanitizing a markdown file.
func TestPreviewMarkdown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addDir(t, "/Documents")
	src := "# Notes\n\n**bold** move\n\n<script>alert(1)</script>\n"
	f.saveFile(t, "/Documents/doc.md", []byte(src), "")

	p, err := f.ws.PreviewFile(ctx, "/Documents/doc.md")
	require.NoError(t, err)

	assert.Equal(t, "markdown", p.Kind)
	assert.Contains(t, p.HTML, "<h1")
	assert.Contains(t, p.HTML, "<strong>bold</strong>")
	assert.NotContains(t, p.HTML, "<script")
	assert.Empty(t, p.Text)
}

// TestPreviewText tests plain UTF-8 passthrough.
func TestPreviewText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addDir(t, "/Documents")
	f.saveFile(t, "/Documents/plain.txt", []byte("Ünïcode is fine\n"), "")

	p, err := f.ws.PreviewFile(ctx, "/Documents/plain.txt")
	require.NoError(t, err)

	assert.Equal(t, "text", p.Kind)
	assert.Equal(t, "Ünïcode is fine\n", p.Text)
	assert.Empty(t, p.HTML)
}

// TestPreviewLegacyEncoding tests charset sniffing for non-UTF-8 text.
func TestPreviewLegacyEncoding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addDir(t, "/Documents")
	latin1 := []byte("Un r\xe9sum\xe9 d\xe9taill\xe9 du caf\xe9 pr\xe9f\xe9r\xe9, r\xe9dig\xe9 et v\xe9rifi\xe9 hier soir encore.")
	f.saveFile(t, "/Documents/legacy.txt", latin1, types.TypeText)

	p, err := f.ws.PreviewFile(ctx, "/Documents/legacy.txt")
	require.NoError(t, err)

	assert.Contains(t, p.Text, "résumé")
	assert.Contains(t, p.Text, "café")
}

// TestPreviewImage tests that images hand back a content reference
// without loading bytes.
func TestPreviewImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addDir(t, "/Pictures")
	item := f.saveFile(t, "/Pictures/photo.jpg", []byte("jpegish"), "")

	p, err := f.ws.PreviewFile(ctx, "/Pictures/photo.jpg")
	require.NoError(t, err)

	assert.Equal(t, "image", p.Kind)
	assert.Equal(t, item.UUID, p.UUID)
	assert.Equal(t, "image/jpeg", p.MIME)
	assert.Empty(t, p.HTML)

	// Never-fetched images preview too; the shell streams them on demand.
	require.True(t, f.fs.Add(&types.FileItem{
		Path: "/Pictures/cold.png",
		Type: types.ItemType("png"),
		UUID: "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
	}))
	p, err = f.ws.PreviewFile(ctx, "/Pictures/cold.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", p.MIME)
}

// TestPreviewRejects tests the files that have no preview.
func TestPreviewRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addDir(t, "/Documents")

	_, err := f.ws.PreviewFile(ctx, "/Documents")
	assert.Error(t, err)
	_, err = f.ws.PreviewFile(ctx, "/Documents/ghost.txt")
	assert.Error(t, err)

	f.saveFile(t, "/Documents/blob.bin", []byte{0x00, 0x01, 0x02, 0x03}, "")
	_, err = f.ws.PreviewFile(ctx, "/Documents/blob.bin")
	assert.Error(t, err)

	f.saveFile(t, "/Documents/gone.txt", []byte("x"), "")
	require.True(t, f.ws.MoveToTrash(ctx, "/Documents/gone.txt"))
	_, err = f.ws.PreviewFile(ctx, "/Documents/gone.txt")
	assert.Error(t, err)
}

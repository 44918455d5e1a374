package plugin

import (
	"testing"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	require.Equal(t, []string{ImageType, MarkdownType}, r.Types())

	p, ok := r.Provider(MarkdownType)
	require.True(t, ok)
	require.IsType(t, Markdown{}, p)

	_, ok = r.Provider("video")
	require.False(t, ok)

	r.Register("video", Image{})
	_, ok = r.Provider("video")
	require.True(t, ok)
}

func TestIsAccessibleStoragePath(t *testing.T) {
	require.True(t, IsAccessibleStoragePath("cdn://document-media/a/b.png", "room1"))
	require.True(t, IsAccessibleStoragePath("cdn://document-media/a/b.png", ""))
	require.True(t, IsAccessibleStoragePath("cdn://room-media/room1/b.png", "room1"))
	require.False(t, IsAccessibleStoragePath("cdn://room-media/room2/b.png", "room1"))
	require.False(t, IsAccessibleStoragePath("cdn://room-media/room2/b.png", ""))

	require.True(t, IsCdnURL("cdn://x"))
	require.False(t, IsCdnURL("cdn://"))
	require.False(t, IsCdnURL("https://example.com/x.png"))
}

func TestMarkdown(t *testing.T) {
	content := document.Content{"text": "![a](cdn://document-media/a.png) and [b](cdn://room-media/r2/b.pdf) https://example.com/c.png"}

	require.Equal(t, []string{"cdn://document-media/a.png", "cdn://room-media/r2/b.pdf"}, Markdown{}.GetCdnResources(content))
	require.Empty(t, Markdown{}.GetCdnResources(document.Content{}))

	redacted := Markdown{}.RedactContent(content, "r1")
	require.Equal(t, "![a](cdn://document-media/a.png) and [b]() https://example.com/c.png", redacted["text"])
	require.Contains(t, content["text"], "cdn://room-media/r2/b.pdf", "input must not be modified")

	same := Markdown{}.RedactContent(content, "r2")
	require.Equal(t, content["text"], same["text"])
}

func TestImage(t *testing.T) {
	internal := document.Content{"sourceType": "internal", "sourceUrl": "cdn://room-media/r2/i.png", "copyrightNotice": "me"}
	external := document.Content{"sourceType": "external", "sourceUrl": "https://example.com/i.png"}

	require.Equal(t, []string{"cdn://room-media/r2/i.png"}, Image{}.GetCdnResources(internal))
	require.Empty(t, Image{}.GetCdnResources(external))

	redacted := Image{}.RedactContent(internal, "r1")
	require.Equal(t, "", redacted["sourceUrl"])
	require.Equal(t, "me", redacted["copyrightNotice"])
	require.Equal(t, "cdn://room-media/r2/i.png", internal["sourceUrl"])

	require.Equal(t, "cdn://room-media/r2/i.png", Image{}.RedactContent(internal, "r2")["sourceUrl"])
	require.Equal(t, "https://example.com/i.png", Image{}.RedactContent(external, "r1")["sourceUrl"])
}

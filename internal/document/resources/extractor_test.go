package resources

import (
	"testing"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/plugin"
	"github.com/stretchr/testify/require"
)

type urlProvider struct{}

func (urlProvider) GetCdnResources(content document.Content) []string {
	return []string{content.String("url")}
}

func TestExtractCdnResources_DeduplicatesAndSkipsUnknownTypes(t *testing.T) {
	reg := plugin.NewRegistry()
	reg.Register("a", urlProvider{})

	sections := []document.SectionRevision{
		{Key: "1", Type: "a", Content: document.Content{"url": "x"}},
		{Key: "2", Type: "a", Content: document.Content{"url": "x"}},
		{Key: "3", Type: "unknown", Content: document.Content{}},
	}
	require.Equal(t, []string{"x"}, ExtractCdnResources(sections, reg))
}

func TestExtractCdnResources_SkipsTombstonesAndEmptyEntries(t *testing.T) {
	reg := plugin.NewDefaultRegistry()
	sections := []document.SectionRevision{
		{Key: "1", Type: plugin.MarkdownType, Content: document.Content{"text": "cdn://document-media/z.png cdn://document-media/b.png"}},
		{Key: "2", Type: plugin.ImageType, Content: document.Content{"sourceType": "internal", "sourceUrl": ""}},
		{Key: "3", Type: plugin.ImageType, Content: document.Content{"sourceType": "internal", "sourceUrl": "cdn://room-media/r1/a.png"}},
		{Key: "4", Type: plugin.MarkdownType, Content: nil, DeletedBy: "u1"},
	}
	require.Equal(t, []string{
		"cdn://document-media/b.png",
		"cdn://document-media/z.png",
		"cdn://room-media/r1/a.png",
	}, ExtractCdnResources(sections, reg))
}

func TestExtractCdnResources_Empty(t *testing.T) {
	got := ExtractCdnResources(nil, plugin.NewRegistry())
	require.NotNil(t, got)
	require.Empty(t, got)
}

package plugin

import "github.com/gogotex/gogotex/backend/doc-revisions/internal/document"

const (
	ImageType = "image"

	// SourceTypeInternal marks a sourceUrl stored in the CDN; external
	// sources are plain web urls and carry no resource.
	SourceTypeInternal = "internal"
)

// Image handles sections of the form {"sourceType", "sourceUrl", ...}.
type Image struct{}

func (Image) GetCdnResources(content document.Content) []string {
	if content.String("sourceType") != SourceTypeInternal {
		return nil
	}
	return []string{content.String("sourceUrl")}
}

func (Image) RedactContent(content document.Content, targetScopeID string) document.Content {
	out := content.Clone()
	if out.String("sourceType") == SourceTypeInternal && !IsAccessibleStoragePath(out.String("sourceUrl"), targetScopeID) {
		out["sourceUrl"] = ""
	}
	return out
}

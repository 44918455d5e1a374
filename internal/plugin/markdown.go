package plugin

import (
	"regexp"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
)

const MarkdownType = "markdown"

var cdnURLPattern = regexp.MustCompile(`cdn://[^\s()\[\]<>"']+`)

// Markdown handles sections of the form {"text": "..."}. Resources are the
// cdn:// links and images embedded in the text.
type Markdown struct{}

func (Markdown) GetCdnResources(content document.Content) []string {
	return cdnURLPattern.FindAllString(content.String("text"), -1)
}

// RedactContent blanks out links to media of rooms other than targetScopeID.
func (Markdown) RedactContent(content document.Content, targetScopeID string) document.Content {
	out := content.Clone()
	if text, ok := out["text"].(string); ok {
		out["text"] = cdnURLPattern.ReplaceAllStringFunc(text, func(url string) string {
			if IsAccessibleStoragePath(url, targetScopeID) {
				return url
			}
			return ""
		})
	}
	return out
}

// Package resources builds the CDN resource manifest of a document revision.
package resources

import (
	"sort"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/plugin"
)

// ExtractCdnResources returns the sorted, de-duplicated CDN references of all
// live sections. Sections whose type has no provider are skipped.
func ExtractCdnResources(sections []document.SectionRevision, providers plugin.Lookup) []string {
	set := make(map[string]struct{})
	for _, s := range sections {
		if s.Content == nil {
			continue
		}
		p, ok := providers.Provider(s.Type)
		if !ok {
			continue
		}
		for _, ref := range p.GetCdnResources(s.Content) {
			if ref == "" {
				continue
			}
			set[ref] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for ref := range set {
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}

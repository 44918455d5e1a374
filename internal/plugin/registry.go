// Package plugin holds the per section type content providers.
package plugin

import (
	"sort"
	"sync"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
)

// Provider exposes the content-specific behaviour the revision engine needs
// for one section type.
type Provider interface {
	// GetCdnResources returns the CDN references embedded in content.
	GetCdnResources(content document.Content) []string
}

// Redactor is implemented by providers whose content may hold scope-relative
// references that must be rewritten when the content moves to another scope.
type Redactor interface {
	RedactContent(content document.Content, targetScopeID string) document.Content
}

// Lookup resolves the provider for a section type.
type Lookup interface {
	Provider(sectionType string) (Provider, bool)
}

// Registry maps section types to providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// NewDefaultRegistry returns a registry with the built-in providers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(MarkdownType, Markdown{})
	r.Register(ImageType, Image{})
	return r
}

// Register installs p for sectionType, replacing any previous provider.
func (r *Registry) Register(sectionType string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[sectionType] = p
}

func (r *Registry) Provider(sectionType string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[sectionType]
	return p, ok
}

// Types returns the registered section types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.providers))
	for t := range r.providers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

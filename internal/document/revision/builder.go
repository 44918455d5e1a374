// Package revision decides, section by section, whether an edit reuses the
// prior version of a section or produces a new one.
package revision

import (
	"time"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
	"github.com/google/uuid"
)

// Decision is the outcome of building one section revision.
type Decision string

const (
	// Reuse keeps the ancestor's revision because nothing changed.
	Reuse Decision = "reuse"
	// Continue carries a tombstoned ancestor forward unchanged.
	Continue Decision = "continue"
	// Create mints a new revision id.
	Create Decision = "create"
	// Revive mints a new revision id for content replacing a tombstone.
	Revive Decision = "revive"
)

// IDGenerator returns globally unique, opaque revision ids.
type IDGenerator func() string

// Builder produces section revisions. It holds no mutable state and is safe
// for concurrent use.
type Builder struct {
	newID IDGenerator
}

// NewBuilder returns a Builder using gen for new revision ids. A nil gen
// falls back to random UUIDs.
func NewBuilder(gen IDGenerator) *Builder {
	if gen == nil {
		gen = uuid.NewString
	}
	return &Builder{newID: gen}
}

// Build returns the section revision for section given the revision of the
// same section in the previous document revision (nil when the section is
// new). isRestore relaxes the rules on tombstones: only a restore may
// introduce a tombstone from authored deletion info or revive a tombstone.
func (b *Builder) Build(section document.Section, ancestor *document.SectionRevision, isRestore bool) (document.SectionRevision, Decision, error) {
	if section.Key == "" || section.Type == "" {
		return document.SectionRevision{}, "", document.InvalidSection("section key and type must be set")
	}
	if ancestor != nil {
		if ancestor.Key == "" || ancestor.Type == "" {
			return document.SectionRevision{}, "", document.InvalidSection("ancestor section key and type must be set")
		}
		if ancestor.Type != section.Type {
			return document.SectionRevision{}, "", document.InvalidSection("section type cannot change")
		}
	}

	if section.Content == nil {
		return b.buildDeleted(section, ancestor, isRestore)
	}

	if ancestor != nil && ancestor.IsTombstone() {
		if !isRestore {
			return document.SectionRevision{}, "", document.InvalidSection("ancestor is deleted, cannot be revived")
		}
		return b.live(section), Revive, nil
	}

	if ancestor != nil && ancestor.Content.Equal(section.Content) {
		return ancestor.Clone(), Reuse, nil
	}
	return b.live(section), Create, nil
}

func (b *Builder) buildDeleted(section document.Section, ancestor *document.SectionRevision, isRestore bool) (document.SectionRevision, Decision, error) {
	if !isRestore {
		if ancestor != nil && ancestor.IsTombstone() {
			return ancestor.Clone(), Continue, nil
		}
		return document.SectionRevision{}, "", document.InvalidSection("section must specify content")
	}

	if !section.HasDeletionInfo() {
		return document.SectionRevision{}, "", document.InvalidSection("deletion info required")
	}
	if ancestor != nil && sameDeletion(section, *ancestor) {
		return ancestor.Clone(), Reuse, nil
	}

	deletedOn := *section.DeletedOn
	return document.SectionRevision{
		Revision:       b.newID(),
		Key:            section.Key,
		Type:           section.Type,
		Content:        nil,
		DeletedOn:      &deletedOn,
		DeletedBy:      section.DeletedBy,
		DeletedBecause: section.DeletedBecause,
	}, Create, nil
}

func (b *Builder) live(section document.Section) document.SectionRevision {
	return document.SectionRevision{
		Revision: b.newID(),
		Key:      section.Key,
		Type:     section.Type,
		Content:  section.Content.Clone(),
	}
}

func sameDeletion(section document.Section, ancestor document.SectionRevision) bool {
	return sameTime(section.DeletedOn, ancestor.DeletedOn) &&
		section.DeletedBy == ancestor.DeletedBy &&
		section.DeletedBecause == ancestor.DeletedBecause
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

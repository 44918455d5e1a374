package document

import "time"

// Section is a section as authored by an editor, before it is versioned.
// A nil Content means the section is deleted; the Deleted* fields are only
// meaningful in that case.
type Section struct {
	Key            string     `json:"key"`
	Type           string     `json:"type"`
	Content        Content    `json:"content"`
	DeletedOn      *time.Time `json:"deletedOn,omitempty"`
	DeletedBy      string     `json:"deletedBy,omitempty"`
	DeletedBecause string     `json:"deletedBecause,omitempty"`
}

// HasDeletionInfo reports whether all three deletion fields are present.
func (s Section) HasDeletionInfo() bool {
	return s.DeletedOn != nil && s.DeletedBy != "" && s.DeletedBecause != ""
}

// SectionRevision is one persisted version of a section. Revisions holding
// the same Revision id across document revisions share that version.
type SectionRevision struct {
	Revision       string     `json:"revision" bson:"revision"`
	Key            string     `json:"key" bson:"key"`
	Type           string     `json:"type" bson:"type"`
	Content        Content    `json:"content" bson:"content"`
	DeletedOn      *time.Time `json:"deletedOn,omitempty" bson:"deletedOn,omitempty"`
	DeletedBy      string     `json:"deletedBy,omitempty" bson:"deletedBy,omitempty"`
	DeletedBecause string     `json:"deletedBecause,omitempty" bson:"deletedBecause,omitempty"`
}

// IsTombstone reports whether the section version was hard-deleted.
func (s SectionRevision) IsTombstone() bool {
	return s.Content == nil
}

// AsSection returns the authored view of the revision (content and deletion
// metadata as stored).
func (s SectionRevision) AsSection() Section {
	return Section{
		Key:            s.Key,
		Type:           s.Type,
		Content:        s.Content,
		DeletedOn:      s.DeletedOn,
		DeletedBy:      s.DeletedBy,
		DeletedBecause: s.DeletedBecause,
	}
}

// Clone returns a deep copy.
func (s SectionRevision) Clone() SectionRevision {
	out := s
	out.Content = s.Content.Clone()
	out.DeletedOn = cloneTime(s.DeletedOn)
	return out
}

// DocumentRevision is one snapshot of a whole document. All revisions of a
// document share its Key and are ordered by Order.
type DocumentRevision struct {
	ID           string            `json:"_id" bson:"_id"`
	Key          string            `json:"key" bson:"key"`
	Order        int               `json:"order" bson:"order"`
	CreatedOn    time.Time         `json:"createdOn" bson:"createdOn"`
	CreatedBy    string            `json:"createdBy" bson:"createdBy"`
	Title        string            `json:"title" bson:"title"`
	Slug         string            `json:"slug" bson:"slug"`
	Description  string            `json:"description,omitempty" bson:"description,omitempty"`
	Language     string            `json:"language,omitempty" bson:"language,omitempty"`
	Sections     []SectionRevision `json:"sections" bson:"sections"`
	RestoredFrom string            `json:"restoredFrom,omitempty" bson:"restoredFrom,omitempty"`
	CdnResources []string          `json:"cdnResources" bson:"cdnResources"`
}

// SectionByKey returns the entry for key, if the revision has one.
func (r *DocumentRevision) SectionByKey(key string) (*SectionRevision, bool) {
	for i := range r.Sections {
		if r.Sections[i].Key == key {
			return &r.Sections[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy that shares no mutable state with r.
func (r DocumentRevision) Clone() DocumentRevision {
	out := r
	if r.Sections != nil {
		out.Sections = make([]SectionRevision, len(r.Sections))
		for i, s := range r.Sections {
			out.Sections[i] = s.Clone()
		}
	}
	if r.CdnResources != nil {
		out.CdnResources = make([]string, len(r.CdnResources))
		copy(out.CdnResources, r.CdnResources)
	}
	return out
}

// CloneChain deep copies every revision of a chain.
func CloneChain(chain []DocumentRevision) []DocumentRevision {
	out := make([]DocumentRevision, len(chain))
	for i, r := range chain {
		out[i] = r.Clone()
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

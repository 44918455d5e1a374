package service

import (
	"context"
	"fmt"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
	"github.com/gogotex/gogotex/backend/doc-revisions/pkg/metrics"
)

// RestoreDocumentRevision appends a new current revision with the content of
// a historic one and returns the updated chain. Sections whose content (or
// deletion state) is unchanged against the current revision keep their
// revision id; every other section gets a new one.
func (s *revisionService) RestoreDocumentRevision(ctx context.Context, p RestoreParams) ([]document.DocumentRevision, error) {
	unlock, err := s.locker.Lock(ctx, p.DocumentKey)
	if err != nil {
		return nil, fmt.Errorf("lock document %s: %w", p.DocumentKey, err)
	}
	defer unlock()

	chain, err := s.repo.LoadChain(ctx, p.DocumentKey)
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		return nil, document.NotFound("document %s", p.DocumentKey)
	}

	var target *document.DocumentRevision
	for i := range chain {
		if chain[i].ID == p.RevisionID {
			target = &chain[i]
			break
		}
	}
	if target == nil {
		return nil, document.NotFound("revision %s of document %s", p.RevisionID, p.DocumentKey)
	}
	current := &chain[len(chain)-1]

	authored := make([]document.Section, len(target.Sections))
	for i, sec := range target.Sections {
		authored[i] = sec.AsSection()
	}
	sections, decisions, err := s.buildSections(authored, current, true)
	if err != nil {
		return nil, fmt.Errorf("restore revision %s: %w", p.RevisionID, err)
	}

	fields := DocumentFields{
		Title:       target.Title,
		Slug:        target.Slug,
		Description: target.Description,
		Language:    target.Language,
	}
	restored := s.newRevision(p.DocumentKey, len(chain), fields, sections, p.User)
	restored.RestoredFrom = p.RevisionID

	if err := s.repo.Persist(ctx, []document.DocumentRevision{restored}); err != nil {
		return nil, err
	}
	recordDecisions(decisions, "restore")
	metrics.Restores.Inc()
	s.log.Infof("document %s: restored revision %s as %s", p.DocumentKey, p.RevisionID, restored.ID)

	return append(chain, restored), nil
}

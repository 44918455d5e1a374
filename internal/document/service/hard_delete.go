package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document/resources"
	"github.com/gogotex/gogotex/backend/doc-revisions/pkg/metrics"
)

// HardDeleteSection destroys the content of a section version in every
// document revision that shares it. With DeleteAllRevisions every version of
// the section is destroyed. Entries that already are tombstones keep their
// original deletion metadata.
func (s *revisionService) HardDeleteSection(ctx context.Context, p HardDeleteSectionParams) error {
	if strings.TrimSpace(p.Reason) == "" {
		return document.InvalidSection("deletion reason required")
	}
	if p.User == "" {
		return document.InvalidSection("deleting user required")
	}

	unlock, err := s.locker.Lock(ctx, p.DocumentKey)
	if err != nil {
		return fmt.Errorf("lock document %s: %w", p.DocumentKey, err)
	}
	defer unlock()

	chain, err := s.repo.LoadChain(ctx, p.DocumentKey)
	if err != nil {
		return err
	}
	if len(chain) == 0 {
		return document.NotFound("document %s", p.DocumentKey)
	}

	runs := sharedRevisionRuns(chain, p.SectionKey, p.SectionRevision)
	if len(runs) == 0 {
		return document.NotFound("revision %s of section %s in document %s", p.SectionRevision, p.SectionKey, p.DocumentKey)
	}

	var targets []int
	if p.DeleteAllRevisions {
		for i := range chain {
			if _, ok := chain[i].SectionByKey(p.SectionKey); ok {
				targets = append(targets, i)
			}
		}
	} else {
		for _, run := range runs {
			targets = append(targets, run...)
		}
	}

	deletedOn := s.now()
	var changed []document.DocumentRevision
	for _, i := range targets {
		sec, _ := chain[i].SectionByKey(p.SectionKey)
		if sec.IsTombstone() {
			continue
		}
		on := deletedOn
		sec.Content = nil
		sec.DeletedOn = &on
		sec.DeletedBy = p.User
		sec.DeletedBecause = p.Reason
		chain[i].CdnResources = resources.ExtractCdnResources(chain[i].Sections, s.providers)
		changed = append(changed, chain[i])
	}
	if len(changed) == 0 {
		s.log.Debugf("document %s: section %s already deleted in all %d targeted revisions", p.DocumentKey, p.SectionKey, len(targets))
		return nil
	}

	if err := s.repo.Persist(ctx, changed); err != nil {
		return err
	}
	metrics.HardDeletedSections.Add(float64(len(changed)))
	s.log.Infof("document %s: hard-deleted section %s in %d revisions (all=%v, runs=%d)",
		p.DocumentKey, p.SectionKey, len(changed), p.DeleteAllRevisions, len(runs))
	return nil
}

// sharedRevisionRuns scans the chain for runs of adjacent revisions whose
// entry for sectionKey carries sectionRevision. A run ends at the first
// revision whose entry has another id or no entry for the key at all.
func sharedRevisionRuns(chain []document.DocumentRevision, sectionKey, sectionRevision string) [][]int {
	var runs [][]int
	var run []int
	for i := range chain {
		if sec, ok := chain[i].SectionByKey(sectionKey); ok && sec.Revision == sectionRevision {
			run = append(run, i)
			continue
		}
		if run != nil {
			runs = append(runs, run)
			run = nil
		}
	}
	if run != nil {
		runs = append(runs, run)
	}
	return runs
}

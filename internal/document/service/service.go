package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document/repository"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document/resources"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document/revision"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/lock"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/plugin"
	"github.com/gogotex/gogotex/backend/doc-revisions/pkg/logger"
	"github.com/gogotex/gogotex/backend/doc-revisions/pkg/metrics"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service defines the document revision operations used by the handler layer.
type Service interface {
	CreateDocument(ctx context.Context, p CreateParams) (document.DocumentRevision, error)
	UpdateDocument(ctx context.Context, p UpdateParams) (document.DocumentRevision, error)
	GetDocument(ctx context.Context, documentKey string) (document.DocumentRevision, error)
	GetRevisions(ctx context.Context, documentKey string) ([]document.DocumentRevision, error)
	ListDocumentKeys(ctx context.Context) ([]string, error)
	RestoreDocumentRevision(ctx context.Context, p RestoreParams) ([]document.DocumentRevision, error)
	HardDeleteSection(ctx context.Context, p HardDeleteSectionParams) error
}

// DocumentFields are the document-level fields of a revision.
type DocumentFields struct {
	Title       string
	Slug        string
	Description string
	Language    string
}

type CreateParams struct {
	DocumentFields
	Sections []document.Section
	User     string
}

type UpdateParams struct {
	DocumentKey string
	DocumentFields
	Sections []document.Section
	User     string
}

type RestoreParams struct {
	DocumentKey string
	RevisionID  string
	User        string
}

type HardDeleteSectionParams struct {
	DocumentKey     string
	SectionKey      string
	SectionRevision string
	Reason          string
	// DeleteAllRevisions widens the scope from the shared section revision
	// to every revision of the section.
	DeleteAllRevisions bool
	User               string
}

// Option configures the service.
type Option func(*revisionService)

// WithClock overrides the time source used for revision and deletion timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *revisionService) { s.now = now }
}

// WithIDGenerator overrides the generator for document keys and revision ids.
func WithIDGenerator(gen revision.IDGenerator) Option {
	return func(s *revisionService) { s.newID = gen }
}

// WithLocker sets the document-level lock (default: process-local).
func WithLocker(l lock.Locker) Option {
	return func(s *revisionService) { s.locker = l }
}

// WithProviders sets the plugin providers used to build resource manifests.
func WithProviders(p plugin.Lookup) Option {
	return func(s *revisionService) { s.providers = p }
}

// New returns a Service on top of repo.
func New(repo repository.Repository, opts ...Option) Service {
	s := &revisionService{
		repo:      repo,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		locker:    lock.NewMemoryLocker(),
		providers: plugin.NewDefaultRegistry(),
		log:       logger.With("document-service"),
	}
	for _, o := range opts {
		o(s)
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	s.builder = revision.NewBuilder(s.newID)
	return s
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService(opts ...Option) Service {
	return New(repository.NewMemoryRepo(), opts...)
}

// NewMongoService returns a Service backed by a MongoDB collection.
// Caller is responsible for creating the collection (and client) and passing it in.
func NewMongoService(ctx context.Context, col *mongo.Collection, opts ...Option) (Service, error) {
	repo, err := repository.NewMongoRepo(ctx, col)
	if err != nil {
		return nil, err
	}
	return New(repo, opts...), nil
}

type revisionService struct {
	repo      repository.Repository
	builder   *revision.Builder
	newID     revision.IDGenerator
	now       func() time.Time
	locker    lock.Locker
	providers plugin.Lookup
	log       *logger.Logger
}

func (s *revisionService) CreateDocument(ctx context.Context, p CreateParams) (document.DocumentRevision, error) {
	sections, decisions, err := s.buildSections(p.Sections, nil, false)
	if err != nil {
		return document.DocumentRevision{}, err
	}
	rev := s.newRevision(s.newID(), 0, p.DocumentFields, sections, p.User)
	if err := s.repo.Persist(ctx, []document.DocumentRevision{rev}); err != nil {
		return document.DocumentRevision{}, err
	}
	recordDecisions(decisions, "create")
	s.log.Infof("created document %s with %d sections", rev.Key, len(rev.Sections))
	return rev, nil
}

func (s *revisionService) UpdateDocument(ctx context.Context, p UpdateParams) (document.DocumentRevision, error) {
	unlock, err := s.locker.Lock(ctx, p.DocumentKey)
	if err != nil {
		return document.DocumentRevision{}, fmt.Errorf("lock document %s: %w", p.DocumentKey, err)
	}
	defer unlock()

	chain, err := s.repo.LoadChain(ctx, p.DocumentKey)
	if err != nil {
		return document.DocumentRevision{}, err
	}
	if len(chain) == 0 {
		return document.DocumentRevision{}, document.NotFound("document %s", p.DocumentKey)
	}
	current := &chain[len(chain)-1]

	sections, decisions, err := s.buildSections(p.Sections, current, false)
	if err != nil {
		return document.DocumentRevision{}, err
	}
	rev := s.newRevision(p.DocumentKey, len(chain), p.DocumentFields, sections, p.User)
	if err := s.repo.Persist(ctx, []document.DocumentRevision{rev}); err != nil {
		return document.DocumentRevision{}, err
	}
	recordDecisions(decisions, "update")
	s.log.Debugf("document %s: appended revision %s (order %d)", rev.Key, rev.ID, rev.Order)
	return rev, nil
}

func (s *revisionService) GetDocument(ctx context.Context, documentKey string) (document.DocumentRevision, error) {
	chain, err := s.GetRevisions(ctx, documentKey)
	if err != nil {
		return document.DocumentRevision{}, err
	}
	return chain[len(chain)-1], nil
}

func (s *revisionService) GetRevisions(ctx context.Context, documentKey string) ([]document.DocumentRevision, error) {
	chain, err := s.repo.LoadChain(ctx, documentKey)
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		return nil, document.NotFound("document %s", documentKey)
	}
	return chain, nil
}

func (s *revisionService) ListDocumentKeys(ctx context.Context) ([]string, error) {
	return s.repo.ListDocumentKeys(ctx)
}

// buildSections versions every section against the same-key section of
// ancestor. Section keys must be unique within one revision.
func (s *revisionService) buildSections(sections []document.Section, ancestor *document.DocumentRevision, isRestore bool) ([]document.SectionRevision, []revision.Decision, error) {
	out := make([]document.SectionRevision, 0, len(sections))
	decisions := make([]revision.Decision, 0, len(sections))
	seen := make(map[string]struct{}, len(sections))
	for _, sec := range sections {
		if _, dup := seen[sec.Key]; dup && sec.Key != "" {
			return nil, nil, document.InvalidSection("duplicate section key")
		}
		seen[sec.Key] = struct{}{}

		var prior *document.SectionRevision
		if ancestor != nil {
			prior, _ = ancestor.SectionByKey(sec.Key)
		}
		built, decision, err := s.builder.Build(sec, prior, isRestore)
		if err != nil {
			return nil, nil, fmt.Errorf("section %s: %w", sec.Key, err)
		}
		out = append(out, built)
		decisions = append(decisions, decision)
	}
	return out, decisions, nil
}

func (s *revisionService) newRevision(documentKey string, order int, fields DocumentFields, sections []document.SectionRevision, user string) document.DocumentRevision {
	return document.DocumentRevision{
		ID:           s.newID(),
		Key:          documentKey,
		Order:        order,
		CreatedOn:    s.now(),
		CreatedBy:    user,
		Title:        fields.Title,
		Slug:         fields.Slug,
		Description:  fields.Description,
		Language:     fields.Language,
		Sections:     sections,
		CdnResources: resources.ExtractCdnResources(sections, s.providers),
	}
}

func recordDecisions(decisions []revision.Decision, operation string) {
	for _, d := range decisions {
		metrics.SectionRevisions.WithLabelValues(string(d), operation).Inc()
	}
}

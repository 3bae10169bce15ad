package docs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/primex/docs-cms/internal/docs/repository"
	"github.com/primex/docs-cms/internal/editor"
	"github.com/primex/docs-cms/internal/mdx"
	"github.com/primex/docs-cms/pkg/logger"
	"github.com/primex/docs-cms/pkg/metrics"
)

// ArtifactStore persists published MDX outside the database (object storage).
// StoreMDX returns the artifact location for the publish result.
type ArtifactStore interface {
	StoreMDX(ctx context.Context, docID, source string) (string, error)
}

// PublishListener is notified after a successful publish so dependent systems
// (search index, caches) can refresh. Listener failures never fail the publish.
type PublishListener interface {
	DocumentPublished(ctx context.Context, doc editor.Document, source string)
}

// Service implements the document lifecycle: creation, block and metadata
// edits, review submission, publishing, validation, default selection, and
// ordering. Permission checks short-circuit before any mutation.
type Service struct {
	repo      repository.Repository
	validator *Validator
	artifacts ArtifactStore
	listener  PublishListener
	now       func() time.Time
}

// Option configures optional service collaborators.
type Option func(*Service)

func WithArtifactStore(store ArtifactStore) Option {
	return func(s *Service) { s.artifacts = store }
}

func WithPublishListener(l PublishListener) Option {
	return func(s *Service) { s.listener = l }
}

func NewService(repo repository.Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		validator: NewValidator(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newDocID() string {
	return fmt.Sprintf("doc_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// CreateParams are the caller-supplied metadata fields for a new document.
// Every field is optional; zero values fall back to editor defaults.
type CreateParams struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Slug        string           `json:"slug"`
	Category    string           `json:"category"`
	APIStatus   editor.APIStatus `json:"apiStatus"`
	Version     string           `json:"version"`
	Order       int              `json:"order"`
}

// Create inserts a new draft owned by the session user.
func (s *Service) Create(ctx context.Context, sess editor.Session, params CreateParams) (*editor.Document, error) {
	if !sess.Permissions.CanCreate {
		return nil, fmt.Errorf("%w: cannot create documents", ErrPermissionDenied)
	}

	id := newDocID()
	meta := editor.DocumentMetadata{
		ID:           id,
		Title:        params.Title,
		Description:  params.Description,
		Slug:         params.Slug,
		Category:     params.Category,
		Status:       editor.StatusDraft,
		APIStatus:    params.APIStatus,
		Version:      params.Version,
		Order:        params.Order,
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
		CreatedBy:    sess.UserID,
		LastEditedBy: sess.UserID,
	}
	if meta.Title == "" {
		meta.Title = "Untitled Document"
	}
	if meta.Slug == "" {
		meta.Slug = "untitled-" + id
	}
	if meta.Category == "" {
		meta.Category = "getting-started"
	}
	if meta.APIStatus == "" {
		meta.APIStatus = editor.APIStable
	}
	if meta.Version == "" {
		meta.Version = "v1"
	}
	if meta.Order == 0 {
		meta.Order = 999
	}

	rec := &repository.Record{Metadata: meta, Blocks: []editor.Block{}}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, err
	}
	doc := rec.Document()
	return &doc, nil
}

// Get returns a document in any lifecycle state.
func (s *Service) Get(ctx context.Context, id string) (*editor.Document, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := rec.Document()
	return &doc, nil
}

// List returns metadata for the documents visible to the session: everything
// for admins, drafts plus own documents otherwise.
func (s *Service) List(ctx context.Context, sess editor.Session) ([]editor.DocumentMetadata, error) {
	var recs []*repository.Record
	var err error
	if sess.IsAdmin() {
		recs, err = s.repo.List(ctx)
	} else {
		recs, err = s.repo.ListVisible(ctx, sess.UserID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]editor.DocumentMetadata, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Metadata)
	}
	return out, nil
}

// ListPublished returns metadata for the public reading surface.
func (s *Service) ListPublished(ctx context.Context) ([]editor.DocumentMetadata, error) {
	recs, err := s.repo.ListByStatus(ctx, editor.StatusPublished)
	if err != nil {
		return nil, err
	}
	out := make([]editor.DocumentMetadata, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Metadata)
	}
	return out, nil
}

// PublishedDoc is the public view of one published document.
type PublishedDoc struct {
	Metadata   editor.DocumentMetadata `json:"metadata"`
	MDXContent string                  `json:"mdxContent"`
}

// GetPublished returns a published document with its MDX source, preferring
// the cache written at publish time and regenerating when it is absent.
func (s *Service) GetPublished(ctx context.Context, id string) (*PublishedDoc, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Metadata.Status != editor.StatusPublished {
		return nil, ErrNotFound
	}
	source := rec.GeneratedMDX
	if source == "" {
		source = mdx.Generate(rec.Document())
	}
	return &PublishedDoc{Metadata: rec.Metadata, MDXContent: source}, nil
}

// Landing resolves the default landing document, falling back to the first
// published document when no default is set.
func (s *Service) Landing(ctx context.Context) (*editor.DocumentMetadata, error) {
	rec, err := s.repo.GetDefault(ctx)
	if err != nil {
		return nil, err
	}
	meta := rec.Metadata
	return &meta, nil
}

// SaveBlocks replaces a document's content. The generated MDX is compile-
// checked inline: a failure on a published document blocks the save to
// protect the live site, while the same failure on a draft or in-review
// document is logged and allowed so work in progress is never lost.
func (s *Service) SaveBlocks(ctx context.Context, sess editor.Session, id string, blocks []editor.Block) (*editor.Document, error) {
	if !sess.Permissions.CanEdit {
		return nil, fmt.Errorf("%w: cannot edit documents", ErrPermissionDenied)
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	published := rec.Metadata.Status == editor.StatusPublished
	if published && !sess.IsAdmin() {
		return nil, fmt.Errorf("%w: cannot edit published documents", ErrPermissionDenied)
	}

	candidate := editor.Document{Metadata: rec.Metadata, Blocks: blocks}
	if err := s.validator.CheckCompile(candidate); err != nil {
		metrics.MDXCompileFailures.Inc()
		if published {
			return nil, &PublishedSaveError{Cause: err}
		}
		logger.Warnf("saving invalid MDX for %s %s: %v", rec.Metadata.Status, id, err)
	}

	rec.Blocks = blocks
	rec.Metadata.UpdatedAt = s.now()
	rec.Metadata.LastEditedBy = sess.UserID
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	doc := rec.Document()
	return &doc, nil
}

// MetadataPatch updates individual metadata fields. Nil fields are left
// untouched. ID and Status are deliberately not patchable: the ID is
// immutable and status moves only through lifecycle operations.
type MetadataPatch struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Slug        *string           `json:"slug"`
	Category    *string           `json:"category"`
	APIStatus   *editor.APIStatus `json:"apiStatus"`
	Version     *string           `json:"version"`
	Order       *int              `json:"order"`
}

// UpdateMetadata applies a partial metadata update.
func (s *Service) UpdateMetadata(ctx context.Context, sess editor.Session, id string, patch MetadataPatch) (*editor.Document, error) {
	if !sess.Permissions.CanEdit {
		return nil, fmt.Errorf("%w: cannot edit documents", ErrPermissionDenied)
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		rec.Metadata.Title = *patch.Title
	}
	if patch.Description != nil {
		rec.Metadata.Description = *patch.Description
	}
	if patch.Slug != nil {
		rec.Metadata.Slug = *patch.Slug
	}
	if patch.Category != nil {
		rec.Metadata.Category = *patch.Category
	}
	if patch.APIStatus != nil {
		rec.Metadata.APIStatus = *patch.APIStatus
	}
	if patch.Version != nil {
		rec.Metadata.Version = *patch.Version
	}
	if patch.Order != nil {
		rec.Metadata.Order = *patch.Order
	}
	rec.Metadata.UpdatedAt = s.now()
	rec.Metadata.LastEditedBy = sess.UserID

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	doc := rec.Document()
	return &doc, nil
}

// Rename changes only the title.
func (s *Service) Rename(ctx context.Context, sess editor.Session, id, title string) (*editor.Document, error) {
	return s.UpdateMetadata(ctx, sess, id, MetadataPatch{Title: &title})
}

// SubmitForReview moves a draft into review. The document must validate.
func (s *Service) SubmitForReview(ctx context.Context, sess editor.Session, id string) (*editor.Document, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Metadata.Status != editor.StatusDraft {
		return nil, fmt.Errorf("only drafts can be submitted for review (status is %s)", rec.Metadata.Status)
	}

	report := s.validator.Validate(rec.Document())
	if !report.Passed {
		metrics.ValidationFailures.Inc()
		return nil, &ValidationFailedError{Report: report}
	}

	rec.Metadata.Status = editor.StatusInReview
	rec.Metadata.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	doc := rec.Document()
	return &doc, nil
}

// PublishResult reports what a publish produced: the MDX source, where the
// artifact lives, and the resulting status.
type PublishResult struct {
	MDXContent string `json:"mdxContent"`
	FilePath   string `json:"filePath"`
	Status     string `json:"status"`
}

// Publish validates, generates the final MDX, stores it as the document's
// cache, and exports it to the artifact store when one is configured.
func (s *Service) Publish(ctx context.Context, sess editor.Session, id string) (*PublishResult, error) {
	if !sess.Permissions.CanPublish {
		return nil, fmt.Errorf("%w: only admins can publish", ErrPermissionDenied)
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	report := s.validator.Validate(rec.Document())
	if !report.Passed {
		metrics.ValidationFailures.Inc()
		return nil, &ValidationFailedError{Report: report}
	}

	source := mdx.Generate(rec.Document())

	rec.Metadata.Status = editor.StatusPublished
	rec.Metadata.UpdatedAt = s.now()
	rec.GeneratedMDX = source
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	metrics.DocumentPublishes.Inc()

	path := "database_stored"
	if s.artifacts != nil {
		if key, err := s.artifacts.StoreMDX(ctx, id, source); err != nil {
			logger.Errorf("artifact export failed for %s: %v", id, err)
		} else {
			path = key
		}
	}

	if s.listener != nil {
		s.listener.DocumentPublished(ctx, rec.Document(), source)
	}

	return &PublishResult{MDXContent: source, FilePath: path, Status: string(editor.StatusPublished)}, nil
}

// Deprecate marks a document deprecated. Reachable from any state.
func (s *Service) Deprecate(ctx context.Context, sess editor.Session, id string) (*editor.Document, error) {
	if !sess.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can deprecate documents", ErrPermissionDenied)
	}
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Metadata.Status = editor.StatusDeprecated
	rec.Metadata.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	doc := rec.Document()
	return &doc, nil
}

// SetDefault marks a document as the landing page. The repository enforces
// the single-holder invariant in one operation.
func (s *Service) SetDefault(ctx context.Context, sess editor.Session, id string) (*editor.Document, error) {
	if !sess.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can set the default document", ErrPermissionDenied)
	}
	if err := s.repo.SetDefault(ctx, id); err != nil {
		return nil, err
	}
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := rec.Document()
	return &doc, nil
}

// Validate runs the rule set against a stored document.
func (s *Service) Validate(ctx context.Context, id string) (*ValidationReport, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	report := s.validator.Validate(rec.Document())
	return &report, nil
}

// Preview generates MDX from the current blocks without persisting anything.
func (s *Service) Preview(ctx context.Context, id string) (string, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return mdx.Generate(rec.Document()), nil
}

// Move swaps a document's order with its nearest neighbor in the category.
func (s *Service) Move(ctx context.Context, sess editor.Session, id string, dir repository.Direction) error {
	if !sess.Permissions.CanEdit {
		return fmt.Errorf("%w: cannot reorder documents", ErrPermissionDenied)
	}
	return s.repo.MoveOrder(ctx, id, dir)
}

// Reorder applies explicit order values in bulk.
func (s *Service) Reorder(ctx context.Context, sess editor.Session, items []repository.OrderUpdate) error {
	if !sess.Permissions.CanEdit {
		return fmt.Errorf("%w: cannot reorder documents", ErrPermissionDenied)
	}
	return s.repo.Reorder(ctx, items)
}

// Delete removes a document in any state.
func (s *Service) Delete(ctx context.Context, sess editor.Session, id string) error {
	if !sess.Permissions.CanDelete {
		return fmt.Errorf("%w: cannot delete documents", ErrPermissionDenied)
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

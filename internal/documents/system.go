package documents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/nlc-digital/landcom/internal/cases"
	"github.com/nlc-digital/landcom/pkg/storage"
)

// maxConcurrentUploads bounds parallel blob uploads in a batch attach.
const maxConcurrentUploads = 4

// System defines the public contract for document operations against a case.
type System interface {
	Handler(maxUploadSize int64) *Handler

	Attach(ctx context.Context, caseID uuid.UUID, cmd AttachCommand, actor cases.Actor) (*cases.Case, error)
	AttachBatch(ctx context.Context, caseID uuid.UUID, cmds []AttachCommand, actor cases.Actor) (*BatchResult, error)
	Download(ctx context.Context, caseID, docID uuid.UUID) (io.ReadCloser, *cases.Document, error)
	Completeness(ctx context.Context, caseID uuid.UUID) ([]CategoryCheck, error)
}

// AttachCommand carries one file to attach to a case.
type AttachCommand struct {
	Filename    string
	ContentType string
	Category    cases.Category
	Data        []byte
}

// Validate checks required fields.
func (cmd AttachCommand) Validate() error {
	if cmd.Filename == "" || len(cmd.Data) == 0 {
		return ErrInvalidFile
	}
	if _, err := cases.ParseCategory(string(cmd.Category)); err != nil {
		return err
	}
	return nil
}

// BatchFailure records one file that could not be attached.
type BatchFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// BatchResult reports the outcome of a batch attach. Failed uploads never
// abort the batch; the successfully uploaded files are still attached.
type BatchResult struct {
	Case     *cases.Case    `json:"case"`
	Attached []uuid.UUID    `json:"attached"`
	Failed   []BatchFailure `json:"failed"`
}

type svc struct {
	cases   cases.System
	storage storage.System
	logger  *slog.Logger
}

// New creates a document system backed by the given case system and blob storage.
func New(cs cases.System, store storage.System, logger *slog.Logger) System {
	return &svc{
		cases:   cs,
		storage: store,
		logger:  logger.With("system", "documents"),
	}
}

func (s *svc) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *svc) Attach(ctx context.Context, caseID uuid.UUID, cmd AttachCommand, actor cases.Actor) (*cases.Case, error) {
	doc, err := s.upload(ctx, caseID, cmd, actor)
	if err != nil {
		return nil, err
	}

	c, err := s.attachAll(ctx, caseID, []cases.Document{*doc}, actor)
	if err != nil {
		s.compensate(ctx, doc.StorageKey)
		return nil, err
	}

	return c, nil
}

func (s *svc) AttachBatch(ctx context.Context, caseID uuid.UUID, cmds []AttachCommand, actor cases.Actor) (*BatchResult, error) {
	if len(cmds) == 0 {
		return nil, ErrNoFiles
	}

	var mu sync.Mutex
	docs := make([]cases.Document, 0, len(cmds))
	failed := make([]BatchFailure, 0)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)

	for _, cmd := range cmds {
		g.Go(func() error {
			doc, err := s.upload(gctx, caseID, cmd, actor)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, BatchFailure{
					Filename: cmd.Filename,
					Error:    err.Error(),
				})
				return nil
			}
			docs = append(docs, *doc)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return &BatchResult{Failed: failed}, nil
	}

	c, err := s.attachAll(ctx, caseID, docs, actor)
	if err != nil {
		for _, doc := range docs {
			s.compensate(ctx, doc.StorageKey)
		}
		return nil, err
	}

	attached := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		attached = append(attached, doc.ID)
	}

	return &BatchResult{Case: c, Attached: attached, Failed: failed}, nil
}

func (s *svc) Download(ctx context.Context, caseID, docID uuid.UUID) (io.ReadCloser, *cases.Document, error) {
	c, err := s.cases.Find(ctx, caseID)
	if err != nil {
		return nil, nil, err
	}

	doc := c.FindDocument(docID)
	if doc == nil {
		return nil, nil, cases.ErrDocumentNotFound
	}

	reader, err := s.storage.Download(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, err
	}

	return reader, doc, nil
}

func (s *svc) Completeness(ctx context.Context, caseID uuid.UUID) ([]CategoryCheck, error) {
	c, err := s.cases.Find(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return CheckCompleteness(c), nil
}

// upload stores the blob and builds the document record; the case itself is
// not touched until attachAll.
func (s *svc) upload(ctx context.Context, caseID uuid.UUID, cmd AttachCommand, actor cases.Actor) (*cases.Document, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	key := buildStorageKey(caseID, id, sanitizeFilename(cmd.Filename))

	if err := s.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	now := time.Now().UTC()
	format := DetectFormat(cmd.Filename)

	return &cases.Document{
		ID:         id,
		Filename:   cmd.Filename,
		Format:     format,
		Category:   cmd.Category,
		UploadedBy: actor.Label(),
		UploadedAt: now,
		PageCount:  extractPDFPageCount(s.logger, cmd.Data, format),
		StorageKey: key,
		Flow:       NewFlow(now),
	}, nil
}

func (s *svc) attachAll(ctx context.Context, caseID uuid.UUID, docs []cases.Document, actor cases.Actor) (*cases.Case, error) {
	return cases.Mutate(ctx, s.cases, caseID, func(c cases.Case) (cases.Case, error) {
		now := time.Now().UTC()
		out := c.Clone()

		for _, doc := range docs {
			out.Documents = append(out.Documents, doc)
			out.Logs = append(out.Logs, cases.LogEntry{
				ID:        uuid.New(),
				Action:    "Document Uploaded",
				User:      actor.Label(),
				Role:      actor.Role,
				Timestamp: now,
				Note:      doc.Filename,
			})
		}
		out.UpdatedAt = now

		return out, nil
	})
}

func (s *svc) compensate(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("compensating blob delete failed", "key", key, "error", err)
	}
}

func buildStorageKey(caseID, docID uuid.UUID, filename string) string {
	return fmt.Sprintf("cases/%s/documents/%s/%s", caseID, docID, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}

func extractPDFPageCount(logger *slog.Logger, data []byte, format cases.Format) *int {
	if format != cases.FormatPDF {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}

	return &count
}

// Package review manages uploaded assessments and their annotations for the
// length of a review session.
package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/softservesoftware/stig-bee/pkg/adapters"
	"github.com/softservesoftware/stig-bee/pkg/metrics"
	"github.com/softservesoftware/stig-bee/pkg/models/domain"
	"github.com/softservesoftware/stig-bee/pkg/models/store"
	"github.com/softservesoftware/stig-bee/pkg/services/checklist"
	"github.com/softservesoftware/stig-bee/pkg/services/normalize"
	"github.com/softservesoftware/stig-bee/pkg/store/duckdb"
	"github.com/softservesoftware/stig-bee/pkg/store/duckdb/annotation"
	"github.com/softservesoftware/stig-bee/pkg/store/duckdb/assessment"
)

type Service interface {
	Open(ctx context.Context, fileName string, data []byte) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	Close(ctx context.Context, id string) error
	Annotate(ctx context.Context, id, findingID string, ann domain.Annotation) (domain.Finding, error)
	SetAsset(ctx context.Context, id string, asset domain.Asset) (*domain.Session, error)
	Checklist(ctx context.Context, id string) (string, []byte, error)
}

type Dependencies struct {
	DB          *sql.DB
	Assessments assessment.Store
	Annotations annotation.Store
	Metrics     *metrics.Recorder
	Now         func() time.Time
}

type defaultService struct {
	db          *sql.DB
	assessments assessment.Store
	annotations annotation.Store
	metrics     *metrics.Recorder
	now         func() time.Time
}

func NewService(deps Dependencies) (Service, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if deps.Assessments == nil || deps.Annotations == nil {
		return nil, fmt.Errorf("assessment and annotation stores are required")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &defaultService{
		db:          deps.DB,
		assessments: deps.Assessments,
		annotations: deps.Annotations,
		metrics:     deps.Metrics,
		now:         deps.Now,
	}, nil
}

// ValidateUpload checks the file extension, which must be .xml or .ckl.
func ValidateUpload(fileName string) error {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xml", ".ckl":
		return nil
	}
	return domain.UnsupportedFile("%q is not an .xml or .ckl file", fileName)
}

// ValidateFormat checks the normalized document against its file name: a
// .ckl file must hold a CHECKLIST, while .xml accepts either root.
func ValidateFormat(fileName string, a *domain.Assessment) error {
	if strings.EqualFold(filepath.Ext(fileName), ".ckl") && a.Format != domain.FormatCKL {
		return domain.UnsupportedFile("%q has a .ckl extension but no CHECKLIST root", fileName)
	}
	return nil
}

func (s *defaultService) Open(ctx context.Context, fileName string, data []byte) (*domain.Session, error) {
	if err := ValidateUpload(fileName); err != nil {
		return nil, err
	}

	start := time.Now()
	a, err := normalize.NormalizeBytes(ctx, data)
	format := ""
	if a != nil {
		format = string(a.Format)
	}
	s.metrics.DocumentNormalized(format, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if err := ValidateFormat(fileName, a); err != nil {
		return nil, err
	}
	if a.FileName == "" {
		a.FileName = filepath.Base(fileName)
	}

	doc, err := json.Marshal(adapters.MapDomainAssessmentToStoreDocument(a))
	if err != nil {
		return nil, fmt.Errorf("encode assessment: %w", err)
	}

	sess := &domain.Session{
		ID:          uuid.NewString(),
		FileName:    filepath.Base(fileName),
		CreatedAt:   s.now().UTC(),
		Assessment:  a,
		Annotations: domain.Annotations{},
	}
	err = s.assessments.Create(ctx, &store.Assessment{
		ID:           sess.ID,
		FileName:     sess.FileName,
		SourceFormat: string(a.Format),
		Document:     doc,
		CreatedAt:    sess.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("store assessment: %w", err)
	}

	s.metrics.SessionOpened()
	for sev, n := range domain.Summarize(a.Findings).BySeverity {
		s.metrics.FindingsNormalized(string(sev), n)
	}

	zerolog.Ctx(ctx).Info().
		Str("session", sess.ID).
		Str("file", sess.FileName).
		Str("format", string(a.Format)).
		Int("findings", len(a.Findings)).
		Msg("assessment opened")
	return sess, nil
}

func (s *defaultService) Get(ctx context.Context, id string) (*domain.Session, error) {
	row, err := s.assessments.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "assessment %q", id)
	}

	var doc store.AssessmentDocument
	if err := json.Unmarshal(row.Document, &doc); err != nil {
		return nil, fmt.Errorf("decode assessment %s: %w", id, err)
	}

	rows, err := s.annotations.List(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load annotations: %w", err)
	}

	return &domain.Session{
		ID:          row.ID,
		FileName:    row.FileName,
		CreatedAt:   row.CreatedAt,
		Assessment:  adapters.MapStoreDocumentToDomain(&doc),
		Annotations: adapters.MapStoreAnnotationsToDomain(rows),
	}, nil
}

func (s *defaultService) Close(ctx context.Context, id string) error {
	err := duckdb.InTransaction(ctx, s.db, func(ctx context.Context) error {
		if err := s.annotations.DeleteAll(ctx, id); err != nil {
			return err
		}
		return s.assessments.Delete(ctx, id)
	})
	if err != nil {
		return notFound(err, "assessment %q", id)
	}

	s.metrics.SessionClosed()
	zerolog.Ctx(ctx).Info().Str("session", id).Msg("assessment closed")
	return nil
}

func (s *defaultService) Annotate(ctx context.Context, id, findingID string, ann domain.Annotation) (domain.Finding, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return domain.Finding{}, err
	}
	f, ok := sess.Assessment.Finding(findingID)
	if !ok {
		return domain.Finding{}, domain.NotFound("finding %q in assessment %q", findingID, id)
	}
	if ann.IsEmpty() {
		return sess.Annotations.Apply(f), nil
	}

	// fields are merged by the upsert itself, then read back
	var rows []store.Annotation
	err = duckdb.InTransaction(ctx, s.db, func(ctx context.Context) error {
		if err := s.annotations.Upsert(ctx, adapters.MapDomainAnnotationToStore(id, findingID, ann)); err != nil {
			return err
		}
		if err := s.assessments.Touch(ctx, id, s.now().UTC()); err != nil {
			return err
		}
		list, err := s.annotations.List(ctx, id)
		rows = list
		return err
	})
	if err != nil {
		return domain.Finding{}, fmt.Errorf("save annotation: %w", notFound(err, "assessment %q", id))
	}
	sess.Annotations = adapters.MapStoreAnnotationsToDomain(rows)

	resolved := sess.Annotations.Apply(f)
	s.metrics.AnnotationSaved(string(resolved.Status))
	zerolog.Ctx(ctx).Debug().
		Str("session", id).
		Str("finding", findingID).
		Str("status", string(resolved.Status)).
		Msg("annotation saved")
	return resolved, nil
}

func (s *defaultService) SetAsset(ctx context.Context, id string, asset domain.Asset) (*domain.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.Assessment.Asset = asset

	doc, err := json.Marshal(adapters.MapDomainAssessmentToStoreDocument(sess.Assessment))
	if err != nil {
		return nil, fmt.Errorf("encode assessment: %w", err)
	}
	if err := s.assessments.UpdateDocument(ctx, id, doc, s.now().UTC()); err != nil {
		return nil, notFound(err, "assessment %q", id)
	}
	return sess, nil
}

// Checklist renders the session as CKL and returns its download name.
func (s *defaultService) Checklist(ctx context.Context, id string) (string, []byte, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}

	out, err := checklist.Project(sess.Assessment, sess.Annotations)
	s.metrics.ChecklistExported("download", err)
	if err != nil {
		return "", nil, err
	}
	return checklist.FileName(sess.Assessment.Title), out, nil
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, store.ErrNotFound) {
		return domain.NotFound(format, args...)
	}
	return err
}

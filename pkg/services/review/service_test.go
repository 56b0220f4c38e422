package review

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softservesoftware/stig-bee/pkg/metrics"
	"github.com/softservesoftware/stig-bee/pkg/models/domain"
	"github.com/softservesoftware/stig-bee/pkg/services/normalize"
	"github.com/softservesoftware/stig-bee/pkg/store/duckdb"
	"github.com/softservesoftware/stig-bee/pkg/store/duckdb/annotation"
	"github.com/softservesoftware/stig-bee/pkg/store/duckdb/assessment"
)

const benchmark = `<?xml version="1.0" encoding="UTF-8"?>
<Benchmark id="Test_STIG">
  <title>Test STIG</title>
  <Group id="V-1"><title>G1</title><Rule id="SV-1_rule" severity="high"><title>One</title></Rule></Group>
  <Group id="V-2"><title>G2</title><Rule id="SV-2_rule" severity="low"><title>Two</title></Rule></Group>
</Benchmark>`

type fixture struct {
	db      *sql.DB
	service Service
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: duckdb.InMemory})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	assessments, err := assessment.NewStore(db)
	require.NoError(t, err)
	annotations, err := annotation.NewStore(db)
	require.NoError(t, err)

	svc, err := NewService(Dependencies{
		DB:          db,
		Assessments: assessments,
		Annotations: annotations,
		Metrics:     metrics.NewRecorder(),
		Now:         func() time.Time { return time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	return &fixture{db: db, service: svc}
}

func status(s domain.Status) *domain.Status {
	return &s
}

func text(s string) *string {
	return &s
}

func TestNewService_RequiresDependencies(t *testing.T) {
	_, err := NewService(Dependencies{})
	assert.Error(t, err)
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload("rhel.xml"))
	assert.NoError(t, ValidateUpload("host.CKL"))
	assert.ErrorIs(t, ValidateUpload("notes.txt"), domain.ErrUnsupportedFile)
	assert.ErrorIs(t, ValidateUpload("noext"), domain.ErrUnsupportedFile)
}

func TestValidateFormat(t *testing.T) {
	xccdf := &domain.Assessment{Format: domain.FormatXCCDF}
	ckl := &domain.Assessment{Format: domain.FormatCKL}

	assert.NoError(t, ValidateFormat("rhel.xml", xccdf))
	assert.NoError(t, ValidateFormat("host.xml", ckl))
	assert.NoError(t, ValidateFormat("host.CKL", ckl))
	assert.ErrorIs(t, ValidateFormat("rhel.ckl", xccdf), domain.ErrUnsupportedFile)
}

func TestService_OpenAndGet(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	sess, err := f.service.Open(ctx, "uploads/test.xml", []byte(benchmark))
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "test.xml", sess.FileName)
	assert.Equal(t, "Test STIG", sess.Assessment.Title)

	got, err := f.service.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Assessment, got.Assessment)
	assert.Equal(t, sess.CreatedAt.Unix(), got.CreatedAt.Unix())
	assert.Empty(t, got.Annotations)

	_, err = f.service.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_OpenRejects(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.service.Open(ctx, "x.pdf", []byte(benchmark))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFile)

	_, err = f.service.Open(ctx, "x.ckl", []byte(benchmark))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFile, ".ckl must hold a CHECKLIST")

	_, err = f.service.Open(ctx, "x.xml", []byte("<Benchmark>"))
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
}

func TestService_Annotate(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	sess, err := f.service.Open(ctx, "test.xml", []byte(benchmark))
	require.NoError(t, err)

	got, err := f.service.Annotate(ctx, sess.ID, "V-1", domain.Annotation{Status: status(domain.StatusOpen)})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, got.Status)

	// a later comment keeps the saved status
	got, err = f.service.Annotate(ctx, sess.ID, "V-1", domain.Annotation{Comments: text("needs patch")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, got.Status)
	assert.Equal(t, "needs patch", got.Comments)

	reloaded, err := f.service.Get(ctx, sess.ID)
	require.NoError(t, err)
	findings := reloaded.Findings()
	assert.Equal(t, domain.StatusOpen, findings[0].Status)
	assert.Equal(t, "needs patch", findings[0].Comments)
	assert.Equal(t, domain.StatusNotReviewed, findings[1].Status)

	_, err = f.service.Annotate(ctx, sess.ID, "V-404", domain.Annotation{Status: status(domain.StatusOpen)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_SetAsset(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	sess, err := f.service.Open(ctx, "test.xml", []byte(benchmark))
	require.NoError(t, err)

	asset := domain.DefaultAsset()
	asset.HostName = "db01"
	_, err = f.service.SetAsset(ctx, sess.ID, asset)
	require.NoError(t, err)

	got, err := f.service.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "db01", got.Assessment.Asset.HostName)

	_, err = f.service.SetAsset(ctx, "missing", asset)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Checklist(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	sess, err := f.service.Open(ctx, "test.xml", []byte(benchmark))
	require.NoError(t, err)
	_, err = f.service.Annotate(ctx, sess.ID, "V-2", domain.Annotation{Status: status(domain.StatusNotApplicable)})
	require.NoError(t, err)

	name, out, err := f.service.Checklist(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "test_stig.ckl", name)

	// the download re-imports as an equivalent checklist
	a, err := normalize.NormalizeBytes(ctx, out)
	require.NoError(t, err)
	require.Len(t, a.Findings, 2)
	assert.Equal(t, domain.StatusNotApplicable, a.Findings[1].Status)
	assert.Equal(t, domain.SeverityHigh, a.Findings[0].Severity)
}

func TestService_Close(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	sess, err := f.service.Open(ctx, "test.xml", []byte(benchmark))
	require.NoError(t, err)
	_, err = f.service.Annotate(ctx, sess.ID, "V-1", domain.Annotation{Comments: text("x")})
	require.NoError(t, err)

	require.NoError(t, f.service.Close(ctx, sess.ID))

	_, err = f.service.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var n int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM annotations WHERE assessment_id = ?`, sess.ID).Scan(&n))
	assert.Zero(t, n)

	assert.ErrorIs(t, f.service.Close(ctx, sess.ID), domain.ErrNotFound)
}

package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/audit"
)

type fakeAuditRepository struct {
	createFn          func(ctx context.Context, entry *audit.AuditLog) error
	findAllByBranchFn func(ctx context.Context, branchID string, limit, offset int) ([]audit.AuditLog, int64, error)
}

func (f *fakeAuditRepository) Create(ctx context.Context, entry *audit.AuditLog) error {
	if f.createFn != nil {
		return f.createFn(ctx, entry)
	}
	return nil
}

func (f *fakeAuditRepository) FindAllByBranch(ctx context.Context, branchID string, limit, offset int) ([]audit.AuditLog, int64, error) {
	if f.findAllByBranchFn != nil {
		return f.findAllByBranchFn(ctx, branchID, limit, offset)
	}
	return nil, 0, nil
}

func validEntry() audit.RecordEntry {
	return audit.RecordEntry{
		BranchID:   uuid.New().String(),
		Action:     "schedule_request.approved",
		EntityType: "schedule_change_request",
		EntityID:   uuid.New().String(),
		ActorID:    uuid.New().String(),
		Detail:     []byte(`{"request_no":"SCR-00001"}`),
		OccurredAt: time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC),
	}
}

func TestAuditService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := &fakeAuditRepository{}
		var created *audit.AuditLog
		repo.createFn = func(ctx context.Context, entry *audit.AuditLog) error {
			created = entry
			return nil
		}
		svc := audit.NewService(repo)

		entry := validEntry()
		err := svc.Record(ctx, entry)

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, entry.Action, created.Action)
		assert.Equal(t, entry.EntityType, created.EntityType)
		assert.NotNil(t, created.ActorID)
		assert.Equal(t, entry.OccurredAt, created.OccurredAt)
	})

	t.Run("duplicate entry is swallowed", func(t *testing.T) {
		repo := &fakeAuditRepository{}
		repo.createFn = func(ctx context.Context, entry *audit.AuditLog) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_audit_entity_action"}
		}
		svc := audit.NewService(repo)

		err := svc.Record(ctx, validEntry())

		assert.NoError(t, err)
	})

	t.Run("negative repo failure propagates", func(t *testing.T) {
		repo := &fakeAuditRepository{}
		repo.createFn = func(ctx context.Context, entry *audit.AuditLog) error {
			return errors.New("connection reset")
		}
		svc := audit.NewService(repo)

		err := svc.Record(ctx, validEntry())

		assert.EqualError(t, err, "connection reset")
	})

	t.Run("negative malformed branch id", func(t *testing.T) {
		svc := audit.NewService(&fakeAuditRepository{})

		entry := validEntry()
		entry.BranchID = "not-a-uuid"
		err := svc.Record(ctx, entry)

		assert.Error(t, err)
	})
}

func TestAuditService_List(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()

	t.Run("clamps page and limit", func(t *testing.T) {
		repo := &fakeAuditRepository{}
		var gotLimit, gotOffset int
		repo.findAllByBranchFn = func(ctx context.Context, bid string, limit, offset int) ([]audit.AuditLog, int64, error) {
			gotLimit, gotOffset = limit, offset
			return nil, 0, nil
		}
		svc := audit.NewService(repo)

		_, _, err := svc.List(ctx, branchID, 0, 500)

		assert.NoError(t, err)
		assert.Equal(t, 20, gotLimit)
		assert.Equal(t, 0, gotOffset)
	})

	t.Run("maps rows with total", func(t *testing.T) {
		row := audit.AuditLog{
			ID:         uuid.New(),
			BranchID:   uuid.MustParse(branchID),
			Action:     "schedule_request.rejected",
			EntityType: "schedule_change_request",
			EntityID:   uuid.New(),
			Detail:     []byte(`{"reason":"covered elsewhere"}`),
			OccurredAt: time.Date(2026, 8, 21, 14, 0, 0, 0, time.UTC),
		}
		repo := &fakeAuditRepository{}
		repo.findAllByBranchFn = func(ctx context.Context, bid string, limit, offset int) ([]audit.AuditLog, int64, error) {
			assert.Equal(t, branchID, bid)
			assert.Equal(t, 10, limit)
			assert.Equal(t, 10, offset)
			return []audit.AuditLog{row}, 41, nil
		}
		svc := audit.NewService(repo)

		out, total, err := svc.List(ctx, branchID, 2, 10)

		assert.NoError(t, err)
		assert.Equal(t, int64(41), total)
		assert.Len(t, out, 1)
		assert.Equal(t, row.Action, out[0].Action)
		assert.JSONEq(t, `{"reason":"covered elsewhere"}`, string(out[0].Detail))
	})
}

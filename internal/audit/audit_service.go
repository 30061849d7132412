package audit

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shared/apperror"
)

type Service interface {
	// Record appends an audit entry. Replays of an already-recorded
	// event are swallowed so the consumer can redeliver safely.
	Record(ctx context.Context, entry RecordEntry) error
	List(ctx context.Context, branchID string, page, limit int) ([]AuditLogResponse, int64, error)
}

type RecordEntry struct {
	BranchID   string
	Action     string
	EntityType string
	EntityID   string
	ActorID    string
	Detail     []byte
	OccurredAt time.Time
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Record(ctx context.Context, entry RecordEntry) error {
	row, err := entry.toEntity()
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInvalidInput, "invalid audit entry", 400)
	}

	if err := s.repo.Create(ctx, row); err != nil {
		if isDuplicateEntry(err) {
			s.logger.Warn("audit entry already recorded, skipping",
				zap.String("entity_id", entry.EntityID),
				zap.String("action", entry.Action),
			)
			return nil
		}
		return err
	}
	return nil
}

func (s *service) List(ctx context.Context, branchID string, page, limit int) ([]AuditLogResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	entries, total, err := s.repo.FindAllByBranch(ctx, branchID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]AuditLogResponse, 0, len(entries))
	for i := range entries {
		out = append(out, mapToResponse(&entries[i]))
	}
	return out, total, nil
}

func isDuplicateEntry(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

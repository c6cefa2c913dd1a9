package statusstore

import (
	"context"
	"database/sql"

	"github.com/ogw/sanity-backend/internal/domain/runner"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DirectSource queries the order-status store over a direct SQL connection.
// Deployments that can reach the store skip the proxy hop entirely.
type DirectSource struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewDirectSource creates a status source over an established connection.
func NewDirectSource(db *gorm.DB, log *zap.Logger) *DirectSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &DirectSource{db: db, log: log}
}

// OrderLineStatuses runs the completion-check query for a correlation
// identifier.
func (s *DirectSource) OrderLineStatuses(ctx context.Context, correlationID string) ([]runner.StatusRow, error) {
	sqlRows, err := s.db.WithContext(ctx).Raw(orderLineStatusQuery(correlationID)).Rows()
	if err != nil {
		return nil, err
	}
	defer sqlRows.Close()

	var rows []runner.StatusRow
	for sqlRows.Next() {
		var status, lineID, errorCode sql.NullString
		if err := sqlRows.Scan(&status, &lineID, &errorCode); err != nil {
			return nil, err
		}
		rows = append(rows, runner.StatusRow{
			Status:    status.String,
			LineID:    lineID.String,
			ErrorCode: errorCode.String,
		})
	}
	return rows, sqlRows.Err()
}

// QueryValue runs an arbitrary scalar query and returns the first column of
// the first row. Missing rows return an empty value, not an error.
func (s *DirectSource) QueryValue(ctx context.Context, query string) (string, error) {
	var value sql.NullString
	err := s.db.WithContext(ctx).Raw(query).Row().Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value.String, nil
}

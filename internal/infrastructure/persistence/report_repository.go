package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ogw/sanity-backend/internal/domain/report"
	"github.com/ogw/sanity-backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// Save stores a run report
func (r *GormReportRepository) Save(ctx context.Context, rep *report.RunReport) error {
	model, err := models.RunReportModelFromDomain(rep)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID returns one report, or nil when no report exists under the ID
func (r *GormReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*report.RunReport, error) {
	var model models.RunReportModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain()
}

// FindAll returns a page of reports matching the filter, newest first, plus
// the total match count
func (r *GormReportRepository) FindAll(ctx context.Context, filter report.Filter) ([]report.RunReport, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RunReportModel{})
	if filter.ScenarioID != "" {
		query = query.Where("scenario_id = ?", filter.ScenarioID)
	}
	if filter.Environment != "" {
		query = query.Where("environment = ?", filter.Environment)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	var rows []models.RunReportModel
	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	reports := make([]report.RunReport, 0, len(rows))
	for i := range rows {
		rep, err := rows[i].ToDomain()
		if err != nil {
			return nil, 0, err
		}
		reports = append(reports, *rep)
	}
	return reports, total, nil
}

// Delete removes one report
func (r *GormReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.RunReportModel{}).Error
}

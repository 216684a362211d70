package repositories

import (
	"time"

	"gorm.io/gorm"
)

// StatusCount - строка GROUP BY status
type StatusCount struct {
	Status string
	Count  int64
}

type AnalyticsRepository interface {
	CountUsersByRole(db *gorm.DB, role string) (int64, error)
	CountEmployers(db *gorm.DB) (int64, error)
	CountProjects(db *gorm.DB) (int64, error)
	ProposalsByStatus(db *gorm.DB) (map[string]int64, error)
	InterviewsByStatus(db *gorm.DB) (map[string]int64, error)
	// SignupsSince - стажеры и работодатели, созданные после since
	SignupsSince(db *gorm.DB, since time.Time) (int64, error)
}

type analyticsRepository struct{}

func NewAnalyticsRepository() AnalyticsRepository {
	return &analyticsRepository{}
}

func (r *analyticsRepository) CountUsersByRole(db *gorm.DB, role string) (int64, error) {
	var count int64
	err := db.Raw(`SELECT COUNT(*) FROM users WHERE role = ?`, role).Scan(&count).Error
	return count, err
}

func (r *analyticsRepository) CountEmployers(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Raw(`SELECT COUNT(*) FROM employers`).Scan(&count).Error
	return count, err
}

func (r *analyticsRepository) CountProjects(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Raw(`SELECT COUNT(*) FROM projects`).Scan(&count).Error
	return count, err
}

func (r *analyticsRepository) ProposalsByStatus(db *gorm.DB) (map[string]int64, error) {
	return r.groupByStatus(db, `SELECT status, COUNT(*) AS count FROM proposals GROUP BY status`)
}

func (r *analyticsRepository) InterviewsByStatus(db *gorm.DB) (map[string]int64, error) {
	return r.groupByStatus(db, `SELECT status, COUNT(*) AS count FROM interviews GROUP BY status`)
}

func (r *analyticsRepository) SignupsSince(db *gorm.DB, since time.Time) (int64, error) {
	var count int64
	err := db.Raw(`
        SELECT
            (SELECT COUNT(*) FROM users WHERE role = 'intern' AND created_at >= ?) +
            (SELECT COUNT(*) FROM employers WHERE created_at >= ?)
    `, since, since).Scan(&count).Error
	return count, err
}

func (r *analyticsRepository) groupByStatus(db *gorm.DB, query string) (map[string]int64, error) {
	var rows []StatusCount
	if err := db.Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

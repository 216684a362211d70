package repositories

import (
	"errors"
	"strings"

	"findtern_backend/internal/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// InternFilter - фильтры каталога стажеров
type InternFilter struct {
	Skills    []string
	City      string
	State     string
	Search    string
	Onboarded *bool
	Page      int
	PageSize  int
}

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	UpdatePassword(db *gorm.DB, userID, passwordHash string) error
	FindInterns(db *gorm.DB, filter InternFilter) ([]models.User, int64, error)
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	user.Email = normalizeEmail(user.Email)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExists
	}

	return db.Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Preload("Onboarding").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", normalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(db *gorm.DB, userID, passwordHash string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindInterns - каталог стажеров с фильтрами и пагинацией
func (r *userRepository) FindInterns(db *gorm.DB, filter InternFilter) ([]models.User, int64, error) {
	query := db.Model(&models.User{}).
		Joins("LEFT JOIN intern_onboardings o ON o.user_id = users.id").
		Where("users.role = ?", models.UserRoleIntern)

	if filter.City != "" {
		query = query.Where("LOWER(o.city) = ?", strings.ToLower(filter.City))
	}
	if filter.State != "" {
		query = query.Where("LOWER(o.state) = ?", strings.ToLower(filter.State))
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(CONCAT(users.first_name, ' ', users.last_name)) LIKE ?", like)
	}
	if filter.Onboarded != nil {
		if *filter.Onboarded {
			query = query.Where("o.onboarding_completed = ?", true)
		} else {
			query = query.Where("(o.onboarding_completed IS NULL OR o.onboarding_completed = ?)", false)
		}
	}
	if skills := lowerAll(filter.Skills); len(skills) > 0 {
		query = whereAnySkill(query, skills)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := query.Preload("Onboarding").
		Order("users.created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// whereAnySkill - совпадение хотя бы одного навыка без учета регистра.
// В Postgres навыки лежат в text[], в MySQL - в текстовом литерале {a,b}.
func whereAnySkill(query *gorm.DB, skills []string) *gorm.DB {
	if query.Dialector.Name() == "postgres" {
		return query.Where("EXISTS (SELECT 1 FROM unnest(o.skills) AS s WHERE LOWER(s) = ANY(?))", pq.Array(skills))
	}

	conds := make([]string, 0, len(skills))
	args := make([]interface{}, 0, len(skills))
	for _, s := range skills {
		conds = append(conds, "LOWER(o.skills) LIKE ?")
		args = append(args, "%"+s+"%")
	}
	return query.Where("("+strings.Join(conds, " OR ")+")", args...)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

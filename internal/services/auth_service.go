package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"findtern_backend/internal/auth"
	"findtern_backend/internal/email"
	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"
	"findtern_backend/internal/services/dto"
	"findtern_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	SignupIntern(db *gorm.DB, req *dto.InternSignupRequest) (*dto.AuthResponse, error)
	SignupEmployer(db *gorm.DB, req *dto.EmployerSignupRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	AdminLogin(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	Logout(db *gorm.DB, refreshToken string) error
	ChangePassword(db *gorm.DB, actor dto.Actor, subjectID string, req *dto.ChangePasswordRequest) error

	// CleanExpiredTokens - для воркера очистки
	CleanExpiredTokens(db *gorm.DB) (int64, error)
}

type authService struct {
	userRepo         repositories.UserRepository
	employerRepo     repositories.EmployerRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	effects          sideEffects
	refreshTTL       time.Duration
	now              func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	employerRepo repositories.EmployerRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	emailProvider email.Provider,
	refreshTTL time.Duration,
) AuthService {
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &authService{
		userRepo:         userRepo,
		employerRepo:     employerRepo,
		refreshTokenRepo: refreshTokenRepo,
		effects:          sideEffects{mailer: emailProvider},
		refreshTTL:       refreshTTL,
		now:              time.Now,
	}
}

// SignupIntern - регистрация стажера. Пользователь и refresh-токен создаются в одной транзакции.
func (s *authService) SignupIntern(db *gorm.DB, req *dto.InternSignupRequest) (*dto.AuthResponse, error) {
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.ensureEmailFree(tx, req.Email); err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        req.Email,
		CountryCode:  req.CountryCode,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: passwordHash,
		Role:         models.UserRoleIntern,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, handleRepoError(err)
	}

	resp, err := s.issueTokens(tx, user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	resp.User = dto.NewUserResponse(user)

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.effects.mail(context.Background(), user.Email, "Welcome to Findtern", email.TemplateWelcome, email.TemplateData{
		"Name": user.FirstName,
		"Role": string(user.Role),
	})
	return resp, nil
}

// SignupEmployer - регистрация компании
func (s *authService) SignupEmployer(db *gorm.DB, req *dto.EmployerSignupRequest) (*dto.AuthResponse, error) {
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.ensureEmailFree(tx, req.CompanyEmail); err != nil {
		return nil, err
	}

	employer := &models.Employer{
		Name:         strings.TrimSpace(req.Name),
		CompanyName:  strings.TrimSpace(req.CompanyName),
		CompanyEmail: req.CompanyEmail,
		CountryCode:  req.CountryCode,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: passwordHash,
	}
	if err := s.employerRepo.Create(tx, employer); err != nil {
		return nil, handleRepoError(err)
	}

	resp, err := s.issueTokens(tx, employer.ID, models.UserRoleEmployer)
	if err != nil {
		return nil, err
	}
	resp.Employer = dto.NewEmployerResponse(employer)

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.effects.mail(context.Background(), employer.CompanyEmail, "Welcome to Findtern", email.TemplateWelcome, email.TemplateData{
		"Name": employer.Name,
		"Role": string(models.UserRoleEmployer),
	})
	return resp, nil
}

// Login - общий вход: сначала users (стажеры и админы), потом employers
func (s *authService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	switch {
	case err == nil:
		return s.loginUser(db, user, req.Password)
	case !errors.Is(err, repositories.ErrUserNotFound):
		return nil, apperrors.InternalError(err)
	}

	employer, err := s.employerRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrEmployerNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, employer.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	resp, err := s.issueTokens(db, employer.ID, models.UserRoleEmployer)
	if err != nil {
		return nil, err
	}
	resp.Employer = dto.NewEmployerResponse(employer)
	return resp, nil
}

// AdminLogin - только роль admin; для остальных тот же ответ, что и на неверный пароль
func (s *authService) AdminLogin(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if user.Role != models.UserRoleAdmin {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.loginUser(db, user, req.Password)
}

// RefreshToken - ротация: старый токен удаляется, выдается новая пара
func (s *authService) RefreshToken(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	hash := auth.HashToken(refreshToken)
	token, err := s.refreshTokenRepo.FindByHash(tx, hash)
	if err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.refreshTokenRepo.DeleteByHash(tx, hash); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if s.now().After(token.ExpiresAt) {
		// удаление истекшего токена фиксируем
		if err := tx.Commit().Error; err != nil {
			return nil, apperrors.InternalError(err)
		}
		return nil, apperrors.ErrInvalidToken
	}

	resp, err := s.issueTokens(tx, token.SubjectID, token.SubjectRole)
	if err != nil {
		return nil, err
	}

	if token.SubjectRole == models.UserRoleEmployer {
		employer, err := s.employerRepo.FindByID(tx, token.SubjectID)
		if err != nil {
			return nil, apperrors.ErrInvalidToken
		}
		resp.Employer = dto.NewEmployerResponse(employer)
	} else {
		user, err := s.userRepo.FindByID(tx, token.SubjectID)
		if err != nil {
			return nil, apperrors.ErrInvalidToken
		}
		resp.User = dto.NewUserResponse(user)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

// Logout идемпотентен: неизвестный токен не ошибка
func (s *authService) Logout(db *gorm.DB, refreshToken string) error {
	err := s.refreshTokenRepo.DeleteByHash(db, auth.HashToken(refreshToken))
	if err != nil && !errors.Is(err, repositories.ErrRefreshTokenNotFound) {
		return apperrors.InternalError(err)
	}
	return nil
}

// ChangePassword - только свой id. Все refresh-токены субъекта отзываются.
func (s *authService) ChangePassword(db *gorm.DB, actor dto.Actor, subjectID string, req *dto.ChangePasswordRequest) error {
	if actor.ID != subjectID {
		return apperrors.ErrInsufficientPermissions
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return fieldError("newPassword", err.Error())
	}

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if actor.Role == models.UserRoleEmployer {
		employer, err := s.employerRepo.FindByID(tx, subjectID)
		if err != nil {
			return handleRepoError(err)
		}
		if !auth.CheckPasswordHash(req.CurrentPassword, employer.PasswordHash) {
			return apperrors.ErrWrongCurrentPassword
		}
		if err := s.employerRepo.UpdatePassword(tx, subjectID, newHash); err != nil {
			return handleRepoError(err)
		}
	} else {
		user, err := s.userRepo.FindByID(tx, subjectID)
		if err != nil {
			return handleRepoError(err)
		}
		if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
			return apperrors.ErrWrongCurrentPassword
		}
		if err := s.userRepo.UpdatePassword(tx, subjectID, newHash); err != nil {
			return handleRepoError(err)
		}
	}

	if err := s.refreshTokenRepo.DeleteBySubject(tx, subjectID); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// ---------------- helpers ----------------

func (s *authService) loginUser(db *gorm.DB, user *models.User, password string) (*dto.AuthResponse, error) {
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	resp, err := s.issueTokens(db, user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	resp.User = dto.NewUserResponse(user)
	return resp, nil
}

// ensureEmailFree - email уникален сразу по двум таблицам, иначе логин неоднозначен
func (s *authService) ensureEmailFree(db *gorm.DB, emailAddr string) error {
	if _, err := s.userRepo.FindByEmail(db, emailAddr); err == nil {
		return apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.InternalError(err)
	}

	if _, err := s.employerRepo.FindByEmail(db, emailAddr); err == nil {
		return apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrEmployerNotFound) {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) issueTokens(db *gorm.DB, subjectID string, role models.UserRole) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateToken(subjectID, string(role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	rawRefresh, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	token := &models.RefreshToken{
		SubjectID:   subjectID,
		SubjectRole: role,
		TokenHash:   auth.HashToken(rawRefresh),
		ExpiresAt:   s.now().Add(s.refreshTTL),
	}
	if err := s.refreshTokenRepo.Create(db, token); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		ExpiresIn:    int64(auth.AccessTTL().Seconds()),
	}, nil
}

func (s *authService) CleanExpiredTokens(db *gorm.DB) (int64, error) {
	return s.refreshTokenRepo.CleanExpired(db, s.now())
}

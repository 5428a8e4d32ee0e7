package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"evalportal/internal/errors"
	"evalportal/internal/metrics"
	"evalportal/internal/model"
	"evalportal/internal/repository"
)

const bcryptCost = 10

var (
	studentUpdateColumns = []string{"name", "year", "updated_at"}
	adminUpdateColumns   = []string{"name", "year", "is_admin", "updated_at"}
)

// LoginInput is a login form submission. Password is only used on the administrator path.
type LoginInput struct {
	Name      string
	StudentID string
	Year      int
	Password  string
}

// AdminCredentials configures the administrator login path.
type AdminCredentials struct {
	// Name is the sentinel display name that selects the administrator path.
	Name string
	// Password is the shared secret, plaintext or a bcrypt hash.
	Password string
	// StudentID is reserved for the administrator account.
	StudentID string
}

// AuthService resolves a login submission to a stored user.
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*model.User, error)
}

type authService struct {
	userRepo       repository.UserRepository
	adminName      string
	adminHash      []byte
	adminStudentID string
}

// NewAuthService creates a new authentication service. A plaintext admin password is hashed here;
// an empty one disables the administrator path.
func NewAuthService(userRepo repository.UserRepository, admin AdminCredentials) (AuthService, error) {
	s := &authService{
		userRepo:       userRepo,
		adminName:      admin.Name,
		adminStudentID: admin.StudentID,
	}

	if admin.Password != "" {
		if isBcryptHash(admin.Password) {
			s.adminHash = []byte(admin.Password)
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcryptCost)
			if err != nil {
				return nil, fmt.Errorf("hash admin password: %w", err)
			}
			s.adminHash = hash
		}
	}
	return s, nil
}

// Login validates the submission and upserts the user keyed by student id.
// The administrator path is taken when a password is sent together with the sentinel name.
func (s *authService) Login(ctx context.Context, in LoginInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.StudentID = strings.TrimSpace(in.StudentID)
	if in.Name == "" || in.StudentID == "" || in.Year <= 0 {
		return nil, fmt.Errorf("%w: name, studentId and year are required", errors.ErrValidation)
	}

	if in.Password != "" && strings.EqualFold(in.Name, s.adminName) {
		return s.loginAdmin(ctx, in)
	}

	if strings.EqualFold(in.StudentID, s.adminStudentID) {
		return nil, errors.ErrReservedStudentID
	}

	// An administrator row may still sit under a student id that is no longer the configured one.
	existing, err := s.userRepo.FindByStudentID(ctx, in.StudentID)
	switch {
	case err == nil && existing.IsAdmin:
		return nil, errors.ErrReservedStudentID
	case err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("find student: %w", err)
	}

	user, err := s.userRepo.UpsertByStudentID(ctx, &model.User{
		Name:      in.Name,
		StudentID: in.StudentID,
		Year:      in.Year,
		IsAdmin:   false,
	}, studentUpdateColumns)
	if err != nil {
		return nil, fmt.Errorf("upsert student: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("student").Inc()
	return user, nil
}

func (s *authService) loginAdmin(ctx context.Context, in LoginInput) (*model.User, error) {
	if len(s.adminHash) == 0 {
		return nil, errors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.adminHash, []byte(in.Password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	user, err := s.userRepo.UpsertByStudentID(ctx, &model.User{
		Name:      in.Name,
		StudentID: s.adminStudentID,
		Year:      in.Year,
		IsAdmin:   true,
	}, adminUpdateColumns)
	if err != nil {
		return nil, fmt.Errorf("upsert admin: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("admin").Inc()
	return user, nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

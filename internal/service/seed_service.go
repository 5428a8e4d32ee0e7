package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"evalportal/internal/model"
	"evalportal/internal/repository"
)

// seedAdminUpdateColumns leaves the name alone so a reseed keeps whatever name the administrator last logged in with.
var seedAdminUpdateColumns = []string{"year", "is_admin", "updated_at"}

// CatalogProject is a project inserted by the seed utility.
type CatalogProject struct {
	Name        string
	Description string
}

// DefaultCatalog is the initial project catalog.
var DefaultCatalog = []CatalogProject{
	{Name: "Smart Farm System", Description: "IOT system for monitoring soil moisture and automatic watering."},
	{Name: "Mobile App for Health Tracking", Description: "Track steps, sleep, and heart rate with interactive charts."},
	{Name: "E-commerce Platform", Description: "A full-stack online store with payment integration and inventory management."},
	{Name: "AI Image Classifier", Description: "Web app that identifies objects in images using deep learning."},
	{Name: "Blockchain Voting System", Description: "Secure and transparent voting system using smart contracts."},
}

// SeedResult reports what a seed run changed.
type SeedResult struct {
	ProjectsCreated int
	Admin           *model.User
}

// SeedService resets and seeds the catalog and the administrator account.
type SeedService interface {
	Reset(ctx context.Context) error
	Seed(ctx context.Context, catalog []CatalogProject) (*SeedResult, error)
}

type seedService struct {
	userRepo       repository.UserRepository
	projectRepo    repository.ProjectRepository
	evaluationRepo repository.EvaluationRepository
	adminStudentID string
}

// NewSeedService creates a new seed service.
func NewSeedService(
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	evaluationRepo repository.EvaluationRepository,
	adminStudentID string,
) SeedService {
	return &seedService{
		userRepo:       userRepo,
		projectRepo:    projectRepo,
		evaluationRepo: evaluationRepo,
		adminStudentID: adminStudentID,
	}
}

// Reset deletes all evaluations, projects and users, children first.
func (s *seedService) Reset(ctx context.Context) error {
	if err := s.evaluationRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete evaluations: %w", err)
	}
	if err := s.projectRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete projects: %w", err)
	}
	if err := s.userRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete users: %w", err)
	}
	return nil
}

// Seed inserts catalog projects missing by name and upserts the administrator.
func (s *seedService) Seed(ctx context.Context, catalog []CatalogProject) (*SeedResult, error) {
	result := &SeedResult{}
	for _, p := range catalog {
		_, err := s.projectRepo.FindByName(ctx, p.Name)
		if err == nil {
			continue
		}
		if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find project %q: %w", p.Name, err)
		}
		if err := s.projectRepo.Create(ctx, &model.Project{Name: p.Name, Description: p.Description}); err != nil {
			return nil, fmt.Errorf("create project %q: %w", p.Name, err)
		}
		result.ProjectsCreated++
	}

	admin, err := s.userRepo.UpsertByStudentID(ctx, &model.User{
		Name:      "Admin User",
		StudentID: s.adminStudentID,
		Year:      4,
		IsAdmin:   true,
	}, seedAdminUpdateColumns)
	if err != nil {
		return nil, fmt.Errorf("upsert admin: %w", err)
	}
	result.Admin = admin
	return result, nil
}

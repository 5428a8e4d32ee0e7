package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"evalportal/internal/model"
	"evalportal/internal/repository"
)

// ProjectStat is one row of the project ranking.
type ProjectStat struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	EvaluationCount int       `json:"evaluationCount"`
	AverageScore    float64   `json:"averageScore"`

	createdAt time.Time
}

// EvaluationLogEntry is one evaluation in the admin audit log.
type EvaluationLogEntry struct {
	ID          uuid.UUID        `json:"id"`
	ProjectID   uuid.UUID        `json:"projectId"`
	EvaluatorID uuid.UUID        `json:"evaluatorId"`
	Score       int              `json:"score"`
	Comment     string           `json:"comment"`
	CreatedAt   time.Time        `json:"createdAt"`
	Project     LogProject       `json:"project"`
	Evaluator   LogEvaluatorInfo `json:"evaluator"`
}

// LogProject is the project part of a log entry.
type LogProject struct {
	Name string `json:"name"`
}

// LogEvaluatorInfo is the evaluator part of a log entry.
type LogEvaluatorInfo struct {
	Name      string `json:"name"`
	StudentID string `json:"studentId"`
	Year      int    `json:"year"`
}

// Summary bundles the completion counters.
type Summary struct {
	TotalStudents   int64   `json:"totalStudents"`
	EvaluatedCount  int64   `json:"evaluatedCount"`
	PercentComplete float64 `json:"percentComplete"`
}

// Statistics is the admin dashboard payload.
type Statistics struct {
	ProjectStats   []ProjectStat        `json:"projectStats"`
	AllEvaluations []EvaluationLogEntry `json:"allEvaluations"`
	Summary        Summary              `json:"summary"`
}

// StatsService computes admin statistics. Nothing is cached.
type StatsService interface {
	Compute(ctx context.Context) (*Statistics, error)
}

type statsService struct {
	userRepo       repository.UserRepository
	projectRepo    repository.ProjectRepository
	evaluationRepo repository.EvaluationRepository
}

// NewStatsService creates a new statistics service.
func NewStatsService(
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	evaluationRepo repository.EvaluationRepository,
) StatsService {
	return &statsService{
		userRepo:       userRepo,
		projectRepo:    projectRepo,
		evaluationRepo: evaluationRepo,
	}
}

// Compute reads projects, evaluations and user counts with independent queries;
// under concurrent writes the parts may reflect slightly different moments.
func (s *statsService) Compute(ctx context.Context) (*Statistics, error) {
	projects, err := s.projectRepo.ListWithEvaluations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	evaluations, err := s.evaluationRepo.ListWithDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}

	totalStudents, err := s.userRepo.CountStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	evaluatedCount, err := s.userRepo.CountStudentsWithEvaluations(ctx)
	if err != nil {
		return nil, fmt.Errorf("count evaluated students: %w", err)
	}

	return &Statistics{
		ProjectStats:   RankProjects(projects),
		AllEvaluations: toLogEntries(evaluations),
		Summary: Summary{
			TotalStudents:   totalStudents,
			EvaluatedCount:  evaluatedCount,
			PercentComplete: PercentComplete(evaluatedCount, totalStudents),
		},
	}, nil
}

// RankProjects averages each project's scores (two decimals, 0 without evaluations)
// and orders by average desc, evaluation count desc, creation time asc, name asc.
func RankProjects(projects []model.Project) []ProjectStat {
	stats := make([]ProjectStat, 0, len(projects))
	for _, p := range projects {
		stats = append(stats, ProjectStat{
			ID:              p.ID,
			Name:            p.Name,
			EvaluationCount: len(p.Evaluations),
			AverageScore:    averageScore(p.Evaluations),
			createdAt:       p.CreatedAt,
		})
	}

	slices.SortStableFunc(stats, func(a, b ProjectStat) int {
		if c := cmp.Compare(b.AverageScore, a.AverageScore); c != 0 {
			return c
		}
		if c := cmp.Compare(b.EvaluationCount, a.EvaluationCount); c != 0 {
			return c
		}
		if c := a.createdAt.Compare(b.createdAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return stats
}

// PercentComplete is evaluated/total*100 rounded to one decimal, and 0 when total is 0.
func PercentComplete(evaluated, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(evaluated).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(1).
		InexactFloat64()
}

func averageScore(evaluations []model.Evaluation) float64 {
	if len(evaluations) == 0 {
		return 0
	}
	var sum int64
	for _, ev := range evaluations {
		sum += int64(ev.Score)
	}
	return decimal.NewFromInt(sum).
		Div(decimal.NewFromInt(int64(len(evaluations)))).
		Round(2).
		InexactFloat64()
}

func toLogEntries(evaluations []model.Evaluation) []EvaluationLogEntry {
	entries := make([]EvaluationLogEntry, 0, len(evaluations))
	for _, ev := range evaluations {
		entry := EvaluationLogEntry{
			ID:          ev.ID,
			ProjectID:   ev.ProjectID,
			EvaluatorID: ev.EvaluatorID,
			Score:       ev.Score,
			Comment:     ev.Comment,
			CreatedAt:   ev.CreatedAt,
		}
		if ev.Project != nil {
			entry.Project.Name = ev.Project.Name
		}
		if ev.Evaluator != nil {
			entry.Evaluator = LogEvaluatorInfo{
				Name:      ev.Evaluator.Name,
				StudentID: ev.Evaluator.StudentID,
				Year:      ev.Evaluator.Year,
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

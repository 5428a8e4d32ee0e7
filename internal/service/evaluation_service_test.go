package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"evalportal/internal/errors"
	"evalportal/internal/model"
)

func TestEvaluationService_Submit(t *testing.T) {
	evaluatorID := uuid.New()
	projectID := uuid.New()

	tests := []struct {
		name          string
		input         SubmitEvaluationInput
		setupMocks    func(*MockProjectRepository, *MockEvaluationRepository)
		expectedError error
	}{
		{
			name:  "stores score and comment",
			input: SubmitEvaluationInput{EvaluatorID: evaluatorID, ProjectID: projectID, Score: 8, Comment: "Good"},
			setupMocks: func(p *MockProjectRepository, e *MockEvaluationRepository) {
				p.On("Exists", mock.Anything, projectID).Return(true, nil)
				e.On("Upsert", mock.Anything, mock.MatchedBy(func(ev *model.Evaluation) bool {
					return ev.ProjectID == projectID && ev.EvaluatorID == evaluatorID && ev.Score == 8 && ev.Comment == "Good"
				})).Return(&model.Evaluation{ID: uuid.New(), ProjectID: projectID, EvaluatorID: evaluatorID, Score: 8, Comment: "Good"}, nil)
			},
		},
		{
			name:  "lower bound accepted",
			input: SubmitEvaluationInput{EvaluatorID: evaluatorID, ProjectID: projectID, Score: MinScore},
			setupMocks: func(p *MockProjectRepository, e *MockEvaluationRepository) {
				p.On("Exists", mock.Anything, projectID).Return(true, nil)
				e.On("Upsert", mock.Anything, mock.Anything).Return(&model.Evaluation{Score: MinScore}, nil)
			},
		},
		{
			name:  "upper bound accepted",
			input: SubmitEvaluationInput{EvaluatorID: evaluatorID, ProjectID: projectID, Score: MaxScore},
			setupMocks: func(p *MockProjectRepository, e *MockEvaluationRepository) {
				p.On("Exists", mock.Anything, projectID).Return(true, nil)
				e.On("Upsert", mock.Anything, mock.Anything).Return(&model.Evaluation{Score: MaxScore}, nil)
			},
		},
		{
			name:          "score zero rejected",
			input:         SubmitEvaluationInput{EvaluatorID: evaluatorID, ProjectID: projectID, Score: 0},
			setupMocks:    func(p *MockProjectRepository, e *MockEvaluationRepository) {},
			expectedError: errors.ErrScoreOutOfRange,
		},
		{
			name:          "score eleven rejected",
			input:         SubmitEvaluationInput{EvaluatorID: evaluatorID, ProjectID: projectID, Score: 11},
			setupMocks:    func(p *MockProjectRepository, e *MockEvaluationRepository) {},
			expectedError: errors.ErrScoreOutOfRange,
		},
		{
			name:          "missing project",
			input:         SubmitEvaluationInput{EvaluatorID: evaluatorID, Score: 5},
			setupMocks:    func(p *MockProjectRepository, e *MockEvaluationRepository) {},
			expectedError: errors.ErrValidation,
		},
		{
			name:          "missing evaluator",
			input:         SubmitEvaluationInput{ProjectID: projectID, Score: 5},
			setupMocks:    func(p *MockProjectRepository, e *MockEvaluationRepository) {},
			expectedError: errors.ErrUnauthorized,
		},
		{
			name:  "unknown project",
			input: SubmitEvaluationInput{EvaluatorID: evaluatorID, ProjectID: projectID, Score: 5},
			setupMocks: func(p *MockProjectRepository, e *MockEvaluationRepository) {
				p.On("Exists", mock.Anything, projectID).Return(false, nil)
			},
			expectedError: errors.ErrProjectNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectRepo := new(MockProjectRepository)
			evaluationRepo := new(MockEvaluationRepository)
			tt.setupMocks(projectRepo, evaluationRepo)

			service := NewEvaluationService(projectRepo, evaluationRepo)
			evaluation, err := service.Submit(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, evaluation)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.input.Score, evaluation.Score)
			}

			projectRepo.AssertExpectations(t)
			evaluationRepo.AssertExpectations(t)
		})
	}
}

func TestEvaluationService_Submit_StorageFailure(t *testing.T) {
	projectID := uuid.New()
	projectRepo := new(MockProjectRepository)
	evaluationRepo := new(MockEvaluationRepository)
	projectRepo.On("Exists", mock.Anything, projectID).Return(true, nil)
	evaluationRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil, stderrors.New("constraint failed"))

	service := NewEvaluationService(projectRepo, evaluationRepo)
	_, err := service.Submit(context.Background(), SubmitEvaluationInput{EvaluatorID: uuid.New(), ProjectID: projectID, Score: 7})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert evaluation")
}

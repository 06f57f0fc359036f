package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"talentmatch/cv-pipeline/internal/models"
)

type EvaluationRepository interface {
	Create(eval *models.Evaluation) error
	FindByID(id uuid.UUID) (*models.Evaluation, error)
	UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.Evaluation, error)

	// SaveResult persists a finished pipeline run. With an evaluation ID it
	// completes that job row; without one it records a standalone result.
	SaveResult(evalID *uuid.UUID, key string, result *models.EvaluationResult) error
	LoadResult(eval *models.Evaluation) (*models.EvaluationResult, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Create(eval *models.Evaluation) error {
	if err := r.db.Create(eval).Error; err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepository) FindByID(id uuid.UUID) (*models.Evaluation, error) {
	var eval models.Evaluation
	if err := r.db.Where("id = ?", id).First(&eval).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("evaluation not found")
		}
		return nil, fmt.Errorf("failed to find evaluation: %w", err)
	}
	return &eval, nil
}

func (r *evaluationRepository) UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error {
	result := r.db.Model(&models.Evaluation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation not found")
	}

	return nil
}

func (r *evaluationRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.Evaluation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation not found")
	}

	return nil
}

func (r *evaluationRepository) FindPendingJobs(limit int) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&evals).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return evals, nil
}

// SaveResult implements EvaluationRepository and services.ResultStore.
func (r *evaluationRepository) SaveResult(evalID *uuid.UUID, key string, result *models.EvaluationResult) error {
	columns, err := resultColumns(result)
	if err != nil {
		return err
	}
	columns["result_key"] = key
	columns["status"] = models.StatusCompleted
	columns["updated_at"] = time.Now()

	if evalID != nil {
		res := r.db.Model(&models.Evaluation{}).
			Where("id = ?", *evalID).
			Updates(columns)
		if res.Error != nil {
			return fmt.Errorf("failed to save result: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("evaluation not found")
		}
		return nil
	}

	eval := &models.Evaluation{
		ResultKey:        key,
		OriginalFilename: result.Filename,
		Status:           models.StatusCompleted,
		RawText:          result.RawText,
		ProcessingTimeMs: result.ProcessingTimeMs,
	}
	eval.StructuredCV = jsonbString(columns, "structured_cv")
	eval.DerivedFeatures = jsonbString(columns, "derived_features")
	eval.Scores = jsonbString(columns, "scores")
	eval.VisualAnalysis = jsonbString(columns, "visual_analysis")
	eval.Warnings = jsonbString(columns, "warnings")

	if err := r.db.Create(eval).Error; err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// LoadResult reconstructs the pipeline result from a completed job row.
func (r *evaluationRepository) LoadResult(eval *models.Evaluation) (*models.EvaluationResult, error) {
	if eval.Status != models.StatusCompleted {
		return nil, fmt.Errorf("evaluation %s is not completed", eval.ID)
	}

	result := &models.EvaluationResult{
		ID:               eval.ID.String(),
		Filename:         eval.OriginalFilename,
		RawText:          eval.RawText,
		ProcessingTimeMs: eval.ProcessingTimeMs,
		Warnings:         []string{},
		CreatedAt:        eval.CreatedAt,
	}

	if err := decodeColumn(eval.StructuredCV, &result.StructuredCV); err != nil {
		return nil, fmt.Errorf("failed to decode structured CV: %w", err)
	}
	if err := decodeColumn(eval.DerivedFeatures, &result.DerivedFeatures); err != nil {
		return nil, fmt.Errorf("failed to decode derived features: %w", err)
	}
	if err := decodeColumn(eval.Scores, &result.Scores); err != nil {
		return nil, fmt.Errorf("failed to decode scores: %w", err)
	}
	if err := decodeColumn(eval.VisualAnalysis, &result.VisualAnalysis); err != nil {
		return nil, fmt.Errorf("failed to decode visual analysis: %w", err)
	}
	if err := decodeColumn(eval.Warnings, &result.Warnings); err != nil {
		return nil, fmt.Errorf("failed to decode warnings: %w", err)
	}

	return result, nil
}

func resultColumns(result *models.EvaluationResult) (map[string]interface{}, error) {
	columns := map[string]interface{}{
		"raw_text":           result.RawText,
		"processing_time_ms": result.ProcessingTimeMs,
	}

	encode := func(name string, value interface{}) error {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
		columns[name] = string(data)
		return nil
	}

	if result.StructuredCV != nil {
		if err := encode("structured_cv", result.StructuredCV); err != nil {
			return nil, err
		}
	}
	if result.DerivedFeatures != nil {
		if err := encode("derived_features", result.DerivedFeatures); err != nil {
			return nil, err
		}
	}
	if result.Scores != nil {
		if err := encode("scores", result.Scores); err != nil {
			return nil, err
		}
	}
	if result.VisualAnalysis != nil {
		if err := encode("visual_analysis", result.VisualAnalysis); err != nil {
			return nil, err
		}
	}
	if result.Warnings != nil {
		if err := encode("warnings", result.Warnings); err != nil {
			return nil, err
		}
	}

	return columns, nil
}

func jsonbString(columns map[string]interface{}, name string) *string {
	if v, ok := columns[name].(string); ok {
		return &v
	}
	return nil
}

func decodeColumn(column *string, target interface{}) error {
	if column == nil || *column == "" {
		return nil
	}
	return json.Unmarshal([]byte(*column), target)
}

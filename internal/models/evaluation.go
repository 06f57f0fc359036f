package models

import (
	"time"

	"github.com/google/uuid"
)

type EvaluationStatus string

const (
	StatusQueued     EvaluationStatus = "queued"
	StatusProcessing EvaluationStatus = "processing"
	StatusCompleted  EvaluationStatus = "completed"
	StatusFailed     EvaluationStatus = "failed"
)

// Evaluation is the persisted form of an EvaluationResult plus its job
// lifecycle. Stage artifacts are stored as self-contained JSON documents so a
// result can be reloaded and inspected without re-running the pipeline.
type Evaluation struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DocumentID       *uuid.UUID       `gorm:"type:uuid" json:"document_id,omitempty"`
	ResultKey        string           `gorm:"type:text" json:"result_key"`
	OriginalFilename string           `gorm:"type:text" json:"original_filename"`
	Status           EvaluationStatus `gorm:"not null;default:'queued'" json:"status"`

	RawText          string  `gorm:"type:text" json:"raw_text"`
	StructuredCV     *string `gorm:"type:jsonb" json:"structured_cv,omitempty"`
	DerivedFeatures  *string `gorm:"type:jsonb" json:"derived_features,omitempty"`
	Scores           *string `gorm:"type:jsonb" json:"scores,omitempty"`
	VisualAnalysis   *string `gorm:"type:jsonb" json:"visual_analysis,omitempty"`
	Warnings         *string `gorm:"type:jsonb" json:"warnings,omitempty"`
	ProcessingTimeMs int64   `gorm:"default:0" json:"processing_time_ms"`
	ErrorMessage     *string `gorm:"type:text" json:"error_message,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Document *Document `gorm:"foreignKey:DocumentID" json:"-"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

package services

import "fmt"

// Pipeline stage names used in PipelineError.
const (
	StageTextExtraction = "text_extraction"
	StageExtraction     = "extraction"
	StageValidation     = "validation"
	StageScoring        = "scoring"
	StageVisualAnalysis = "visual_analysis"
	StagePersistence    = "persistence"
)

// ExtractionError is a fatal failure of the fact extractor: the model call
// failed or its output could not be coerced into a StructuredCV.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ScoringError is a fatal failure of the scorer, mirroring ExtractionError.
type ScoringError struct {
	Reason string
	Err    error
}

func (e *ScoringError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scoring failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("scoring failed: %s", e.Reason)
}

func (e *ScoringError) Unwrap() error { return e.Err }

// PipelineError wraps a fatal stage failure with the name of the stage that
// produced it. Non-fatal problems never surface as PipelineError; they are
// recorded in the result instead.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline stage %q failed: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

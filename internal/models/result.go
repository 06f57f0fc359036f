package models

import "time"

// EvaluationResult is the immutable final record of one pipeline run. Each
// stage's output is retained verbatim so every conclusion can be traced back
// to the evidence it was drawn from. Re-evaluation produces a new record.
type EvaluationResult struct {
	ID              string           `json:"id"`
	Filename        string           `json:"filename,omitempty"`
	RawText         string           `json:"raw_text"`
	StructuredCV    *StructuredCV    `json:"structured_cv"`
	DerivedFeatures *DerivedFeatures `json:"derived_features"`
	Scores          *CVScores        `json:"scores"`
	VisualAnalysis  *VisualAnalysis  `json:"visual_analysis,omitempty"`

	ProcessingTimeMs int64     `json:"processing_time_ms"`
	Warnings         []string  `json:"warnings"`
	CreatedAt        time.Time `json:"created_at"`
}

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
}

type EvaluateRequest struct {
	DocumentID string `json:"document_id" validate:"required_without=RawText,omitempty,uuid"`
	RawText    string `json:"raw_text" validate:"required_without=DocumentID"`
}

type EvaluateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Result       *EvaluationResult `json:"result,omitempty"`
	ErrorMessage *string           `json:"error_message,omitempty"`
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVisionGenerator struct {
	response string
	err      error
	images   [][]byte
}

func (f *fakeVisionGenerator) GenerateVision(_ context.Context, _, _ string, images [][]byte) (string, error) {
	f.images = images
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeRenderer struct {
	pages [][]byte
	err   error
}

func (f *fakeRenderer) RenderPages(string) ([][]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

const visualResponse = `{
  "visual_strengths": ["Clear two-column layout"],
  "visual_weaknesses": ["Dense body text"],
  "visual_recommendations": ["Increase line spacing"],
  "layout_assessment": "Well organized with clear sections.",
  "typography_assessment": "Consistent font use.",
  "readability_assessment": "Easy to scan.",
  "image_quality_notes": "Pages rendered cleanly."
}`

func TestAnalyze(t *testing.T) {
	vision := &fakeVisionGenerator{response: visualResponse}
	renderer := &fakeRenderer{pages: [][]byte{{0x89, 0x50}, {0x89, 0x50}}}
	analyzer := NewVisualAnalyzerService(vision, renderer)

	analysis := analyzer.Analyze(context.Background(), "/tmp/cv.pdf", ".pdf")
	require.NotNil(t, analysis)

	assert.Equal(t, []string{"Clear two-column layout"}, analysis.VisualStrengths)
	require.NotNil(t, analysis.LayoutAssessment)
	assert.Equal(t, "Well organized with clear sections.", *analysis.LayoutAssessment)
	assert.Len(t, vision.images, 2)
}

func TestAnalyzeNonRenderableFormat(t *testing.T) {
	analyzer := NewVisualAnalyzerService(&fakeVisionGenerator{}, &fakeRenderer{})

	analysis := analyzer.Analyze(context.Background(), "/tmp/cv.txt", ".txt")
	require.NotNil(t, analysis)

	assert.Empty(t, analysis.VisualStrengths)
	assert.Nil(t, analysis.LayoutAssessment)
	assert.Contains(t, analysis.ImageQualityNotes, "Unable to analyze document visuals")
}

func TestAnalyzeDegradesOnRenderFailure(t *testing.T) {
	analyzer := NewVisualAnalyzerService(
		&fakeVisionGenerator{response: visualResponse},
		&fakeRenderer{err: errors.New("corrupt file")},
	)

	analysis := analyzer.Analyze(context.Background(), "/tmp/cv.pdf", ".pdf")
	require.NotNil(t, analysis)
	assert.NotEmpty(t, analysis.ImageQualityNotes)
	assert.NotNil(t, analysis.VisualStrengths)
}

func TestAnalyzeDegradesOnModelFailure(t *testing.T) {
	analyzer := NewVisualAnalyzerService(
		&fakeVisionGenerator{err: errors.New("model unavailable")},
		&fakeRenderer{pages: [][]byte{{0x89}}},
	)

	analysis := analyzer.Analyze(context.Background(), "/tmp/cv.pdf", ".pdf")
	require.NotNil(t, analysis)
	assert.Contains(t, analysis.ImageQualityNotes, "vision model call failed")
}

func TestAnalyzeDegradesOnMalformedResponse(t *testing.T) {
	analyzer := NewVisualAnalyzerService(
		&fakeVisionGenerator{response: "not json at all"},
		&fakeRenderer{pages: [][]byte{{0x89}}},
	)

	analysis := analyzer.Analyze(context.Background(), "/tmp/cv.pdf", ".pdf")
	require.NotNil(t, analysis)
	assert.Contains(t, analysis.ImageQualityNotes, "malformed response")
}

func TestRenderableExtension(t *testing.T) {
	assert.True(t, RenderableExtension(".pdf"))
	assert.True(t, RenderableExtension(".PDF"))
	assert.False(t, RenderableExtension(".txt"))
	assert.False(t, RenderableExtension(".docx"))
}

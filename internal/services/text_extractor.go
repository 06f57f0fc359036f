package services

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// TextExtractionService pulls plain text out of a stored document. PDFs go
// through the embedded text layer first; scanned PDFs without one fall back to
// OCR over rendered pages.
type TextExtractionService interface {
	ExtractText(filePath string) (string, error)
}

type textExtractionService struct{}

func NewTextExtractionService() TextExtractionService {
	return &textExtractionService{}
}

func (t *textExtractionService) ExtractText(filePath string) (string, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", filePath)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return t.extractPDF(filePath)
	case ".txt":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return CleanText(string(data)), nil
	case ".docx":
		return "", fmt.Errorf("docx text extraction is not supported; convert to PDF")
	default:
		return "", fmt.Errorf("unsupported file extension: %s", ext)
	}
}

func (t *textExtractionService) extractPDF(filePath string) (string, error) {
	text, err := extractPDFTextLayer(filePath)
	if err == nil && strings.TrimSpace(text) != "" {
		return CleanText(text), nil
	}

	// Scanned document or broken text layer. OCR the rendered pages.
	log.Printf("🔄 No embedded text in %s, falling back to OCR", filepath.Base(filePath))
	text, err = extractPDFOCR(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	return CleanText(text), nil
}

func extractPDFTextLayer(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, the rest may still carry text.
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}

	return text, nil
}

func extractPDFOCR(filePath string) (string, error) {
	if err := exec.Command("tesseract", "-v").Run(); err != nil {
		return "", fmt.Errorf("tesseract not available for OCR: %w", err)
	}

	doc, err := fitz.New(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var fullText bytes.Buffer
	var lastErr error

	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := ocrPage(doc, n)
		if err != nil {
			lastErr = err
			log.Printf("❌ OCR page %d failed: %v", n+1, err)
			continue
		}

		if pageText != "" {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if result == "" {
		if lastErr != nil {
			return "", fmt.Errorf("OCR produced no text: %w", lastErr)
		}
		return "", fmt.Errorf("OCR produced no text")
	}

	return result, nil
}

func ocrPage(doc *fitz.Document, n int) (string, error) {
	img, err := doc.Image(n)
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}

	tmpFile, err := os.CreateTemp("", "cv-page-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	if err := savePNG(tmpPath, img); err != nil {
		return "", err
	}

	out, err := exec.Command("tesseract", tmpPath, "stdout", "-l", "eng+fra").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w", err)
	}

	return strings.TrimSpace(string(out)), nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	return nil
}

// CleanText trims each line and drops empty ones so the model prompt is not
// padded with extraction noise.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}

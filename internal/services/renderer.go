package services

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// maxRenderedPages caps how many pages go to the vision model. CVs past page
// five add cost without adding layout signal.
const maxRenderedPages = 5

// PageRenderer turns a stored document into per-page PNG images for visual
// analysis.
type PageRenderer interface {
	RenderPages(filePath string) ([][]byte, error)
}

type fitzRenderer struct{}

func NewPageRenderer() PageRenderer {
	return &fitzRenderer{}
}

// RenderableExtension reports whether the extension supports page rendering.
// Plain text has no layout to analyze, and docx rendering is not supported.
func RenderableExtension(ext string) bool {
	return strings.ToLower(ext) == ".pdf"
}

func (r *fitzRenderer) RenderPages(filePath string) ([][]byte, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, fmt.Errorf("document has no pages")
	}
	if pageCount > maxRenderedPages {
		pageCount = maxRenderedPages
	}

	var pages [][]byte
	for n := 0; n < pageCount; n++ {
		img, err := doc.Image(n)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", n+1, err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", n+1, err)
		}
		pages = append(pages, buf.Bytes())
	}

	return pages, nil
}

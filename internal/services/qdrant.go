package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"talentmatch/cv-pipeline/internal/models"
)

const (
	profileChunkSize    = 1000
	profileChunkOverlap = 150
)

// ProfileIndexerService maintains the candidate-profile vector index. Each
// completed evaluation contributes its structured CV as embedded text chunks,
// searchable by recruiters across past candidates.
type ProfileIndexerService interface {
	InitCollection() error
	IndexCandidate(ctx context.Context, resultID string, cv *models.StructuredCV) error
	SearchSimilarProfiles(ctx context.Context, query string, limit int) ([]ProfileMatch, error)
}

type ProfileMatch struct {
	ResultID string
	Score    float32
	Excerpt  string
}

type profileIndexerService struct {
	client         *qdrant.Client
	embedder       Embedder
	chunker        TextChunker
	collectionName string
	vectorSize     uint64
}

func NewProfileIndexerService(urlStr, apiKey, collectionName string, embedder Embedder) (ProfileIndexerService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC client talks to the gRPC port, not the REST one.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &profileIndexerService{
		client:         client,
		embedder:       embedder,
		chunker:        NewTextChunker(),
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 output size
	}, nil
}

// InitCollection implements ProfileIndexerService.
func (p *profileIndexerService) InitCollection() error {
	ctx := context.Background()

	exists, err := p.client.CollectionExists(ctx, p.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Profile collection already exists")
		return nil
	}

	err = p.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: p.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     p.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", p.collectionName)
	return nil
}

// IndexCandidate implements ProfileIndexerService. The structured CV is
// flattened to profile text, chunked, embedded, and upserted one point per
// chunk under the evaluation's result ID.
func (p *profileIndexerService) IndexCandidate(ctx context.Context, resultID string, cv *models.StructuredCV) error {
	if cv == nil {
		return fmt.Errorf("no structured CV to index")
	}

	profileText := buildProfileText(cv)
	if strings.TrimSpace(profileText) == "" {
		return fmt.Errorf("structured CV produced no indexable text")
	}

	chunks := p.chunker.ChunkText(profileText, profileChunkSize, profileChunkOverlap)
	for i, chunk := range chunks {
		embedding, err := p.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		point := &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(uuid.New().ID())),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"result_id":   resultID,
				"chunk_index": i,
				"text":        chunk,
			}),
		}

		_, err = p.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: p.collectionName,
			Points:         []*qdrant.PointStruct{point},
		})
		if err != nil {
			return fmt.Errorf("failed to upsert chunk %d: %w", i, err)
		}
	}

	return nil
}

// SearchSimilarProfiles implements ProfileIndexerService.
func (p *profileIndexerService) SearchSimilarProfiles(ctx context.Context, query string, limit int) ([]ProfileMatch, error) {
	if limit <= 0 {
		limit = 5
	}

	queryEmbedding, err := p.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchResult, err := p.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: p.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}

	var matches []ProfileMatch
	for _, point := range searchResult {
		match := ProfileMatch{Score: point.Score}

		if resultID, ok := point.Payload["result_id"]; ok {
			if val, ok := resultID.GetKind().(*qdrant.Value_StringValue); ok {
				match.ResultID = val.StringValue
			}
		}
		if text, ok := point.Payload["text"]; ok {
			if val, ok := text.GetKind().(*qdrant.Value_StringValue); ok {
				match.Excerpt = val.StringValue
			}
		}

		matches = append(matches, match)
	}

	return matches, nil
}

// buildProfileText flattens the searchable parts of a structured CV into
// plain text for embedding.
func buildProfileText(cv *models.StructuredCV) string {
	var b strings.Builder

	if cv.PersonalInfo.Name != "" {
		b.WriteString(cv.PersonalInfo.Name)
		b.WriteString("\n\n")
	}
	if cv.ProfessionalSummary != "" {
		b.WriteString(cv.ProfessionalSummary)
		b.WriteString("\n\n")
	}

	for _, exp := range cv.WorkExperience {
		b.WriteString(exp.Role)
		if exp.Company != "" {
			b.WriteString(" at ")
			b.WriteString(exp.Company)
		}
		b.WriteString("\n")
		for _, r := range exp.Responsibilities {
			b.WriteString(r)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	for _, edu := range cv.Education {
		b.WriteString(edu.Degree)
		if edu.FieldOfStudy != "" {
			b.WriteString(" in ")
			b.WriteString(edu.FieldOfStudy)
		}
		if edu.Institution != "" {
			b.WriteString(", ")
			b.WriteString(edu.Institution)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, cat := range cv.Skills {
		b.WriteString(strings.Join(cat.Skills, ", "))
		b.WriteString("\n")
	}

	for _, proj := range cv.Projects {
		b.WriteString(proj.Name)
		b.WriteString(": ")
		b.WriteString(proj.Description)
		b.WriteString("\n")
	}

	return b.String()
}

package services

import (
	"regexp"
	"strings"

	"talentmatch/cv-pipeline/internal/models"
)

// maxQuantifiedExamples caps how many matching snippets are kept as evidence.
const maxQuantifiedExamples = 5

// quantifiedPatterns is the fixed battery of pattern classes that mark a
// responsibility or project description as a quantified achievement. The set
// is a heuristic signal: false positives and negatives are acceptable, but
// the battery itself stays fixed so the behavior is testable.
var quantifiedPatterns = []*regexp.Regexp{
	// Percentages: "30%", "12.5 %"
	regexp.MustCompile(`\d+(?:\.\d+)?\s?%`),
	// Currency symbols: "$1.2M", "€50,000", "£300"
	regexp.MustCompile(`[$€£]\s?\d[\d,.]*`),
	// Currency words: "500 USD", "2 million EUR", "1.5M IDR"
	regexp.MustCompile(`(?i)\b\d[\d,.]*\s?[kmb]?\s?(?:usd|eur|idr|dollars?|euros?)\b`),
	// Large-number abbreviations: "10k", "2M", "3 million"
	regexp.MustCompile(`(?i)\b\d[\d,.]*\s?(?:k|m|b|thousand|million|billion)\b`),
	// Audience counts: "50,000 users", "200+ customers"
	regexp.MustCompile(`(?i)\b\d[\d,.]*\+?\s?(?:users?|customers?|clients?|downloads?|requests?|transactions?|visitors?)\b`),
	// Improvement verbs with a number somewhere in the same clause
	regexp.MustCompile(`(?i)\b(?:increased|decreased|reduced|improved|grew|boosted|cut|saved|accelerated|scaled|doubled|tripled)\b[^.;]*\d`),
	// Multipliers: "3x", "10X"
	regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?x\b`),
	// Rankings: "top 5", "Top 10"
	regexp.MustCompile(`(?i)\btop\s?\d+\b`),
	// "N+ years", "N+ projects" phrasing
	regexp.MustCompile(`(?i)\b\d+\s?\+\s?(?:years?|projects?|ans|projets?)\b`),
	// Team-size leadership: "led a team of 8", "managed 12 direct reports".
	// Up to two words may sit between the count and the people noun.
	regexp.MustCompile(`(?i)\b(?:led|managed|supervised|mentored|coordinated)\b[^.;]*?\b(?:team\s+of\s+\d+|\d+\s(?:\w+\s){0,2}(?:people|person|engineers?|developers?|members?|reports?|personnes?))\b`),
}

// isQuantified reports whether a single statement contains a quantified
// achievement per the pattern battery.
func isQuantified(text string) bool {
	if !strings.ContainsAny(text, "0123456789") {
		return false
	}
	for _, re := range quantifiedPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// detectQuantifiedResults scans every responsibility string and project
// description, returning the match count and up to maxQuantifiedExamples
// example snippets in source order.
func detectQuantifiedResults(cv *models.StructuredCV) (int, []string) {
	count := 0
	examples := []string{}

	record := func(text string) {
		text = strings.TrimSpace(text)
		if text == "" || !isQuantified(text) {
			return
		}
		count++
		if len(examples) < maxQuantifiedExamples {
			examples = append(examples, truncateSnippet(text, 160))
		}
	}

	for _, exp := range cv.WorkExperience {
		for _, resp := range exp.Responsibilities {
			record(resp)
		}
	}
	for _, proj := range cv.Projects {
		record(proj.Description)
	}

	return count, examples
}

func truncateSnippet(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-1]) + "…"
}

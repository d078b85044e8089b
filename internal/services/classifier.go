package services

import (
	"strings"

	"github.com/Lllllllleong/tmpcompliance/internal/keywords"
	"github.com/Lllllllleong/tmpcompliance/internal/models"
)

// Classify scores recognized text against the keyword lists. Matching is
// case-insensitive substring containment. Matched phrases keep the order of
// the compliance list, not the order they appear in the text.
func Classify(text string, kw keywords.Config) models.ClassificationResult {
	lower := strings.ToLower(text)
	res := models.ClassificationResult{Matched: []string{}}

	for _, k := range kw.TMPIndicators {
		if strings.Contains(lower, strings.ToLower(k)) {
			res.IsTMP = true
			break
		}
	}

	seen := make(map[string]bool, len(kw.ComplianceIndicators))
	for _, k := range kw.ComplianceIndicators {
		key := strings.ToLower(k)
		if seen[key] {
			continue
		}
		seen[key] = true
		if strings.Contains(lower, key) {
			res.Matched = append(res.Matched, k)
		}
	}

	res.Score = ComplianceScore(len(res.Matched), len(kw.ComplianceIndicators))
	return res
}

// ComplianceScore is floor(100 * matched / total), clamped to [0, 100].
func ComplianceScore(matched, total int) int {
	if total <= 0 || matched <= 0 {
		return 0
	}
	if matched >= total {
		return 100
	}
	return 100 * matched / total
}

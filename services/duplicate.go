package services

import (
	"strings"

	"backend/entity"
	"backend/pkg/geo"
	"backend/repository"
)

// tokens too common to signal anything
var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true,
	"by": true, "that": true, "this": true, "are": true, "was": true,
	"were": true, "been": true, "have": true, "has": true, "had": true,
}

// ExtractKeywords lowercases, strips punctuation and drops short
// tokens and stop words.
func ExtractKeywords(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, lower)

	seen := map[string]bool{}
	var out []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= 2 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// DuplicateDetector links a new report to an existing open report when
// both the spatial and lexical filters pass. A cheap heuristic, not a
// scored match: the first satisfying candidate wins.
type DuplicateDetector struct {
	Repo    *repository.ReportRepository
	RadiusM float64
}

func NewDuplicateDetector(repo *repository.ReportRepository, radiusM float64) *DuplicateDetector {
	return &DuplicateDetector{Repo: repo, RadiusM: radiusM}
}

// FindDuplicate returns the original report the draft duplicates, or
// nil. With fewer than 2 usable keywords detection is skipped: never
// force a false match on a near-empty description.
func (d *DuplicateDetector) FindDuplicate(title, description, category string, lng, lat float64) (*entity.Report, error) {
	keywords := ExtractKeywords(title)
	for _, k := range ExtractKeywords(description) {
		found := false
		for _, t := range keywords {
			if t == k {
				found = true
				break
			}
		}
		if !found {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) < 2 {
		return nil, nil
	}

	radiusKm := d.RadiusM / 1000
	minLng, maxLng, minLat, maxLat := geo.BoundingBox(lng, lat, radiusKm)
	candidates, err := d.Repo.FindDuplicateCandidates(category, minLng, maxLng, minLat, maxLat)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		cand := &candidates[i]
		if geo.HaversineKm(lng, lat, cand.Lng, cand.Lat) > radiusKm {
			continue
		}
		if sharedKeywords(keywords, cand) >= 2 {
			return cand, nil
		}
	}
	return nil, nil
}

// sharedKeywords counts how many of the draft's keywords appear as
// substrings of the candidate's title or description.
func sharedKeywords(keywords []string, cand *entity.Report) int {
	title := strings.ToLower(cand.Title)
	desc := strings.ToLower(cand.Description)
	n := 0
	for _, k := range keywords {
		if strings.Contains(title, k) || strings.Contains(desc, k) {
			n++
		}
	}
	return n
}

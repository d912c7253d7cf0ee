// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package discovery

import (
	"math"
	"strings"

	"github.com/poiesic/peerscope/core"
)

// Weights for the pairwise similarity sub-scores. Sub-scores that cannot be
// computed (missing field on either side) are excluded and the remaining
// weights renormalized to sum to 1.
const (
	industryWeight      = 0.30
	businessModelWeight = 0.25
	sizeWeight          = 0.20
	locationWeight      = 0.15
	descriptionWeight   = 0.10
)

// neutralSimilarity is returned when no sub-score is computable at all.
const neutralSimilarity = 0.5

// industryGroups maps industry keywords to a coarse category. Two industries
// in the same category score 0.8 without an exact match.
var industryGroups = map[string]string{
	"tech":       "tech",
	"technology": "tech",
	"software":   "tech",
	"saas":       "tech",
	"internet":   "tech",
	"cloud":      "tech",
	"it":         "tech",
	"ai":         "tech",

	"finance":   "finance",
	"financial": "finance",
	"fintech":   "finance",
	"banking":   "finance",
	"insurance": "finance",
	"payments":  "finance",
	"lending":   "finance",

	"retail":    "retail",
	"ecommerce": "retail",
	"commerce":  "retail",
	"consumer":  "retail",
	"grocery":   "retail",
	"fashion":   "retail",
}

// businessModelGroups maps business-model keywords to a coarse category.
var businessModelGroups = map[string]string{
	"b2b":        "b2b",
	"enterprise": "b2b",
	"wholesale":  "b2b",

	"b2c":    "b2c",
	"d2c":    "b2c",
	"direct": "b2c",

	"marketplace": "marketplace",
	"platform":    "marketplace",
	"exchange":    "marketplace",
}

// regionGroups maps location keywords to a coarse region. Two locations in
// the same region score 0.7 without an exact match.
var regionGroups = map[string]string{
	"us":            "us",
	"usa":           "us",
	"america":       "us",
	"states":        "us",
	"california":    "us",
	"york":          "us",
	"francisco":     "us",
	"austin":        "us",
	"seattle":       "us",
	"boston":        "us",

	"eu":          "eu",
	"europe":      "eu",
	"uk":          "eu",
	"kingdom":     "eu",
	"london":      "eu",
	"germany":     "eu",
	"berlin":      "eu",
	"france":      "eu",
	"paris":       "eu",
	"amsterdam":   "eu",
	"netherlands": "eu",

	"asia":      "asia",
	"china":     "asia",
	"beijing":   "asia",
	"shanghai":  "asia",
	"japan":     "asia",
	"tokyo":     "asia",
	"india":     "asia",
	"bangalore": "asia",
	"singapore": "asia",
}

// Similarity computes the pairwise similarity of two companies as a weighted
// sum of five sub-scores: industry, business model, size, location, and
// description overlap. Missing fields exclude their sub-score and the
// remaining weights are renormalized. Returns a neutral 0.5 when nothing is
// computable.
func Similarity(a, b *core.CompanyMatch) float64 {
	var weighted, totalWeight float64

	if score, ok := categorySimilarity(a.Industry, b.Industry, industryGroups); ok {
		weighted += industryWeight * score
		totalWeight += industryWeight
	}
	if score, ok := categorySimilarity(a.BusinessModel, b.BusinessModel, businessModelGroups); ok {
		weighted += businessModelWeight * score
		totalWeight += businessModelWeight
	}
	if score, ok := sizeSimilarity(a.EmployeeCount, b.EmployeeCount); ok {
		weighted += sizeWeight * score
		totalWeight += sizeWeight
	}
	if score, ok := locationSimilarity(a.Location, b.Location); ok {
		weighted += locationWeight * score
		totalWeight += locationWeight
	}
	if score, ok := descriptionOverlap(a.Description, b.Description); ok {
		weighted += descriptionWeight * score
		totalWeight += descriptionWeight
	}

	if totalWeight == 0 {
		return neutralSimilarity
	}
	return weighted / totalWeight
}

// categorySimilarity scores two categorical fields: exact match 1.0, same
// category group 0.8, else token-Jaccard scaled by 0.6. Not computable when
// either side is empty.
func categorySimilarity(a, b string, groups map[string]string) (float64, bool) {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return 0, false
	}
	if strings.EqualFold(a, b) {
		return 1.0, true
	}
	if ga, gb := lookupGroup(a, groups), lookupGroup(b, groups); ga != "" && ga == gb {
		return 0.8, true
	}
	return jaccard(tokenSet(tokenizeAndFilter(a)), tokenSet(tokenizeAndFilter(b))) * 0.6, true
}

// lookupGroup returns the first category group any token of the value maps
// to, or "" when none matches.
func lookupGroup(value string, groups map[string]string) string {
	for _, token := range tokenizeAndFilter(value) {
		if group, ok := groups[token]; ok {
			return group
		}
	}
	return ""
}

// sizeSimilarity scores employee counts on a log scale: identical sizes
// score 1.0, a thousand-fold difference scores 0.0. A count of zero means
// the field is missing and excludes the sub-score; explicit negative counts
// yield a neutral 0.5.
func sizeSimilarity(a, b int) (float64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	if a < 0 || b < 0 {
		return 0.5, true
	}
	diff := math.Abs(math.Log10(float64(a)) - math.Log10(float64(b)))
	return math.Max(0, 1-diff/3), true
}

// locationSimilarity scores two locations: exact match 1.0, same region
// group 0.7, any shared token 0.5, else 0.1. Not computable when either
// side is empty.
func locationSimilarity(a, b string) (float64, bool) {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return 0, false
	}
	if strings.EqualFold(a, b) {
		return 1.0, true
	}
	if ga, gb := lookupGroup(a, regionGroups), lookupGroup(b, regionGroups); ga != "" && ga == gb {
		return 0.7, true
	}

	// Shared city token, e.g. "Austin, TX" vs "Austin, Texas"
	bTokens := tokenSet(tokenizeAndFilter(b))
	for _, token := range tokenizeAndFilter(a) {
		if bTokens[token] {
			return 0.5, true
		}
	}
	return 0.1, true
}

// descriptionOverlap scores the Jaccard similarity of stop-word-filtered
// description tokens. Neutral 0.5 when either side has no usable tokens
// left after filtering. Not computable when either description is absent.
func descriptionOverlap(a, b string) (float64, bool) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0, false
	}
	aTokens := tokenSet(tokenizeAndFilter(a))
	bTokens := tokenSet(tokenizeAndFilter(b))
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0.5, true
	}
	return jaccard(aTokens, bTokens), true
}

// Package matching implements the fuzzy name-matching engine that links
// bank-statement payer names to tenants. Hebrew bank records commonly invert
// word order, abbreviate, or use final-letter spellings that differ from the
// roster, so the engine scores each candidate with several independent
// strategies and keeps the single best result.
package matching

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vaadbayit/reconciler/internal/domain"
	"github.com/vaadbayit/reconciler/internal/hebrew"
)

// DefaultThreshold is the minimum confidence for an automatic match.
const DefaultThreshold = 0.7

// AutoConfirmThreshold marks matches that need no manual review.
const AutoConfirmThreshold = 0.9

// amountTolerance is the shekel tolerance for the amount-agreement boost.
var amountTolerance = decimal.NewFromInt(1)

// Candidate is an immutable tenant snapshot supplied per matching call.
type Candidate struct {
	ID       string
	Name     string
	FullName string
}

// Decision is the outcome of one matching attempt. TenantID is empty when no
// candidate reached the threshold; Confidence then still carries the best
// observed score for manual-review UIs.
type Decision struct {
	TenantID   string
	Confidence float64
	Method     domain.MatchMethod
}

// Config holds the engine's tunables.
type Config struct {
	// Threshold is the minimum confidence for a match; zero means
	// DefaultThreshold.
	Threshold float64
}

// Engine scores payer names against tenant candidates. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	threshold float64
}

func NewEngine(cfg Config) *Engine {
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	return &Engine{threshold: cfg.Threshold}
}

// strategy scores a normalized payer name against a candidate's normalized
// display and full names, returning a score in [0,1].
type strategy struct {
	method domain.MatchMethod
	score  func(payer, name, fullName string) float64
}

var strategies = []strategy{
	{domain.MethodExact, exactScore},
	{domain.MethodReversedName, reversedNameScore},
	{domain.MethodFuzzy, fuzzyScore},
	{domain.MethodTokenBased, tokenScore},
}

// Match finds the best tenant for a payer name. When expected and actual are
// both supplied and agree within one shekel, the selected score gets a +0.2
// boost (capped at 1.0) applied once, after strategy selection. Ties keep
// the first-encountered candidate: a later equal score never overwrites.
func (e *Engine) Match(payerName string, tenants []Candidate, expected, actual *decimal.Decimal) Decision {
	if payerName == "" || len(tenants) == 0 {
		return Decision{Confidence: 0, Method: domain.MethodNone}
	}

	payer := hebrew.Normalize(payerName)

	best := Decision{Confidence: 0, Method: domain.MethodNone}
	bestTenant := ""
	for _, tenant := range tenants {
		name := hebrew.Normalize(tenant.Name)
		fullName := hebrew.Normalize(tenant.FullName)
		if fullName == "" {
			fullName = name
		}

		for _, s := range strategies {
			if score := s.score(payer, name, fullName); score > best.Confidence {
				best.Confidence = score
				best.Method = s.method
				bestTenant = tenant.ID
			}
		}
	}

	if expected != nil && actual != nil && expected.Sub(*actual).Abs().LessThan(amountTolerance) {
		best.Confidence = min(best.Confidence+0.2, 1.0)
		if best.Method == domain.MethodNone {
			best.Method = domain.MethodAmount
		}
	}

	if best.Confidence >= e.threshold {
		best.TenantID = bestTenant
	}
	return best
}

// Suggestion is one ranked candidate for manual review.
type Suggestion struct {
	TenantID   string             `json:"tenant_id"`
	Name       string             `json:"tenant_name"`
	Confidence float64            `json:"confidence"`
	Method     domain.MatchMethod `json:"method"`
}

// Suggest returns the top-N candidates by best strategy score, for manual
// review of unmatched transactions. Ties preserve candidate input order.
func (e *Engine) Suggest(payerName string, tenants []Candidate, topN int) []Suggestion {
	if payerName == "" || topN <= 0 {
		return nil
	}

	payer := hebrew.Normalize(payerName)

	var suggestions []Suggestion
	for _, tenant := range tenants {
		name := hebrew.Normalize(tenant.Name)
		fullName := hebrew.Normalize(tenant.FullName)
		if fullName == "" {
			fullName = name
		}

		bestScore := 0.0
		bestMethod := domain.MethodNone
		for _, s := range strategies {
			if score := s.score(payer, name, fullName); score > bestScore {
				bestScore = score
				bestMethod = s.method
			}
		}
		if bestScore > 0 {
			suggestions = append(suggestions, Suggestion{
				TenantID:   tenant.ID,
				Name:       tenant.Name,
				Confidence: bestScore,
				Method:     bestMethod,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if len(suggestions) > topN {
		suggestions = suggestions[:topN]
	}
	return suggestions
}

// --- strategies ---

func exactScore(payer, name, fullName string) float64 {
	if payer == name || payer == fullName {
		return 1.0
	}
	return 0.0
}

// reversedNameScore handles transposed word order: the bank stores
// "surname firstname" while the roster stores "firstname surname".
func reversedNameScore(payer, name, fullName string) float64 {
	payerParts := strings.Fields(payer)

	if len(payerParts) >= 2 {
		reversed := joinReversed(payerParts)

		if reversed == name {
			return 0.95
		}
		if hasPrefixEitherWay(reversed, name) || hasPrefixEitherWay(reversed, fullName) {
			return 0.85
		}
	}

	nameParts := strings.Fields(name)
	if len(nameParts) >= 2 && payer == joinReversed(nameParts) {
		return 0.95
	}

	return 0.0
}

func joinReversed(parts []string) string {
	reversed := make([]string, len(parts))
	for i, part := range parts {
		reversed[len(parts)-1-i] = part
	}
	return strings.Join(reversed, " ")
}

func hasPrefixEitherWay(a, b string) bool {
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}

// fuzzyScore blends whole-string similarity with substring similarity,
// taking the better of display and full name for each metric.
func fuzzyScore(payer, name, fullName string) float64 {
	whole := max(similarityRatio(payer, name), similarityRatio(payer, fullName))
	partial := max(partialRatio(payer, name), partialRatio(payer, fullName))
	return whole*0.7 + partial*0.3
}

// tokenScore treats names as word sets and computes Jaccard similarity, with
// a flat boost when any payer token appears in the tenant's name. This
// rewards abbreviated bank records where only one name component survives.
func tokenScore(payer, name, fullName string) float64 {
	payerTokens := tokenSet(payer)
	nameTokens := tokenSet(name)
	fullTokens := tokenSet(fullName)

	score := max(jaccard(payerTokens, nameTokens), jaccard(payerTokens, fullTokens))

	for token := range payerTokens {
		if _, inName := nameTokens[token]; inName {
			return min(score+0.15, 1.0)
		}
		if _, inFull := fullTokens[token]; inFull {
			return min(score+0.15, 1.0)
		}
	}
	return score
}

func tokenSet(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, token := range strings.Fields(s) {
		tokens[token] = struct{}{}
	}
	return tokens
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

/*
 * @module service/etl/classifier
 * @description Cost type classifier mapping free-text source category labels
 *              onto the internal cost type taxonomy
 * @architecture Layered - pure domain logic, no I/O
 * @stateFlow Label normalization (diacritic folding, lowercasing) -> ordered keyword rule scan
 * @rules First matching rule wins; rule order matters where keyword sets overlap
 * @dependencies golang.org/x/text, gus-analytics-service/service/models
 * @refs service/etl/transformer.go
 */

package etl

import (
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"gus-analytics-service/service/models"
)

// CostTypeRule maps keyword presence in a normalized label to a cost type.
type CostTypeRule struct {
	Keywords []string
	Code     string
	Category string
}

// defaultRules covers the seven housing stock categories published under
// subgroup P3961. Evaluated top to bottom.
var defaultRules = []CostTypeRule{
	{Keywords: []string{"gminne", "komunalne"}, Code: "ZASOBY_GMINNE", Category: models.CategoryPublic},
	{Keywords: []string{"skarbu panstwa", "skarb panstwa"}, Code: "ZASOBY_SKARBU_PANSTWA", Category: models.CategoryPublic},
	{Keywords: []string{"spoldzielni", "spoldzielcz"}, Code: "ZASOBY_SPOLDZIELNI", Category: models.CategoryCooperative},
	{Keywords: []string{"tbs", "budownictwa spolecznego"}, Code: "ZASOBY_TBS", Category: models.CategorySocial},
	{Keywords: []string{"wspolnot"}, Code: "ZASOBY_WSPOLNOTY", Category: models.CategoryPrivate},
	{Keywords: []string{"innych podmiotow", "inne podmioty"}, Code: "ZASOBY_INNE", Category: models.CategoryPrivate},
	{Keywords: []string{"zakladow pracy", "zaklady pracy"}, Code: "ZASOBY_ZAKLADY_PRACY", Category: models.CategoryPrivate},
}

// Classifier resolves source category labels to (code, category) pairs.
// An unmapped label is a source-taxonomy drift signal and is logged once.
type Classifier struct {
	rules []CostTypeRule

	mu       sync.Mutex
	reported map[string]bool
}

// NewClassifier builds a classifier over the default rule table.
func NewClassifier() *Classifier {
	return &Classifier{
		rules:    defaultRules,
		reported: make(map[string]bool),
	}
}

// Classify returns the internal cost type code and category for a label.
// ok is false when no rule matches.
func (c *Classifier) Classify(label string) (code, category string, ok bool) {
	normalized := NormalizeLabel(label)

	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(normalized, kw) {
				return rule.Code, rule.Category, true
			}
		}
	}

	c.mu.Lock()
	first := !c.reported[normalized]
	c.reported[normalized] = true
	c.mu.Unlock()
	if first {
		slog.Warn("unmapped cost type label", "label", label)
	}
	return "", "", false
}

// strokeFold maps Polish stroked letters that NFD does not decompose.
var strokeFold = runes.Map(func(r rune) rune {
	switch r {
	case 'ł':
		return 'l'
	case 'Ł':
		return 'L'
	}
	return r
})

// NormalizeLabel lowercases a label and strips diacritics so keyword rules
// can be written in plain ASCII.
func NormalizeLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), strokeFold, norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

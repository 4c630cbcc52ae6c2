/*
 * @module service/etl/classifier_test
 * @description Classifier unit tests: label coverage, normalization, unmapped handling
 * @architecture Unit tests - pure logic, no database
 * @stateFlow Prepare labels -> classify -> verify code/category pairs
 * @rules Every published source label must map to exactly one taxonomy entry
 * @dependencies testing, testify
 * @refs classifier.go
 */

package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_PublishedLabels(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		name         string
		label        string
		wantCode     string
		wantCategory string
	}{
		{
			name:         "municipal stock",
			label:        "zasoby gminne (komunalne)",
			wantCode:     "ZASOBY_GMINNE",
			wantCategory: "PUBLICZNE",
		},
		{
			name:         "state treasury stock",
			label:        "zasoby Skarbu Państwa",
			wantCode:     "ZASOBY_SKARBU_PANSTWA",
			wantCategory: "PUBLICZNE",
		},
		{
			name:         "cooperative stock",
			label:        "zasoby spółdzielni mieszkaniowych",
			wantCode:     "ZASOBY_SPOLDZIELNI",
			wantCategory: "SPOLDZIELCZE",
		},
		{
			name:         "social housing stock",
			label:        "zasoby towarzystw budownictwa społecznego (TBS)",
			wantCode:     "ZASOBY_TBS",
			wantCategory: "SPOLECZNE",
		},
		{
			name:         "housing community stock",
			label:        "zasoby w budynkach objętych wspólnotami mieszkaniowymi",
			wantCode:     "ZASOBY_WSPOLNOTY",
			wantCategory: "PRYWATNE",
		},
		{
			name:         "other entities stock",
			label:        "zasoby innych podmiotów",
			wantCode:     "ZASOBY_INNE",
			wantCategory: "PRYWATNE",
		},
		{
			name:         "employer owned stock",
			label:        "zasoby zakładów pracy",
			wantCode:     "ZASOBY_ZAKLADY_PRACY",
			wantCategory: "PRYWATNE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, category, ok := classifier.Classify(tt.label)

			assert.True(t, ok, "label %q should map", tt.label)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantCategory, category)
		})
	}
}

func TestClassifier_UnmappedLabel(t *testing.T) {
	classifier := NewClassifier()

	code, category, ok := classifier.Classify("zasoby kosmiczne")

	assert.False(t, ok)
	assert.Empty(t, code)
	assert.Empty(t, category)
}

func TestClassifier_CaseAndDiacriticsInsensitive(t *testing.T) {
	classifier := NewClassifier()

	// Same label with and without Polish diacritics must match the same rule.
	codeAccented, _, okAccented := classifier.Classify("ZASOBY SPÓŁDZIELNI MIESZKANIOWYCH")
	codePlain, _, okPlain := classifier.Classify("zasoby spoldzielni mieszkaniowych")

	assert.True(t, okAccented)
	assert.True(t, okPlain)
	assert.Equal(t, codePlain, codeAccented)
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases", input: "ZASOBY GMINNE", want: "zasoby gminne"},
		{name: "strips combining diacritics", input: "spółdzielnią", want: "spoldzielnia"},
		{name: "folds stroked l", input: "zakładów", want: "zakladow"},
		{name: "plain ascii unchanged", input: "tbs", want: "tbs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLabel(tt.input))
		})
	}
}

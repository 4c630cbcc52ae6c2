/*
 * @module service/etl/transformer
 * @description Reshapes raw BDL API records (nested year/value series) into
 *              flat fact candidate rows
 * @architecture Layered - pure domain logic, no I/O
 * @stateFlow Raw record -> unit code derivation -> classification -> one candidate per observation
 * @rules Records with an unmapped category label are dropped before validation, but counted;
 *        observations without a value yield no candidate
 * @dependencies gus-analytics-service/client, github.com/spf13/cast
 * @refs service/etl/classifier.go, service/etl/validator.go
 */

package etl

import (
	"strings"

	"gus-analytics-service/client"
	"gus-analytics-service/service/models"
)

// CandidateRecord is a flat fact candidate produced by the transformer.
// Year stays loosely typed until validation proves it integer-convertible.
type CandidateRecord struct {
	UnitCode     string      `json:"unit_code"`
	UnitName     string      `json:"unit_name"`
	Level        string      `json:"level"`
	RegionCode   *string     `json:"region_code,omitempty"`
	CostTypeCode string      `json:"cost_type_code"`
	CostTypeName string      `json:"cost_type_name"`
	Category     string      `json:"category"`
	Year         interface{} `json:"year"`
	Value        *float64    `json:"value"`
}

// TransformStats counts what happened to the raw input.
type TransformStats struct {
	RawRecords       int `json:"raw_records"`
	Candidates       int `json:"candidates"`
	UnmappedDropped  int `json:"unmapped_dropped"`
	NullObservations int `json:"null_observations"`
}

// levelByUnitLevel maps the requested BDL unit level to an administrative level.
var levelByUnitLevel = map[int]string{
	0: models.LevelNational,
	1: models.LevelNational,
	2: models.LevelRegion,
	3: models.LevelSubregion,
	4: models.LevelCounty,
	5: models.LevelCommune,
	6: models.LevelCommune,
}

// Transformer turns raw API records into candidate fact rows.
type Transformer struct {
	classifier *Classifier
}

// NewTransformer builds a transformer over the given classifier.
func NewTransformer(classifier *Classifier) *Transformer {
	return &Transformer{classifier: classifier}
}

// Transform flattens raw records into candidates. unitLevel is the BDL
// granularity the records were requested at.
func (t *Transformer) Transform(records []client.RawRecord, unitLevel int) ([]CandidateRecord, TransformStats) {
	stats := TransformStats{RawRecords: len(records)}

	level, ok := levelByUnitLevel[unitLevel]
	if !ok {
		level = models.LevelCounty
	}

	candidates := make([]CandidateRecord, 0, len(records))
	for _, rec := range records {
		code, category, mapped := t.classifier.Classify(rec.VariableName)
		if !mapped {
			stats.UnmappedDropped++
			continue
		}

		unitCode := NormalizeUnitCode(rec.UnitID)

		for _, obs := range rec.Observations {
			if obs.Value == nil {
				stats.NullObservations++
				continue
			}

			candidates = append(candidates, CandidateRecord{
				UnitCode:     unitCode,
				UnitName:     rec.UnitName,
				Level:        level,
				RegionCode:   regionCode(unitCode, level),
				CostTypeCode: code,
				CostTypeName: rec.VariableName,
				Category:     category,
				Year:         obs.Year,
				Value:        obs.Value,
			})
		}
	}

	stats.Candidates = len(candidates)
	return candidates, stats
}

// NormalizeUnitCode strips separators from a raw BDL unit identifier and
// left-pads the leading 7 characters with zeros.
func NormalizeUnitCode(unitID string) string {
	var b strings.Builder
	for _, r := range unitID {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	code := b.String()
	if len(code) > 7 {
		code = code[:7]
	}
	return PadUnitCode(code)
}

// PadUnitCode left-pads a code with zeros to 7 characters.
func PadUnitCode(code string) string {
	if len(code) >= 7 {
		return code
	}
	return strings.Repeat("0", 7-len(code)) + code
}

// regionCode derives the owning region code ("first two digits + five
// zeros"). National units and the regions themselves have no parent.
func regionCode(unitCode, level string) *string {
	if level == models.LevelNational || unitCode == models.NationalUnitCode {
		return nil
	}
	if len(unitCode) < 2 {
		return nil
	}
	rc := unitCode[:2] + "00000"
	if rc == unitCode {
		return nil
	}
	return &rc
}

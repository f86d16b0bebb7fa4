// Package scc classifies mastitis severity from somatic cell count using
// fixed published thresholds. This path never touches the model registry.
package scc

// Threshold constants (thousand cells per ml). Bands are half-open with
// inclusive lower boundaries: scc <= 100 is normal, 100 < scc <= 300 is
// caution, scc > 300 is inflammation suspected.
const (
	NormalMax  = 100.0
	CautionMax = 300.0
)

// RuleConfidence is the fixed confidence reported for rule-based
// classifications. The thresholds are a deterministic published criterion,
// not a learned estimate, so the reported confidence is constant and higher
// than the model paths' typical scores.
const RuleConfidence = 95.0

// Severity classes
const (
	ClassNormal       = 0
	ClassCaution      = 1
	ClassInflammation = 2
)

// Severity is the result of a threshold classification.
type Severity struct {
	Class       int    `json:"class"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Classify maps a somatic cell count to a severity band. The input must be
// non-negative; callers validate before classification.
func Classify(scc float64) Severity {
	switch {
	case scc <= NormalMax:
		return Severity{
			Class:       ClassNormal,
			Label:       "normal",
			Description: "Somatic cell count is within the normal range. The cow appears healthy.",
		}
	case scc <= CautionMax:
		return Severity{
			Class:       ClassCaution,
			Label:       "caution",
			Description: "Somatic cell count is slightly elevated. Close observation is recommended.",
		}
	default:
		return Severity{
			Class:       ClassInflammation,
			Label:       "inflammation suspected",
			Description: "Somatic cell count is high; mastitis is suspected.",
		}
	}
}

// CriteriaBand documents one classification band for the info endpoint.
type CriteriaBand struct {
	Range       string `json:"range"`
	Class       int    `json:"class"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Action      string `json:"action"`
}

// Info is the static classification-criteria document.
type Info struct {
	ClassificationMethod string                  `json:"classification_method"`
	Unit                 string                  `json:"unit"`
	Criteria             map[string]CriteriaBand `json:"criteria"`
	Notes                []string                `json:"notes"`
}

// Criteria returns the static classification-criteria document served by the
// API.
func Criteria() Info {
	return Info{
		ClassificationMethod: "somatic_cell_count",
		Unit:                 "cells/ml (thousands)",
		Criteria: map[string]CriteriaBand{
			"normal": {
				Range:       "<= 100",
				Class:       ClassNormal,
				Description: "Somatic cell count in the healthy range",
				Color:       "green",
				Action:      "Continue routine monitoring",
			},
			"caution": {
				Range:       "101-300",
				Class:       ClassCaution,
				Description: "Slightly elevated somatic cell count, attention needed",
				Color:       "yellow",
				Action:      "Tighten hygiene management and monitoring",
			},
			"inflammation_suspected": {
				Range:       "> 300",
				Class:       ClassInflammation,
				Description: "High somatic cell count, mastitis suspected",
				Color:       "red",
				Action:      "Veterinary examination required immediately",
			},
		},
		Notes: []string{
			"Somatic cell count is the number of somatic cells per ml of milk",
			"Higher counts indicate a higher likelihood of mastitis",
			"These thresholds are a general guideline; a veterinary diagnosis is authoritative",
			"Judge each animal in context, accounting for individual and environmental variation",
		},
	}
}

// CriteriaEcho is the compact criteria echo attached to SCC prediction
// results.
func CriteriaEcho() map[string]string {
	return map[string]string{
		"normal":                 "<= 100 cells/ml",
		"caution":                "101-300 cells/ml",
		"inflammation_suspected": "> 300 cells/ml",
	}
}

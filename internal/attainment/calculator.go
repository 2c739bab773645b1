// Package attainment implements the weighted CO attainment math: the 60/40
// CIA/Assessment split, the pass threshold, the 0-3 level mapping and the
// class-level aggregates.
package attainment

import (
	"math"
	"sort"

	"co-attain/internal/model"
)

// Fixed business rules. The thresholds use strict greater-than at every
// boundary: 65 exactly fails, 70 exactly is level 2.
const (
	CIAWeight        = 60.0
	AssessmentWeight = 40.0
	PassThreshold    = 65.0

	level1Threshold = 60.0
	level2Threshold = 65.0
	level3Threshold = 70.0
)

// RoundHalfUp rounds to the nearest integer with halves going up, matching
// the ROUND() formulas written into the generated workbook.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Level maps a percentage to an attainment level 0-3.
func Level(percent float64) int {
	switch {
	case percent > level3Threshold:
		return 3
	case percent > level2Threshold:
		return 2
	case percent > level1Threshold:
		return 1
	default:
		return 0
	}
}

// Part is one side's weighted contribution: (mark/max)*weight, or 0 when the
// ceiling is missing so a zero max can never divide.
func Part(mark, max, weight float64) float64 {
	if max <= 0 {
		return 0
	}
	return mark / max * weight
}

// MergeMaxMarks combines the per-sheet ceilings into the unified map. A CO
// detected on only one sheet contributes 0 for the missing side.
func MergeMaxMarks(cia, assessment map[int]float64) map[int]model.MaxMark {
	merged := make(map[int]model.MaxMark)
	for id, v := range cia {
		m := merged[id]
		m.CIA = v
		merged[id] = m
	}
	for id, v := range assessment {
		m := merged[id]
		m.Assessment = v
		merged[id] = m
	}
	return merged
}

// COIDs returns the detected CO ids in ascending order.
func COIDs(maxMarks map[int]model.MaxMark) []int {
	ids := make([]int, 0, len(maxMarks))
	for id := range maxMarks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Calculate joins the two rosters by roll number and scores every CO for
// every CIA student. The CIA sheet is the roster authority: Assessment rows
// without a CIA counterpart are dropped, and a missing Assessment row scores
// as all zeros for that student.
//
// This function never fails; the caller has already enforced the CO1 gate.
func Calculate(ciaStudents, assessmentStudents []model.Student, maxMarks map[int]model.MaxMark) []model.JoinedStudent {
	byRoll := make(map[string]model.Student, len(assessmentStudents))
	for _, s := range assessmentStudents {
		byRoll[s.RollNo] = s
	}

	joined := make([]model.JoinedStudent, 0, len(ciaStudents))
	for _, cia := range ciaStudents {
		ass := byRoll[cia.RollNo] // zero value gives empty marks

		js := model.JoinedStudent{
			RollNo:          cia.RollNo,
			Name:            cia.Name,
			CIAMarks:        cia.Marks,
			AssessmentMarks: ass.Marks,
			Results:         make(map[int]model.COResult, len(maxMarks)),
		}

		for id, max := range maxMarks {
			ciaPart := Part(cia.Mark(id), max.CIA, CIAWeight)
			assPart := Part(ass.Mark(id), max.Assessment, AssessmentWeight)
			raw := ciaPart + assPart

			final := RoundHalfUp(raw)
			js.Results[id] = model.COResult{
				Raw:          math.Round(raw*100) / 100,
				FinalPercent: final,
				Passed:       float64(final) > PassThreshold,
			}
		}

		joined = append(joined, js)
	}

	return joined
}

// AggregateClass counts students per attainment level for each CO, driven by
// the reported FinalPercent values.
func AggregateClass(students []model.JoinedStudent, coIDs []int) model.ClassAttainment {
	agg := make(model.ClassAttainment, len(coIDs))
	for _, id := range coIDs {
		counts := model.LevelCounts{}
		for _, s := range students {
			counts.Add(Level(float64(s.Results[id].FinalPercent)))
		}
		agg[id] = counts
	}
	return agg
}

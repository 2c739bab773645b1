package attainment

import (
	"math"

	"co-attain/internal/model"
)

// Direct/indirect blend and external-level fallbacks. The exit-survey level
// stays a decimal; the end-semester level is an integer.
const (
	DirectWeight   = 0.8
	IndirectWeight = 0.2

	DefaultSemesterLevel = 3.0
	DefaultExitLevel     = 2.0
)

// MatrixStats derives the per-CO attainment matrix. For each CO:
//
//   - CIA and Assessment levels come from the share of students whose
//     single-side percentage clears the pass threshold.
//   - The end-semester and exit-survey levels are externally supplied, in CO
//     column order, with fixed fallbacks when a sheet or value is missing.
//   - Direct = rounded average of the three direct sub-levels.
//   - Overall = direct*0.8 + exit*0.2, kept as a decimal.
func MatrixStats(students []model.JoinedStudent, coIDs []int, maxMarks map[int]model.MaxMark,
	semester, exit []model.ExternalLevel) []model.MatrixStat {

	total := len(students)
	if total == 0 {
		total = 1
	}

	stats := make([]model.MatrixStat, 0, len(coIDs))
	for idx, id := range coIDs {
		max := maxMarks[id]

		ciaLvl := sideLevel(students, total, func(s model.JoinedStudent) float64 {
			return sidePercent(s.CIAMarks[id], max.CIA)
		})
		assLvl := sideLevel(students, total, func(s model.JoinedStudent) float64 {
			return sidePercent(s.AssessmentMarks[id], max.Assessment)
		})

		semLvl := RoundHalfUp(externalValue(semester, idx, DefaultSemesterLevel))
		exitLvl := externalValue(exit, idx, DefaultExitLevel)

		directLvl := RoundHalfUp(float64(ciaLvl+assLvl+semLvl) / 3)
		overall := float64(directLvl)*DirectWeight + exitLvl*IndirectWeight

		stats = append(stats, model.MatrixStat{
			COID:            id,
			CIALevel:        ciaLvl,
			AssessmentLevel: assLvl,
			SemesterLevel:   semLvl,
			ExitLevel:       exitLvl,
			DirectLevel:     directLvl,
			OverallLevel:    overall,
		})
	}

	return stats
}

// OverallAverage is the course-level mean of the blended per-CO levels.
func OverallAverage(stats []model.MatrixStat) float64 {
	if len(stats) == 0 {
		return 0
	}
	var sum float64
	for _, s := range stats {
		sum += s.OverallLevel
	}
	return sum / float64(len(stats))
}

// sidePercent is the single-side percentage, rounded like the workbook's
// ROUND(mark/max*100, 0) column. A missing ceiling yields 0.
func sidePercent(mark, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return float64(RoundHalfUp(mark / max * 100))
}

func sideLevel(students []model.JoinedStudent, total int, percent func(model.JoinedStudent) float64) int {
	above := 0
	for _, s := range students {
		if percent(s) > PassThreshold {
			above++
		}
	}
	share := math.Floor(float64(above)/float64(total)*100 + 0.5)
	return Level(share)
}

func externalValue(levels []model.ExternalLevel, idx int, fallback float64) float64 {
	if idx < 0 || idx >= len(levels) {
		return fallback
	}
	v := levels[idx].Value
	if v == 0 {
		return fallback
	}
	return v
}

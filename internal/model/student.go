package model

// COMinID and COMaxID bound the course-outcome ids the extractor recognises.
// The institutional template never defines more than five outcomes.
const (
	COMinID = 1
	COMaxID = 5
)

// Student is one extracted roster row from a single sheet (CIA or Assessment).
// Identity key is RollNo; when the roll cell is blank the extractor substitutes
// a synthetic "S<row>" key so the row is still joinable without colliding with
// a real register number.
type Student struct {
	RollNo string
	Name   string
	Marks  map[int]float64 // CO id -> raw mark
}

// Mark returns the raw mark for a CO, zero when absent.
func (s Student) Mark(co int) float64 {
	return s.Marks[co]
}

// SheetData is the result of extracting one sheet: the roster plus the
// red-flagged maximum mark discovered for each CO column.
type SheetData struct {
	Students []Student
	MaxMarks map[int]float64 // CO id -> max mark (0 when no red cell was found)
}

// MaxMark pairs the CIA-side and Assessment-side ceilings for one CO.
// A CO detected on only one sheet carries 0 for the missing side.
type MaxMark struct {
	CIA        float64
	Assessment float64
}

// COResult is the derived outcome for one student on one CO.
type COResult struct {
	// Raw keeps two-decimal precision for intermediate use; FinalPercent is
	// the reported value (round half-up to the nearest integer).
	Raw          float64
	FinalPercent int
	Passed       bool // strictly greater than the 65 threshold
}

// JoinedStudent is a CIA roster entry merged with its Assessment counterpart.
// The CIA sheet is authoritative: Assessment-only students are dropped, and a
// CIA student with no Assessment row keeps zero Assessment marks.
type JoinedStudent struct {
	RollNo          string
	Name            string
	CIAMarks        map[int]float64
	AssessmentMarks map[int]float64
	Results         map[int]COResult
}

// LevelCounts tallies students per attainment level 0-3.
type LevelCounts struct {
	Level0 int `json:"level0"`
	Level1 int `json:"level1"`
	Level2 int `json:"level2"`
	Level3 int `json:"level3"`
}

// Add increments the bucket for the given level.
func (lc *LevelCounts) Add(level int) {
	switch level {
	case 3:
		lc.Level3++
	case 2:
		lc.Level2++
	case 1:
		lc.Level1++
	default:
		lc.Level0++
	}
}

// ClassAttainment maps each CO id to its level distribution across the class,
// derived from the per-student FinalPercent values.
type ClassAttainment map[int]LevelCounts

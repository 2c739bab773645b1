package model

// CourseMeta holds the course identity read from fixed cells on the CIA sheet,
// falling back to placeholders when the cells are blank or unreadable.
type CourseMeta struct {
	CourseCode string
	CourseName string
}

// ExternalLevel is one red-flagged attainment value found on an optional
// exit-survey or end-semester sheet, in CO column order.
type ExternalLevel struct {
	Value float64
	Cell  string // cell address, kept for diagnostics
	Sheet string
	Row   int
}

// MatrixStat is the per-CO attainment matrix row set: the three direct-method
// sub-levels, the indirect exit-survey level, their rounded direct average and
// the 80/20 blended overall level (kept as a decimal).
type MatrixStat struct {
	COID            int
	CIALevel        int
	AssessmentLevel int
	SemesterLevel   int
	ExitLevel       float64
	DirectLevel     int
	OverallLevel    float64
}

// ReportData is the full contract handed to the report emitters. It is built
// once per request by the pipeline and never mutated afterwards.
type ReportData struct {
	Students []JoinedStudent
	Meta     CourseMeta

	// COIDs is the sorted list of detected CO ids; MaxMarks and Matrix are
	// keyed/ordered against it.
	COIDs    []int
	MaxMarks map[int]MaxMark

	ClassAttainment ClassAttainment

	ExitLevels     []ExternalLevel
	SemesterLevels []ExternalLevel
	Matrix         []MatrixStat

	// OverallAttainment is the course-level mean of the per-CO blended levels.
	OverallAttainment float64
}

// Preview is the trimmed extraction view returned by the preview operation:
// a handful of roster rows per sheet plus the discovered max marks, produced
// without generating any report artifact.
type Preview struct {
	CIA        SheetPreview `json:"ciaData"`
	Assessment SheetPreview `json:"assessmentData"`
}

// SheetPreview summarises one extracted sheet.
type SheetPreview struct {
	Students      []Student       `json:"students"`
	TotalStudents int             `json:"totalStudents"`
	COMaxMarks    map[int]float64 `json:"coMaxMarks"`
}

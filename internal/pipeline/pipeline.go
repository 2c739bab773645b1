// Package pipeline orchestrates a single upload end to end: open the
// workbook, extract both mark sheets, enforce the roster and CO1 gates, join
// the rosters and assemble the full report payload.
package pipeline

import (
	"co-attain/internal/apperror"
	"co-attain/internal/attainment"
	"co-attain/internal/extractor"
	"co-attain/internal/logger"
	"co-attain/internal/model"
)

// previewRowLimit caps the roster rows returned by Preview.
const previewRowLimit = 3

// Process runs the full chain over an uploaded .xlsx buffer and returns the
// assembled report payload. Every result is derived from the buffer alone, so
// concurrent calls never interfere.
func Process(data []byte) (*model.ReportData, error) {
	wb, cia, assessment, err := extract(data)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	if len(cia.Students) == 0 {
		return nil, apperror.New(apperror.StatusUnprocessable, "No student data found in CIA sheet")
	}
	if len(assessment.Students) == 0 {
		return nil, apperror.New(apperror.StatusUnprocessable, "No student data found in Assessment sheet")
	}

	maxMarks := attainment.MergeMaxMarks(cia.MaxMarks, assessment.MaxMarks)
	if m := maxMarks[model.COMinID]; m.CIA <= 0 && m.Assessment <= 0 {
		return nil, apperror.New(apperror.StatusUnprocessable,
			"Red max marks missing for CO1 in CIA or Assessment sheet")
	}

	coIDs := attainment.COIDs(maxMarks)
	students := attainment.Calculate(cia.Students, assessment.Students, maxMarks)

	semester := extractor.ExtractAttainmentLevels(wb.Semester)
	exit := extractor.ExtractAttainmentLevels(wb.Exit)
	matrix := attainment.MatrixStats(students, coIDs, maxMarks, semester, exit)

	logger.Info("processed %d students across %d COs", len(students), len(coIDs))

	return &model.ReportData{
		Students:          students,
		Meta:              wb.CourseMeta(),
		COIDs:             coIDs,
		MaxMarks:          maxMarks,
		ClassAttainment:   attainment.AggregateClass(students, coIDs),
		ExitLevels:        exit,
		SemesterLevels:    semester,
		Matrix:            matrix,
		OverallAttainment: attainment.OverallAverage(matrix),
	}, nil
}

// Preview extracts both sheets and returns a truncated roster view without
// running the attainment math or emitting any artifact. The roster and CO1
// gates are deliberately not applied here so a malformed upload can still be
// inspected.
func Preview(data []byte) (*model.Preview, error) {
	wb, cia, assessment, err := extract(data)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	return &model.Preview{
		CIA:        previewOf(cia),
		Assessment: previewOf(assessment),
	}, nil
}

func extract(data []byte) (*extractor.Workbook, model.SheetData, model.SheetData, error) {
	wb, err := extractor.OpenWorkbook(data)
	if err != nil {
		return nil, model.SheetData{}, model.SheetData{}, err
	}

	cia, err := extractor.ExtractSheet(wb.CIA, extractor.KindCIA)
	if err != nil {
		wb.Close()
		return nil, model.SheetData{}, model.SheetData{}, err
	}

	assessment, err := extractor.ExtractSheet(wb.Assessment, extractor.KindAssessment)
	if err != nil {
		wb.Close()
		return nil, model.SheetData{}, model.SheetData{}, err
	}

	return wb, cia, assessment, nil
}

func previewOf(sd model.SheetData) model.SheetPreview {
	rows := sd.Students
	if len(rows) > previewRowLimit {
		rows = rows[:previewRowLimit]
	}
	return model.SheetPreview{
		Students:      rows,
		TotalStudents: len(sd.Students),
		COMaxMarks:    sd.MaxMarks,
	}
}

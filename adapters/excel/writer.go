// Package excel exports run summaries as .xlsx workbooks: one sheet for the
// run record, one for the ranked hypotheses, and one for per-generation
// telemetry when the evolutionary engine produced any.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"goconcept/app"
)

const (
	sheetRun        = "Run"
	sheetHypotheses = "Hypotheses"
	sheetGens       = "Generations"
)

// WriteSummary writes the workbook to path
func WriteSummary(s *app.RunSummary, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeRunSheet(f, s); err != nil {
		return err
	}
	if err := writeHypothesesSheet(f, s); err != nil {
		return err
	}
	if len(s.Stats.GenerationStats) > 0 {
		if err := writeGenerationsSheet(f, s); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeRunSheet(f *excelize.File, s *app.RunSummary) error {
	if err := f.SetSheetName("Sheet1", sheetRun); err != nil {
		return err
	}
	rows := [][]any{
		{"Run ID", s.Record.ID.String()},
		{"Strategy", s.Record.Strategy},
		{"Metric", s.Record.Metric},
		{"Outcome", s.Record.Outcome},
		{"Fingerprint", s.Record.Fingerprint.String()},
		{"Tested concepts", s.Record.TestedConcepts},
		{"Runtime (ms)", s.Record.RuntimeMs},
		{"Started", s.Record.StartedAt.String()},
		{"Finished", s.Record.FinishedAt.String()},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetRun, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeHypothesesSheet(f *excelize.File, s *app.RunSummary) error {
	if _, err := f.NewSheet(sheetHypotheses); err != nil {
		return err
	}
	header := []any{"Rank", "Concept", "Quality", "Length", "TP", "FP", "FN", "Retrieved"}
	if err := f.SetSheetRow(sheetHypotheses, "A1", &header); err != nil {
		return err
	}
	for i, h := range s.Hypotheses {
		row := []any{h.Rank, h.Rendered, h.Quality, h.Length, h.TruePos, h.FalsePos, h.FalseNeg, h.NumRetrieved}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetHypotheses, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeGenerationsSheet(f *excelize.File, s *app.RunSummary) error {
	if _, err := f.NewSheet(sheetGens); err != nil {
		return err
	}
	header := []any{"Generation", "Best", "Mean", "Median", "StdDev", "Unique"}
	if err := f.SetSheetRow(sheetGens, "A1", &header); err != nil {
		return err
	}
	for i, g := range s.Stats.GenerationStats {
		row := []any{g.Generation, g.BestFitness, g.MeanFitness, g.MedianFitness, g.StdDevFitness, g.UniqueConcepts}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetGens, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

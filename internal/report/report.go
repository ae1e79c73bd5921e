package report

import (
	"context"
	"time"

	"omop-data/internal/cdm"
	"omop-data/internal/validate"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TableSummary is the per-table rollup of one conformance run.
type TableSummary struct {
	Table       string `json:"table"`
	RowsChecked int    `json:"rows_checked"`
	Findings    int    `json:"findings"`
}

// Report is the outcome of one advisory conformance run over a CDM database.
type Report struct {
	RunID      string             `json:"run_id"`
	Database   string             `json:"database"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Summaries  []TableSummary     `json:"summaries"`
	Findings   []validate.Finding `json:"findings"`
}

// TotalFindings sums findings across tables.
func (r *Report) TotalFindings() int {
	return len(r.Findings)
}

// Run checks every given table and assembles a report. A failing table stops
// the run; individual nonconforming or unresolvable concepts never do.
// limit bounds the rows examined per table, <= 0 meaning all.
func Run(ctx context.Context, checker *validate.Checker, database string, tables []cdm.Table, limit int, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rep := &Report{
		RunID:     uuid.NewString(),
		Database:  database,
		StartedAt: time.Now().UTC(),
	}

	for _, t := range tables {
		if len(t.ExpectedDomains) == 0 {
			continue
		}
		findings, checked, err := checker.CheckTable(ctx, t, limit)
		if err != nil {
			return nil, err
		}
		rep.Summaries = append(rep.Summaries, TableSummary{
			Table:       t.Name,
			RowsChecked: checked,
			Findings:    len(findings),
		})
		rep.Findings = append(rep.Findings, findings...)
	}

	rep.FinishedAt = time.Now().UTC()
	logger.Info("conformance run finished",
		zap.String("run_id", rep.RunID),
		zap.Int("tables", len(rep.Summaries)),
		zap.Int("findings", rep.TotalFindings()),
	)
	return rep, nil
}

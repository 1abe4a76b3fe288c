package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/mroshb/booking_api/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const StatementSheet = "Statement"

var statementHeader = []interface{}{"Date", "Type", "Amount", "Description", "Transaction ID"}

type ExportService struct {
	points *PointsService
}

func NewExportService(points *PointsService) *ExportService {
	return &ExportService{points: points}
}

// ExportStatement renders the user's balance and ledger, newest first, as an XLSX workbook.
func (s *ExportService) ExportStatement(ctx context.Context, userID string) (*bytes.Buffer, error) {
	summary, err := s.points.GetUserPoints(ctx, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StatementSheet); err != nil {
		return nil, exportError(err)
	}

	if err := f.SetSheetRow(StatementSheet, "A1", &[]interface{}{"Balance", summary.Balance}); err != nil {
		return nil, exportError(err)
	}
	if err := f.SetSheetRow(StatementSheet, "A2", &statementHeader); err != nil {
		return nil, exportError(err)
	}

	for i, t := range summary.Transactions {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return nil, exportError(err)
		}
		row := []interface{}{
			t.CreatedAt.UTC().Format(time.RFC3339),
			t.Type,
			t.Amount,
			t.Description,
			t.ID,
		}
		if err := f.SetSheetRow(StatementSheet, cell, &row); err != nil {
			return nil, exportError(err)
		}
	}

	if err := f.SetColWidth(StatementSheet, "A", "A", 22); err != nil {
		return nil, exportError(err)
	}
	if err := f.SetColWidth(StatementSheet, "D", "E", 40); err != nil {
		return nil, exportError(err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, exportError(err)
	}
	return buf, nil
}

// StatementFilename is the attachment name used for a user's export.
func StatementFilename(userID string, now time.Time) string {
	return fmt.Sprintf("points-statement-%s-%s.xlsx", userID, now.UTC().Format("20060102"))
}

func exportError(err error) error {
	return errors.Wrap(err, errors.ErrCodeInternalError, "failed to build statement")
}

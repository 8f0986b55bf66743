package reports

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/inei-oti/activos-backend/internal/domain/assets"
)

// RowSource supplies the safe asset projection. The projection itself decides
// what is exportable; this package never sees secret values.
type RowSource interface {
	SafeRows(ctx context.Context) ([]assets.SafeRow, error)
}

type Service struct{ source RowSource }

func NewService(source RowSource) *Service { return &Service{source: source} }

const sheetName = "Assets"

var headers = []string{
	"ID", "Category", "Location", "Status", "Responsible", "Current Assigned",
	"Internal Tag", "Control Patrimonial", "Serial", "Ownership", "Provider",
	"Has Padlock Key", "Has License",
}

// AssetWorkbook renders the asset inventory report as an XLSX workbook.
func (s *Service) AssetWorkbook(ctx context.Context) (*excelize.File, error) {
	rows, err := s.source.SafeRows(ctx)
	if err != nil {
		return nil, err
	}
	return BuildAssetWorkbook(rows)
}

// BuildAssetWorkbook writes the safe rows into a fresh workbook. Secret fields
// appear only as Yes/No presence flags.
func BuildAssetWorkbook(rows []assets.SafeRow) (*excelize.File, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for i, r := range rows {
		values := []any{
			r.ID, r.Category, r.Location, r.Status, r.Responsible, r.CurrentAssigned,
			r.AssetTagInternal, r.ControlPatrimonial, r.Serial, r.OwnershipType, r.ProviderName,
			yesNo(r.HasPadlockKey), yesNo(r.HasLicense),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}
	return f, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

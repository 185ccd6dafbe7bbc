package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Sarwan-Projects/SlotSwapper/internal/model"
	"github.com/Sarwan-Projects/SlotSwapper/internal/repository"
)

const (
	sheetSlots     = "Slots"
	sheetExchanges = "Exchanges"
	exportTimeFmt  = "2006-01-02 15:04"
)

// ExportService spreadsheet export of a user's slots and exchange history.
// The workbook is returned as a buffer; the handler sets the download headers.
type ExportService interface {
	ExportExchanges(ctx context.Context, userID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportExchanges
// ═══════════════════════════════════════════════════════════
//
// Sheet "Slots":     Title | Start | End | Status
// Sheet "Exchanges": Created | Status | Proposer | Offered slot | Recipient | Requested slot | Responded

func (s *exportService) ExportExchanges(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	// 1. load both data sets
	var (
		slots     []model.Slot
		proposals []model.ExchangeProposal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		slots, err = s.repo.Slot.ListByOwner(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		proposals, err = s.repo.Exchange.ListByParticipant(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("load export data failed", zap.Error(err))
		return nil, "", err
	}

	// 2. build workbook
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	if err := f.SetSheetName("Sheet1", sheetSlots); err != nil {
		s.logger.Error("rename sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	writeHeader(f, sheetSlots, headerStyle, []string{"Title", "Start", "End", "Status"}, []float64{30, 18, 18, 12})
	for i, sl := range slots {
		row := i + 2
		f.SetCellValue(sheetSlots, cell("A", row), sl.Title)
		f.SetCellValue(sheetSlots, cell("B", row), sl.StartTime.Format(exportTimeFmt))
		f.SetCellValue(sheetSlots, cell("C", row), sl.EndTime.Format(exportTimeFmt))
		f.SetCellValue(sheetSlots, cell("D", row), string(sl.Status))
	}

	if _, err := f.NewSheet(sheetExchanges); err != nil {
		s.logger.Error("create sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	writeHeader(f, sheetExchanges, headerStyle,
		[]string{"Created", "Status", "Proposer", "Offered slot", "Recipient", "Requested slot", "Responded"},
		[]float64{18, 12, 20, 30, 20, 30, 18})
	for i, p := range proposals {
		row := i + 2
		f.SetCellValue(sheetExchanges, cell("A", row), p.CreatedAt.Format(exportTimeFmt))
		f.SetCellValue(sheetExchanges, cell("B", row), string(p.Status))
		f.SetCellValue(sheetExchanges, cell("C", row), displayName(p.Proposer))
		f.SetCellValue(sheetExchanges, cell("D", row), slotLabel(p.ProposerSlot))
		f.SetCellValue(sheetExchanges, cell("E", row), displayName(p.Recipient))
		f.SetCellValue(sheetExchanges, cell("F", row), slotLabel(p.TargetSlot))
		if p.RespondedAt != nil {
			f.SetCellValue(sheetExchanges, cell("G", row), p.RespondedAt.Format(exportTimeFmt))
		}
	}

	// 3. serialize
	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("write workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("slotswapper-%s.xlsx", time.Now().UTC().Format("20060102"))
	return buf, filename, nil
}

// ── helpers ──

func writeHeader(f *excelize.File, sheet string, style int, titles []string, widths []float64) {
	for i, title := range titles {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, cell(col, 1), title)
		f.SetColWidth(sheet, col, col, widths[i])
	}
	last, _ := excelize.ColumnNumberToName(len(titles))
	f.SetCellStyle(sheet, "A1", cell(last, 1), style)
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func slotLabel(s *model.Slot) string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%s (%s)", s.Title, s.StartTime.Format(exportTimeFmt))
}

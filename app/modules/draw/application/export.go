package drawservice

import (
	"context"
	"fmt"

	drawdomain "github.com/Black-And-White-Club/league-night/app/modules/draw/domain"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/xuri/excelize/v2"
)

const (
	pairsSheet   = "Pairs"
	matchesSheet = "Matches"
)

// ExportDraw renders the event's draw as an xlsx workbook with a pairs sheet
// and a matches sheet.
func (s *DrawService) ExportDraw(ctx context.Context, event sharedtypes.EventKey) ([]byte, error) {
	draw, err := s.GetDraw(ctx, event)
	if err != nil {
		return nil, err
	}
	return renderWorkbook(draw)
}

func renderWorkbook(draw *DrawResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", pairsSheet); err != nil {
		return nil, fmt.Errorf("failed to name pairs sheet: %w", err)
	}
	if err := f.SetSheetRow(pairsSheet, "A1", &[]any{"Pair", "Tier", "Player 1", "Player 2"}); err != nil {
		return nil, fmt.Errorf("failed to write pairs header: %w", err)
	}
	byseq := make(map[int]drawdomain.Pair, len(draw.Pairs))
	for i, p := range draw.Pairs {
		byseq[p.Seq] = p
		second := "(wildcard)"
		if p.Player2 != nil {
			second = string(*p.Player2)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(pairsSheet, cell, &[]any{p.Seq, string(p.Tier), string(p.Player1), second}); err != nil {
			return nil, fmt.Errorf("failed to write pair %d: %w", p.Seq, err)
		}
	}

	if _, err := f.NewSheet(matchesSheet); err != nil {
		return nil, fmt.Errorf("failed to create matches sheet: %w", err)
	}
	if err := f.SetSheetRow(matchesSheet, "A1", &[]any{"Match", "Tier", "Pair A", "Pair B", "Pair A players", "Pair B players"}); err != nil {
		return nil, fmt.Errorf("failed to write matches header: %w", err)
	}
	for i, m := range draw.Matches {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{m.Seq, string(m.Tier), m.PairA, m.PairB, pairLabel(byseq[m.PairA]), pairLabel(byseq[m.PairB])}
		if err := f.SetSheetRow(matchesSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write match %d: %w", m.Seq, err)
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("Draw %s %s", draw.Draw.LeagueID, draw.Draw.EventDate),
		Creator: "league-night",
	}); err != nil {
		return nil, fmt.Errorf("failed to set workbook properties: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func pairLabel(p drawdomain.Pair) string {
	if p.Player2 == nil {
		return string(p.Player1)
	}
	return string(p.Player1) + " & " + string(*p.Player2)
}

package scoreservice

import (
	"bytes"
	"context"
	"fmt"
	"time"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	chartBackground = drawing.ColorFromHex("101814")
	chartLine       = drawing.ColorFromHex("2f9e6b")
	chartDot        = drawing.ColorFromHex("d4a72c")
	chartText       = drawing.ColorFromHex("e6ede9")
)

// RenderPointsChart draws a PNG line of the player's cumulative points per
// event in the league.
func (s *ScoreService) RenderPointsChart(ctx context.Context, league sharedtypes.LeagueID, player sharedtypes.PlayerID) ([]byte, error) {
	history, err := s.GetPlayerHistory(ctx, league, player)
	if err != nil {
		return nil, err
	}
	return renderCumulativeChart(string(player), history)
}

func renderCumulativeChart(title string, history []PlayerScore) ([]byte, error) {
	if len(history) == 0 {
		return renderNoDataPlaceholder("No scores yet")
	}

	// A zero baseline one week before the first event keeps the x range
	// non-empty for a single event.
	first := history[0].EventDate.Time()
	xs := []time.Time{first.AddDate(0, 0, -7)}
	ys := []float64{0}
	lo, hi := 0.0, 0.0
	var total float64
	for _, h := range history {
		total += h.TotalPoints
		xs = append(xs, h.EventDate.Time())
		ys = append(ys, total)
		lo, hi = min(lo, total), max(hi, total)
	}
	if hi-lo < 1 {
		hi = lo + 1
	}

	graph := chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{FontColor: chartText},
		Width:      800,
		Height:     400,
		Background: chart.Style{FillColor: chartBackground},
		Canvas:     chart.Style{FillColor: chartBackground},
		XAxis: chart.XAxis{
			Name:           "Event",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
			Style:          chart.Style{FontColor: chartText},
		},
		YAxis: chart.YAxis{
			Name:  "Points",
			Style: chart.Style{FontColor: chartText},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: []chart.Series{chart.TimeSeries{
			Name:    "Cumulative points",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: chartLine,
				StrokeWidth: 2,
				DotWidth:    4,
				DotColor:    chartDot,
			},
		}},
	}

	buf := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("failed to render points chart: %w", err)
	}
	return buf.Bytes(), nil
}

func renderNoDataPlaceholder(msg string) ([]byte, error) {
	graph := chart.Chart{
		Width:      400,
		Height:     200,
		Background: chart.Style{FillColor: chartBackground},
		Canvas:     chart.Style{FillColor: chartBackground},
		XAxis:      chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis:      chart.YAxis{Style: chart.Style{Hidden: true}},
		// Render refuses a chart without a visible series.
		Series: []chart.Series{chart.ContinuousSeries{
			XValues: []float64{0, 1},
			YValues: []float64{0, 1},
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
		}},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(chartText)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				r.Text(msg, (cb.Width()-tb.Width())/2, (cb.Height()+tb.Height())/2)
			},
		},
	}
	buf := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("failed to render placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

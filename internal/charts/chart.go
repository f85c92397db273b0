// Package charts renders portfolio analytics as PNG images.
package charts

import (
	"fmt"

	charts "github.com/vicanso/go-charts/v2"

	"tradefolio/internal/analytics"
)

// RenderCumulativePnL draws a line chart of a cumulative P&L series and
// returns the encoded PNG bytes. The title carries the headline figures so
// the image is self-contained when embedded or shared.
func RenderCumulativePnL(title string, points []analytics.Point, width, height int) ([]byte, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no data points to chart")
	}

	xLabels := make([]string, 0, len(points))
	values := make([]float64, 0, len(points))
	for _, p := range points {
		label := p.Date.Format("Jan 02")
		if len(points) > 60 {
			label = p.Date.Format("Jan '06")
		}
		xLabels = append(xLabels, label)
		values = append(values, p.CumulativeValue)
	}

	// Y-axis range with padding so the line never hugs the frame.
	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	padding := (maxVal - minVal) * 0.05
	if padding == 0 {
		padding = 1
	}
	yMin := minVal - padding
	yMax := maxVal + padding

	splitNum := 6
	if len(xLabels) <= 30 {
		splitNum = len(xLabels) / 3
		if splitNum < 3 {
			splitNum = 3
		}
	}

	final := points[len(points)-1].CumulativeValue
	subtitle := fmt.Sprintf("Cumulative P&L: %s over %d trades",
		analytics.FormatCurrency(final, true), len(points))

	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.WidthOptionFunc(width),
		charts.HeightOptionFunc(height),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

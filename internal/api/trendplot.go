package api

import (
	"fmt"
	"image/color"
	"net/http"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/navadeep914/olampic-dataset/internal/httputil"
	"github.com/navadeep914/olampic-dataset/internal/medals"
	"github.com/navadeep914/olampic-dataset/internal/metrics"
)

// chartTrendPNG renders the country trend as a static PNG through gonum/plot,
// for embedding where the echarts javascript bundle is unwanted.
func (s *Server) chartTrendPNG(w http.ResponseWriter, r *http.Request) {
	table, _, spec, ok := s.chartTable(w, r)
	if !ok {
		return
	}
	series := medals.CountryTrend(table, spec.Countries, chartLimit(r, s.cfg.Charts.TrendCountries))

	p, err := buildTrendPlot(series)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to build plot: %v", err))
		return
	}
	wt, err := p.WriterTo(12*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render plot: %v", err))
		return
	}
	metrics.RecordChartRender("trend-png")
	w.Header().Set("Content-Type", "image/png")
	_, _ = wt.WriteTo(w)
}

// buildTrendPlot draws one line per country, year on the x-axis.
func buildTrendPlot(series []medals.TrendSeries) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Medal Trend by Country"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Medals"

	colors := generateColors(len(series))
	for i, s := range series {
		pts := make(plotter.XYs, 0, len(s.Points))
		for _, pt := range s.Points {
			pts = append(pts, plotter.XY{X: float64(pt.Year), Y: float64(pt.Total)})
		}
		if len(pts) == 0 {
			continue
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.Country, line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}

// generateColors creates a palette of distinct colors for country lines.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

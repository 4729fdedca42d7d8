package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/navadeep914/olampic-dataset/internal/httputil"
	"github.com/navadeep914/olampic-dataset/internal/medals"
	"github.com/navadeep914/olampic-dataset/internal/metrics"
)

// echartsAssetsPrefix points rendered pages at the published echarts bundle.
const echartsAssetsPrefix = "https://go-echarts.github.io/go-echarts-assets/assets/"

// Medal colours shared by the breakdown charts.
const (
	colorGoldMedal   = "#ffd700"
	colorSilverMedal = "#c0c0c0"
	colorBronzeMedal = "#cd7f32"
)

type chartRenderer interface {
	Render(w io.Writer) error
}

// renderChart renders c into the response as a self-contained HTML page.
func (s *Server) renderChart(w http.ResponseWriter, name string, c chartRenderer) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	metrics.RecordChartRender(name)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// chartTable loads the filtered dataset for a chart handler. On failure the
// error response has been written and ok is false.
func (s *Server) chartTable(w http.ResponseWriter, r *http.Request) (table []medals.MedalRecord, version string, spec medals.FilterSpec, ok bool) {
	spec, err := parseFilterSpec(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return nil, "", medals.FilterSpec{}, false
	}
	table, version, err = s.table(r.Context(), spec)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load dataset: %v", err))
		return nil, "", medals.FilterSpec{}, false
	}
	return table, version, spec, true
}

// chartLimit reads a positive limit override from the query string. Bad or
// absent values keep the configured bound; charts are forgiving where the
// JSON API is strict.
func chartLimit(r *http.Request, def int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func barValues(values []int) []opts.BarData {
	data := make([]opts.BarData, 0, len(values))
	for _, v := range values {
		data = append(data, opts.BarData{Value: v})
	}
	return data
}

func proportionValues(values []float64) []opts.BarData {
	data := make([]opts.BarData, 0, len(values))
	for _, v := range values {
		data = append(data, opts.BarData{Value: v})
	}
	return data
}

func pieValues(slices []PieSlice) []opts.PieData {
	data := make([]opts.PieData, 0, len(slices))
	for _, s := range slices {
		data = append(data, opts.PieData{Name: s.Name, Value: s.Value})
	}
	return data
}

func lineValues(values []*int) []opts.LineData {
	data := make([]opts.LineData, 0, len(values))
	for _, v := range values {
		if v == nil {
			data = append(data, opts.LineData{Value: nil})
			continue
		}
		data = append(data, opts.LineData{Value: *v})
	}
	return data
}

func buildTotalsBar(title string, data *BarChartData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("showing %d of %d", len(data.Labels), data.NumRows)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(data.Labels).
		AddSeries("medals", barValues(data.Values),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

func buildBreakdownBar(title string, data *BreakdownChartData, stacked bool) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("showing %d of %d", len(data.Labels), data.NumRows)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	stack := ""
	if stacked {
		stack = "medals"
	}
	bar.SetXAxis(data.Labels).
		AddSeries("gold", barValues(data.Gold),
			charts.WithBarChartOpts(opts.BarChart{Stack: stack}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorGoldMedal}),
		).
		AddSeries("silver", barValues(data.Silver),
			charts.WithBarChartOpts(opts.BarChart{Stack: stack}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorSilverMedal}),
		).
		AddSeries("bronze", barValues(data.Bronze),
			charts.WithBarChartOpts(opts.BarChart{Stack: stack}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorBronzeMedal}),
		)
	return bar
}

func buildProportionBar(title string, data *ProportionChartData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("gold share, %d groups", len(data.Labels))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(data.Labels).
		AddSeries("gold share", proportionValues(data.Proportions))
	return bar
}

func buildPie(title string, data *PieChartData) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "600px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("top %d of %d", len(data.Slices), data.NumRows)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("medals", pieValues(data.Slices),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return pie
}

func buildTrendLine(title string, data *TrendChartData) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d countries over %d games", len(data.Series), len(data.Years))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	years := make([]string, 0, len(data.Years))
	for _, y := range data.Years {
		years = append(years, strconv.Itoa(y))
	}
	line.SetXAxis(years)
	for _, series := range data.Series {
		line.AddSeries(series.Country, lineValues(series.Values))
	}
	return line
}

func (s *Server) chartTopCountries(w http.ResponseWriter, r *http.Request) {
	table, ver, spec, ok := s.chartTable(w, r)
	if !ok {
		return
	}
	data := PrepareBarChartData(s.aggregate(table, ver, spec, medals.GroupCountry),
		chartLimit(r, s.cfg.Charts.TopCountries))
	s.renderChart(w, "top-countries", buildTotalsBar("Top Countries by Medals", data))
}

func (s *Server) chartMedalBreakdown(w http.ResponseWriter, r *http.Request) {
	table, ver, spec, ok := s.chartTable(w, r)
	if !ok {
		return
	}
	data := PrepareBreakdownChartData(s.aggregate(table, ver, spec, medals.GroupCountry),
		chartLimit(r, s.cfg.Charts.Breakdown))
	s.renderChart(w, "medal-breakdown", buildBreakdownBar("Medal Breakdown by Country", data, true))
}

func (s *Server) chartGoldProportion(w http.ResponseWriter, r *http.Request) {
	table, ver, spec, ok := s.chartTable(w, r)
	if !ok {
		return
	}
	base := s.aggregate(table, ver, spec, medals.GroupCountry).Top(chartLimit(r, s.cfg.Charts.GoldProportion))
	data := PrepareProportionChartData(medals.GoldProportion(base))
	s.renderChart(w, "gold-proportion", buildProportionBar("Gold Proportion by Country", data))
}

func (s *Server) chartAthletes(w http.ResponseWriter, r *http.Request) {
	table, _, _, ok := s.chartTable(w, r)
	if !ok {
		return
	}
	rows := medals.TopAthletes(table, chartLimit(r, s.cfg.Charts.Athletes))
	s.renderChart(w, "athletes", buildTotalsBar("Top Athletes", PrepareAthleteChartData(rows)))
}

func (s *Server) chartSports(w http.ResponseWriter, r *http.Request) {
	table, ver, spec, ok := s.chartTable(w, r)
	if !ok {
		return
	}
	data := PreparePieChartData(s.aggregate(table, ver, spec, medals.GroupSport),
		chartLimit(r, s.cfg.Charts.SportsPie))
	s.renderChart(w, "sports", buildPie("Medals by Sport", data))
}

func (s *Server) chartSportsBreakdown(w http.ResponseWriter, r *http.Request) {
	table, ver, spec, ok := s.chartTable(w, r)
	if !ok {
		return
	}
	data := PrepareBreakdownChartData(s.aggregate(table, ver, spec, medals.GroupSport),
		chartLimit(r, s.cfg.Charts.SportsBar))
	s.renderChart(w, "sports-breakdown", buildBreakdownBar("Medal Breakdown by Sport", data, false))
}

// chartYearRankings renders one year's country rankings as a bar plus pie
// page. The year parameter is required.
func (s *Server) chartYearRankings(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		httputil.BadRequest(w, "invalid 'year' parameter")
		return
	}

	spec, err := parseFilterSpec(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	spec.Years = []int{year}

	table, ver, err := s.table(r.Context(), spec)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load dataset: %v", err))
		return
	}

	result := s.aggregate(table, ver, spec, medals.GroupCountry)
	title := fmt.Sprintf("%d Country Rankings", year)
	bar := buildTotalsBar(title, PrepareBarChartData(result, chartLimit(r, s.cfg.Charts.YearBar)))
	pie := buildPie(fmt.Sprintf("%d Medal Share", year), PreparePieChartData(result, s.cfg.Charts.YearPie))

	page := components.NewPage()
	page.SetAssetsHost(echartsAssetsPrefix)
	page.AddCharts(bar, pie)
	s.renderChart(w, "year-rankings", page)
}

func (s *Server) chartTrend(w http.ResponseWriter, r *http.Request) {
	table, _, spec, ok := s.chartTable(w, r)
	if !ok {
		return
	}
	top := chartLimit(r, s.cfg.Charts.TrendCountries)
	data := PrepareTrendChartData(medals.CountryTrend(table, spec.Countries, top))
	s.renderChart(w, "trend", buildTrendLine("Medal Trend by Country", data))
}

// chartDashboard combines the principal charts on one page.
func (s *Server) chartDashboard(w http.ResponseWriter, r *http.Request) {
	table, ver, spec, ok := s.chartTable(w, r)
	if !ok {
		return
	}

	countries := s.aggregate(table, ver, spec, medals.GroupCountry)
	sports := s.aggregate(table, ver, spec, medals.GroupSport)
	trend := medals.CountryTrend(table, spec.Countries, s.cfg.Charts.TrendCountries)

	page := components.NewPage()
	page.SetAssetsHost(echartsAssetsPrefix)
	page.AddCharts(
		buildTotalsBar("Top Countries by Medals", PrepareBarChartData(countries, s.cfg.Charts.TopCountries)),
		buildBreakdownBar("Medal Breakdown by Country", PrepareBreakdownChartData(countries, s.cfg.Charts.Breakdown), true),
		buildPie("Medals by Sport", PreparePieChartData(sports, s.cfg.Charts.SportsPie)),
		buildTrendLine("Medal Trend by Country", PrepareTrendChartData(trend)),
	)
	s.renderChart(w, "dashboard", page)
}

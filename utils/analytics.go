package utils

import (
	"sort"

	"github.com/paulmach/orb"

	"postolog/models"
)

// MetricLabel maps a raw metric column to its presentation label and color.
type MetricLabel struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// DefaultLabels is the fixed display mapping for the schema's metric
// columns. Colors are only carried through for the presentation layer.
var DefaultLabels = map[string]MetricLabel{
	"gasolina":   {Label: "Gasolina", Color: "#636EFA"},
	"etanol":     {Label: "Etanol", Color: "#EF553B"},
	"diesel":     {Label: "Diesel", Color: "#00CC96"},
	"calibragem": {Label: "Calibragem", Color: "#AB63FA"},
}

// MetricPoint is one long-form row: a single (metric, value) pair carrying
// the identifying columns of the observation it came from.
type MetricPoint struct {
	ObservationID uint    `json:"id"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	DataHora      string  `json:"dataHora"`
	Date          string  `json:"date"`
	Field         string  `json:"field"`
	Label         string  `json:"label"`
	Color         string  `json:"color,omitempty"`
	// Unmapped marks a metric column missing from the label map. Such rows
	// keep the raw field name as label and must stay visible so the gap is
	// noticed, not hidden.
	Unmapped bool    `json:"unmapped,omitempty"`
	Value    float64 `json:"value"`
}

// Point returns the row's coordinate as (lon, lat).
func (p MetricPoint) Point() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// Melt explodes each observation into one MetricPoint per recorded metric.
// NULL metrics and non-positive values are dropped here; everything else in
// the pipeline sees only positive recorded values.
func Melt(observations []models.Observation, labels map[string]MetricLabel) []MetricPoint {
	points := make([]MetricPoint, 0, len(observations)*len(models.MetricFields))
	for i := range observations {
		o := &observations[i]
		for _, m := range o.Metrics() {
			if m.Value == nil || *m.Value <= 0 {
				continue
			}
			p := MetricPoint{
				ObservationID: o.ID,
				Latitude:      o.Latitude,
				Longitude:     o.Longitude,
				DataHora:      o.DataHora.String(),
				Date:          o.DataHora.Date(),
				Field:         m.Field,
				Value:         *m.Value,
			}
			if ml, ok := labels[m.Field]; ok {
				p.Label = ml.Label
				p.Color = ml.Color
			} else {
				p.Label = m.Field
				p.Unmapped = true
			}
			points = append(points, p)
		}
	}
	return points
}

// FilterDateRange keeps rows whose date falls within [start, end], both ends
// inclusive. Empty bounds are open. Dates are canonical "YYYY-MM-DD", so
// string comparison is date comparison.
func FilterDateRange(points []MetricPoint, start, end string) []MetricPoint {
	if start == "" && end == "" {
		return points
	}
	out := points[:0:0]
	for _, p := range points {
		if start != "" && p.Date < start {
			continue
		}
		if end != "" && p.Date > end {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FilterRadius keeps rows within radiusKm of ref, inclusive: a row at
// exactly radiusKm is retained.
func FilterRadius(points []MetricPoint, ref orb.Point, radiusKm float64) []MetricPoint {
	out := points[:0:0]
	for _, p := range points {
		if Haversine(ref, p.Point()) <= radiusKm {
			out = append(out, p)
		}
	}
	return out
}

// FilterLabels keeps rows whose display label is in the allow-set. An empty
// set keeps everything.
func FilterLabels(points []MetricPoint, allowed []string) []MetricPoint {
	if len(allowed) == 0 {
		return points
	}
	keep := make(map[string]bool, len(allowed))
	for _, l := range allowed {
		keep[l] = true
	}
	out := points[:0:0]
	for _, p := range points {
		if keep[p.Label] {
			out = append(out, p)
		}
	}
	return out
}

// HasMetricLabel reports whether the observation carries at least one
// positive recorded metric whose display label is in the allow-set. This is
// the row-level counterpart of FilterLabels, for filtering history before
// any melt. An empty set matches everything.
func HasMetricLabel(o *models.Observation, labels map[string]MetricLabel, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	keep := make(map[string]bool, len(allowed))
	for _, l := range allowed {
		keep[l] = true
	}
	for _, m := range o.Metrics() {
		if m.Value == nil || *m.Value <= 0 {
			continue
		}
		label := m.Field
		if ml, ok := labels[m.Field]; ok {
			label = ml.Label
		}
		if keep[label] {
			return true
		}
	}
	return false
}

// ApplyParams runs the optional filters a request supplied, in a fixed
// order. The filters are independent, so the order only matters for speed.
func ApplyParams(points []MetricPoint, params *models.ReportParams) []MetricPoint {
	if params == nil {
		return points
	}
	points = FilterDateRange(points, params.DataInicial, params.DataFinal)
	if params.RaioKm != nil && params.Ref != nil {
		points = FilterRadius(points, *params.Ref, *params.RaioKm)
	}
	return FilterLabels(points, params.Metricas)
}

// LabelAverage is the "current average" view: mean value per display label.
type LabelAverage struct {
	Label string  `json:"label"`
	Color string  `json:"color,omitempty"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// MeanByLabel groups by display label and averages. Output is sorted by
// label for deterministic rendering.
func MeanByLabel(points []MetricPoint) []LabelAverage {
	type acc struct {
		sum   float64
		count int
		color string
	}
	groups := make(map[string]*acc)
	for _, p := range points {
		g, ok := groups[p.Label]
		if !ok {
			g = &acc{color: p.Color}
			groups[p.Label] = g
		}
		g.sum += p.Value
		g.count++
	}

	out := make([]LabelAverage, 0, len(groups))
	for label, g := range groups {
		out = append(out, LabelAverage{
			Label: label,
			Color: g.color,
			Mean:  g.sum / float64(g.count),
			Count: g.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// DailyTotal is the "totals over time" view: summed value per (date, label).
type DailyTotal struct {
	Date  string  `json:"date"`
	Label string  `json:"label"`
	Color string  `json:"color,omitempty"`
	Total float64 `json:"total"`
}

// SumByDateLabel groups by (date, display label) and sums. Output is sorted
// by date then label.
func SumByDateLabel(points []MetricPoint) []DailyTotal {
	type key struct{ date, label string }
	totals := make(map[key]*DailyTotal)
	for _, p := range points {
		k := key{p.Date, p.Label}
		t, ok := totals[k]
		if !ok {
			t = &DailyTotal{Date: p.Date, Label: p.Label, Color: p.Color}
			totals[k] = t
		}
		t.Total += p.Value
	}

	out := make([]DailyTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// ChartData represents data formatted for charts.
type ChartData struct {
	Labels   []string               `json:"labels"`
	Datasets []Dataset              `json:"datasets"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

// Dataset represents a data series.
type Dataset struct {
	Label           string        `json:"label"`
	Data            []interface{} `json:"data"`
	BackgroundColor interface{}   `json:"backgroundColor,omitempty"`
	BorderColor     interface{}   `json:"borderColor,omitempty"`
	Fill            bool          `json:"fill,omitempty"`
}

// AveragesChart shapes MeanByLabel output as a single pie/bar-ready series.
func AveragesChart(averages []LabelAverage) *ChartData {
	chart := &ChartData{Labels: []string{}, Datasets: []Dataset{}}
	data := make([]interface{}, 0, len(averages))
	colors := make([]string, 0, len(averages))
	for _, a := range averages {
		chart.Labels = append(chart.Labels, a.Label)
		data = append(data, a.Mean)
		colors = append(colors, a.Color)
	}
	chart.Datasets = append(chart.Datasets, Dataset{
		Label:           "Média atual",
		Data:            data,
		BackgroundColor: colors,
		BorderColor:     "#ffffff",
	})
	return chart
}

// DailyTotalsChart shapes SumByDateLabel output as one line series per
// label over the union of dates; dates with no value for a label get nil.
func DailyTotalsChart(totals []DailyTotal) *ChartData {
	chart := &ChartData{Labels: []string{}, Datasets: []Dataset{}}

	dateIndex := make(map[string]int)
	for _, t := range totals {
		if _, ok := dateIndex[t.Date]; !ok {
			dateIndex[t.Date] = len(chart.Labels)
			chart.Labels = append(chart.Labels, t.Date)
		}
	}

	series := make(map[string]*Dataset)
	var order []string
	for _, t := range totals {
		ds, ok := series[t.Label]
		if !ok {
			ds = &Dataset{
				Label:           t.Label,
				Data:            make([]interface{}, len(chart.Labels)),
				BorderColor:     t.Color,
				BackgroundColor: t.Color,
			}
			series[t.Label] = ds
			order = append(order, t.Label)
		}
		ds.Data[dateIndex[t.Date]] = t.Total
	}

	sort.Strings(order)
	for _, label := range order {
		chart.Datasets = append(chart.Datasets, *series[label])
	}
	return chart
}

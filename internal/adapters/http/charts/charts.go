// Package charts renders the dashboard's interactive chart pages.
package charts

import (
	"slices"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/okian/cfinsight/internal/domain/insight"
)

// TopicLimit caps the number of tags drawn on the topics radar.
const TopicLimit = 10

// dateLayout labels the activity axis.
const dateLayout = "2006-01-02"

// Config holds presentation settings shared by every chart.
type Config struct {
	Width  string   // Chart width (e.g., "100%")
	Height string   // Chart height (e.g., "420px")
	Theme  string   // Chart theme
	Colors []string // Series palette
}

// DefaultConfig returns the settings used for dashboard iframes.
func DefaultConfig() Config {
	return Config{
		Width:  "100%",
		Height: "420px",
		Theme:  "light",
		Colors: []string{"#440154", "#3B528B", "#21918C", "#5EC962", "#FDE725"},
	}
}

func (c Config) init(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Width:     c.Width,
		Height:    c.Height,
		Theme:     c.Theme,
	})
}

func (c Config) color(i int) string {
	if len(c.Colors) == 0 {
		return ""
	}
	return c.Colors[i%len(c.Colors)]
}

// RatingBar draws accepted rows per problem rating.
func RatingBar(hist []insight.RatingCount, cfg Config) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		cfg.init("Problem Rating Distribution"),
		charts.WithTitleOpts(opts.Title{Title: "Problem Rating Distribution"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Rating"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)

	top := 0
	for _, h := range hist {
		top = max(top, h.Count)
	}
	labels := make([]string, len(hist))
	data := make([]opts.BarData, len(hist))
	for i, h := range hist {
		labels[i] = strconv.Itoa(h.Rating)
		data[i] = opts.BarData{
			Value:     h.Count,
			ItemStyle: &opts.ItemStyle{Color: cfg.color(shade(h.Count, top, len(cfg.Colors)))},
		}
	}
	bar.SetXAxis(labels).AddSeries("Count", data)
	return bar
}

// ActivityScatter draws submissions per day; marker size follows the count.
func ActivityScatter(days []insight.DayCount, cfg Config) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		cfg.init("Daily Grind Heatmap"),
		charts.WithTitleOpts(opts.Title{Title: "Daily Grind Heatmap"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Submissions"}),
	)

	top := 0
	for _, d := range days {
		top = max(top, d.Count)
	}
	labels := make([]string, len(days))
	data := make([]opts.ScatterData, len(days))
	for i, d := range days {
		labels[i] = d.Date.Format(dateLayout)
		data[i] = opts.ScatterData{
			Value:      d.Count,
			SymbolSize: symbolSize(d.Count, top),
		}
	}
	sc.SetXAxis(labels).AddSeries("Submissions", data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: cfg.color(2)}),
	)
	return sc
}

// TopicRadar draws the TopicLimit most frequent tags.
func TopicRadar(tags []insight.TagCount, cfg Config) *charts.Radar {
	tags = tags[:min(len(tags), TopicLimit)]

	indicators := make([]*opts.Indicator, len(tags))
	values := make([]int, len(tags))
	for i, t := range tags {
		indicators[i] = &opts.Indicator{Name: t.Tag}
		values[i] = t.Count
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		cfg.init("Topic Strengths"),
		charts.WithTitleOpts(opts.Title{Title: "Topic Strengths"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator: indicators,
			Shape:     "polygon",
		}),
	)
	radar.AddSeries("Count", []opts.RadarData{{Name: "Count", Value: values}},
		charts.WithItemStyleOpts(opts.ItemStyle{Color: cfg.color(1)}),
	)
	return radar
}

// CompareBar draws both histograms of a comparison as grouped bars over
// the union of their ratings.
func CompareBar(c insight.Comparison, cfg Config) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		cfg.init("Who solves harder problems?"),
		charts.WithTitleOpts(opts.Title{Title: "Who solves harder problems?"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Rating"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)

	ratings, counts := sideCounts(c.Combined)
	labels := make([]string, len(ratings))
	for i, r := range ratings {
		labels[i] = strconv.Itoa(r)
	}
	bar.SetXAxis(labels)
	for i, handle := range []string{c.HandleA, c.HandleB} {
		data := make([]opts.BarData, len(ratings))
		for j, r := range ratings {
			data[j] = opts.BarData{Value: counts[i][r]}
		}
		bar.AddSeries(handle, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: cfg.color(i * 2)}))
	}
	return bar
}

// sideCounts splits combined bars into per-side counts keyed by rating,
// plus the sorted union of ratings. Rows without a known side are skipped.
func sideCounts(rows []insight.HandleRatingCount) ([]int, [2]map[int]int) {
	counts := [2]map[int]int{{}, {}}
	var ratings []int
	for _, row := range rows {
		var i int
		switch row.Side {
		case insight.SideA:
			i = 0
		case insight.SideB:
			i = 1
		default:
			continue
		}
		counts[i][row.Rating] += row.Count
		ratings = append(ratings, row.Rating)
	}
	slices.Sort(ratings)
	return slices.Compact(ratings), counts
}

// shade picks a palette index proportional to v/top.
func shade(v, top, n int) int {
	if top <= 0 || n <= 1 {
		return 0
	}
	return v * (n - 1) / top
}

// symbolSize maps a count to a marker diameter between 6 and 30 pixels.
func symbolSize(v, top int) int {
	const lo, hi = 6, 30
	if top <= 0 {
		return lo
	}
	return lo + v*(hi-lo)/top
}

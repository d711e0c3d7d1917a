package chart

import (
	"bytes"
	"fmt"
	"math"
	"text/template"

	lru "github.com/hashicorp/golang-lru"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"github.com/tidepool-org/vitals/vitals"
)

const (
	SystolicLabel  = "Systolic"
	DiastolicLabel = "Diastolic"
)

var (
	systolicColor  = drawing.ColorFromHex("d9534f")
	diastolicColor = drawing.ColorFromHex("428bca")
)

type svgRenderer struct {
	cfg    Config
	cache  *lru.Cache
	logger *zap.SugaredLogger
}

var _ Renderer = &svgRenderer{}

// NewSVGRenderer returns a renderer that memoizes the documents of recently rendered series
func NewSVGRenderer(cfg Config, logger *zap.SugaredLogger) (Renderer, error) {
	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &svgRenderer{
		cfg:    cfg,
		cache:  cache,
		logger: logger,
	}, nil
}

func (s *svgRenderer) Render(series vitals.Series) (*Instance, error) {
	series = series.Sorted()
	fingerprint := series.Fingerprint()

	if cached, ok := s.cache.Get(fingerprint); ok {
		s.logger.Debugw("using cached chart", "fingerprint", fingerprint)
		return NewInstance(series, cached.([]byte), nil), nil
	}

	var svg []byte
	var err error
	if len(series) == 0 {
		svg, err = s.renderEmpty()
	} else {
		svg, err = s.renderLines(series)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to render chart: %w", err)
	}

	s.cache.Add(fingerprint, svg)
	return NewInstance(series, svg, nil), nil
}

func (s *svgRenderer) renderLines(series vitals.Series) ([]byte, error) {
	// The axis range is taken from the ticks, so unlabelled ticks half a step outside of the
	// samples keep it non empty for a single sample
	last := float64(len(series)) - 0.5
	xValues := make([]float64, len(series))
	ticks := []gochart.Tick{{Value: -0.5}}
	for i, label := range series.Labels() {
		xValues[i] = float64(i)
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: label})
	}
	ticks = append(ticks, gochart.Tick{Value: last})

	graph := gochart.Chart{
		Width:  s.cfg.Width,
		Height: s.cfg.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Ticks: ticks,
			Range: &gochart.ContinuousRange{Min: -0.5, Max: last},
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: s.minY(series), Max: s.maxY(series)},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    SystolicLabel,
				XValues: xValues,
				YValues: series.Systolic(),
				Style:   lineStyle(systolicColor),
			},
			gochart.ContinuousSeries{
				Name:    DiastolicLabel,
				XValues: xValues,
				YValues: series.Diastolic(),
				Style:   lineStyle(diastolicColor),
			},
		},
	}
	graph.Elements = []gochart.Renderable{gochart.LegendThin(&graph)}

	buffer := bytes.NewBuffer(nil)
	if err := graph.Render(gochart.SVG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// The configured range is a suggestion, readings outside of it widen the axis
func (s *svgRenderer) minY(series vitals.Series) float64 {
	low := s.cfg.MinY
	for _, sample := range series {
		low = math.Min(low, math.Min(sample.Systolic, sample.Diastolic))
	}
	return low
}

func (s *svgRenderer) maxY(series vitals.Series) float64 {
	high := s.cfg.MaxY
	for _, sample := range series {
		high = math.Max(high, math.Max(sample.Systolic, sample.Diastolic))
	}
	return high
}

func lineStyle(color drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeColor: color,
		StrokeWidth: 2,
		DotColor:    color,
		DotWidth:    3,
	}
}

var emptyChart = template.Must(template.New("empty").Parse(
	`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">` +
		`<rect width="100%" height="100%" fill="#ffffff"/>` +
		`<text x="{{.X}}" y="20" font-size="12" text-anchor="middle">{{.Systolic}} / {{.Diastolic}}</text>` +
		`<text x="{{.X}}" y="{{.Y}}" font-size="14" fill="#999999" text-anchor="middle">No blood pressure readings</text>` +
		`</svg>`,
))

func (s *svgRenderer) renderEmpty() ([]byte, error) {
	buffer := bytes.NewBuffer(nil)
	err := emptyChart.Execute(buffer, map[string]any{
		"Width":     s.cfg.Width,
		"Height":    s.cfg.Height,
		"X":         s.cfg.Width / 2,
		"Y":         s.cfg.Height / 2,
		"Systolic":  SystolicLabel,
		"Diastolic": DiastolicLabel,
	})
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

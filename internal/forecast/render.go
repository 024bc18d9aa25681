package forecast

import (
	"fmt"
	"html"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-forecast-bot/internal/locale"
	"github.com/i474232898/weather-forecast-bot/internal/weather"
)

// ParseModeHTML enables HTML escaping and emphasis tags in rendered text.
const ParseModeHTML = "HTML"

// precipSlot is how much time one sample is taken to cover.
const precipSlot = 3

// RenderOptions controls presentation details that are not part of the locale.
// PlaceIn fills {place_in}, the place name in the form used after "in"; it
// falls back to Place.
type RenderOptions struct {
	Place     string
	PlaceIn   string
	ParseMode string
}

// Render formats a forecast window as a multi-day message.
func Render(w Window, text *locale.Text, opts RenderOptions) string {
	r := renderer{text: text, opts: opts, esc: func(s string) string { return s }}
	if opts.ParseMode == ParseModeHTML {
		r.esc = html.EscapeString
	}

	var sb strings.Builder
	sb.WriteString(r.fill(text.Header, len(w), Date{}))
	sb.WriteByte('\n')

	for i, b := range w {
		sb.WriteString(r.fill(text.Date, len(w), b.Date))
		sb.WriteByte('\n')
		r.part(&sb, text.Night, b.Night, b.RainNight)
		r.part(&sb, text.Day, b.Day, b.RainDay)
		if i < len(w)-1 {
			sb.WriteByte('\n')
		}
	}

	if len(text.Footer) > 0 {
		sb.WriteByte('\n')
		for i, line := range text.Footer {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(r.fill(line, len(w), Date{}))
		}
	}
	return sb.String()
}

type renderer struct {
	text *locale.Text
	opts RenderOptions
	esc  func(string) string
}

func (r renderer) fill(tmpl string, days int, d Date) string {
	placeIn := r.opts.PlaceIn
	if placeIn == "" {
		placeIn = r.opts.Place
	}
	pairs := []string{
		"{place}", r.opts.Place,
		"{place_in}", placeIn,
		"{days}", strconv.Itoa(days),
	}
	if d != (Date{}) {
		pairs = append(pairs,
			"{day}", strconv.Itoa(d.Day),
			"{month}", r.text.Month(d.Month),
			"{weekday}", r.text.Weekday(d.Weekday()),
		)
	}
	return r.esc(strings.NewReplacer(pairs...).Replace(tmpl))
}

func (r renderer) part(sb *strings.Builder, label string, s *weather.Sample, rain []time.Time) {
	sb.WriteString(r.esc(label))
	sb.WriteString(": ")
	if s == nil {
		sb.WriteString(r.esc(r.text.Placeholder))
	} else {
		sb.WriteString(r.summary(*s))
	}
	sb.WriteByte('\n')

	for _, span := range PrecipWindows(rain) {
		sb.WriteString("   ")
		sb.WriteString(r.esc(r.text.Precipitation))
		sb.WriteString(": ")
		sb.WriteString(span)
		sb.WriteByte('\n')
	}
}

func (r renderer) summary(s weather.Sample) string {
	cond := r.esc(r.text.Condition(s.Condition))
	if r.opts.ParseMode == ParseModeHTML && r.text.Emphasized(s.Condition) {
		cond = "<b>" + cond + "</b>"
	}
	return fmt.Sprintf("%s%s, %s, %s %s %s, %s, %s %d%%",
		FormatTemperature(s.TemperatureC), r.esc(r.text.TemperatureUnit),
		cond,
		r.esc(r.text.Wind), strconv.FormatFloat(s.WindSpeedMS, 'f', -1, 64), r.esc(r.text.WindUnit),
		r.esc(r.text.Direction(CompassPoint(s.WindDeg))),
		r.esc(r.text.Humidity), s.HumidityPct,
	)
}

// FormatTemperature rounds to one decimal, halves away from zero.
func FormatTemperature(c float64) string {
	v := math.Round(c*10) / 10
	if v == 0 {
		v = 0 // drop the sign of negative zero
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// PrecipWindows merges precipitation timestamps into "HH:00–HH:00" spans.
// Runs are formed over consecutive hour-of-day values and each span ends
// one sample slot after the last hour of its run.
func PrecipWindows(ts []time.Time) []string {
	if len(ts) == 0 {
		return nil
	}
	sorted := slices.Clone(ts)
	slices.SortFunc(sorted, func(a, b time.Time) int { return a.Compare(b) })

	hours := make([]int, len(sorted))
	for i, t := range sorted {
		hours[i] = t.Hour()
	}

	runs := GroupRuns(hours)
	spans := make([]string, 0, len(runs))
	for _, run := range runs {
		first, last := run[0], run[len(run)-1]
		spans = append(spans, fmt.Sprintf("%02d:00–%02d:00", first, (last+precipSlot)%24))
	}
	return spans
}

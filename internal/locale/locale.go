// Package locale holds the static lookup tables used to render the forecast
// message: month and weekday names, compass directions, condition labels.
package locale

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed tables/*.yaml
var tables embed.FS

// builtin lists the embedded tables; the first entry is the fallback.
var builtin = []language.Tag{
	language.Ukrainian,
	language.English,
}

var matcher = language.NewMatcher(builtin)

var ErrInvalidTable = errors.New("invalid locale table")

// Text is one locale's set of tables. Templates may reference {place},
// {place_in}, {days}, {day}, {month} and {weekday}.
type Text struct {
	Tag string `yaml:"-"`

	// APILang is passed to the forecast provider so condition descriptions
	// come back in the same language as the Conditions keys.
	APILang string `yaml:"api_lang"`

	Header          string   `yaml:"header"`
	Footer          []string `yaml:"footer"`
	Date            string   `yaml:"date"`
	Night           string   `yaml:"night"`
	Day             string   `yaml:"day"`
	Placeholder     string   `yaml:"placeholder"`
	Precipitation   string   `yaml:"precipitation"`
	Wind            string   `yaml:"wind"`
	WindUnit        string   `yaml:"wind_unit"`
	Humidity        string   `yaml:"humidity"`
	TemperatureUnit string   `yaml:"temperature_unit"`

	Months     []string          `yaml:"months"`
	Weekdays   []string          `yaml:"weekdays"` // Monday first
	Directions []string          `yaml:"directions"`
	Conditions map[string]string `yaml:"conditions"`
	Emphasis   []string          `yaml:"emphasis"`

	PrecipKeywords []string `yaml:"precipitation_keywords"`

	// WMO maps Open-Meteo weather codes to condition descriptions in this
	// locale. Codes missing here keep the provider's English description.
	WMO map[int]string `yaml:"wmo"`
}

// Load returns the built-in table that best matches tag, or the table read
// from path when path is non-empty.
func Load(tag, path string) (*Text, error) {
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read locale file: %w", err)
		}
		return Parse(raw, tag)
	}

	requested, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", tag, err)
	}
	_, idx, _ := matcher.Match(requested)
	base, _ := builtin[idx].Base()

	raw, err := tables.ReadFile("tables/" + base.String() + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("read built-in locale %s: %w", base, err)
	}
	return Parse(raw, base.String())
}

// Parse decodes and validates a YAML locale table.
func Parse(raw []byte, tag string) (*Text, error) {
	var t Text
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode locale table: %w", err)
	}
	t.Tag = tag
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that the fixed-size tables are complete.
func (t *Text) Validate() error {
	switch {
	case len(t.Months) != 12:
		return fmt.Errorf("%w: want 12 months, got %d", ErrInvalidTable, len(t.Months))
	case len(t.Weekdays) != 7:
		return fmt.Errorf("%w: want 7 weekdays, got %d", ErrInvalidTable, len(t.Weekdays))
	case len(t.Directions) != 8:
		return fmt.Errorf("%w: want 8 directions, got %d", ErrInvalidTable, len(t.Directions))
	case t.Header == "":
		return fmt.Errorf("%w: header is empty", ErrInvalidTable)
	}
	return nil
}

// Month returns the month name used in date lines.
func (t *Text) Month(m time.Month) string {
	return t.Months[int(m)-1]
}

// Weekday returns the weekday abbreviation.
func (t *Text) Weekday(d time.Weekday) string {
	return t.Weekdays[(int(d)+6)%7]
}

// Direction returns the name of compass point i (0 = north, clockwise).
func (t *Text) Direction(i int) string {
	return t.Directions[i%8]
}

// Condition returns the localized label for a raw condition code, falling
// back to the code itself.
func (t *Text) Condition(code string) string {
	if label, ok := t.Conditions[code]; ok {
		return label
	}
	return code
}

// Emphasized reports whether code is on the emphasis allow-list.
func (t *Text) Emphasized(code string) bool {
	for _, c := range t.Emphasis {
		if strings.EqualFold(c, code) {
			return true
		}
	}
	return false
}

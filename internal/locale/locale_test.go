package locale

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-forecast-bot/internal/common"
)

func TestLoadBuiltin(t *testing.T) {
	tests := []struct {
		tag     string
		want    string
		apiLang string
	}{
		{"uk", "uk", "ua"},
		{"uk-UA", "uk", "ua"},
		{"en", "en", "en"},
		{"en-GB", "en", "en"},
		{"de", "uk", "ua"}, // unsupported falls back to the first table
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			text, err := Load(tt.tag, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, text.Tag)
			assert.Equal(t, tt.apiLang, text.APILang)
		})
	}
}

func TestLoadInvalidTag(t *testing.T) {
	_, err := Load("!!", "")
	assert.Error(t, err)
}

func TestLookups(t *testing.T) {
	text, err := Load("uk", "")
	require.NoError(t, err)

	assert.Equal(t, "січня", text.Month(time.January))
	assert.Equal(t, "грудня", text.Month(time.December))
	assert.Equal(t, "пн", text.Weekday(time.Monday))
	assert.Equal(t, "нд", text.Weekday(time.Sunday))
	assert.Equal(t, "північ", text.Direction(0))
	assert.Equal(t, "північний захід", text.Direction(7))

	assert.Equal(t, "☀️ Ясно", text.Condition("ясно"))
	assert.Equal(t, "крижаний дощ", text.Condition("крижаний дощ"))

	assert.True(t, text.Emphasized("гроза"))
	assert.False(t, text.Emphasized("ясно"))
}

func TestLoadFromFile(t *testing.T) {
	raw, err := tables.ReadFile("tables/en.yaml")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	text, err := Load("en", path)
	require.NoError(t, err)
	assert.Equal(t, "north", text.Direction(0))
}

func TestParseRejectsIncompleteTables(t *testing.T) {
	_, err := Parse([]byte("header: x\nmonths: [a, b]\n"), "xx")
	assert.ErrorIs(t, err, ErrInvalidTable)
}

func TestUkrainianWMODescriptionsAreLabelled(t *testing.T) {
	text, err := Load("uk", "")
	require.NoError(t, err)
	require.NotEmpty(t, text.WMO)

	for code, desc := range text.WMO {
		assert.NotEqual(t, desc, text.Condition(desc), "code %d has no label", code)
	}
	for _, code := range []int{51, 61, 63, 65, 71, 81, 95} {
		assert.True(t, common.HasAny(text.WMO[code], text.PrecipKeywords...), "code %d", code)
	}
	assert.False(t, common.HasAny(text.WMO[0], text.PrecipKeywords...))
}

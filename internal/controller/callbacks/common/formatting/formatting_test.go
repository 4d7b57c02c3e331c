package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "free", FormatRate(0))
	assert.Equal(t, "$25", FormatRate(2500))
	assert.Equal(t, "$25.05", FormatRate(2505))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "15 min", FormatDuration(15))
	assert.Equal(t, "1 h", FormatDuration(60))
	assert.Equal(t, "1 h 30 min", FormatDuration(90))
}

func TestFormatDateKey(t *testing.T) {
	assert.Equal(t, "Mon 19 Oct", FormatDateKey("2026-10-19", time.UTC))
	assert.Equal(t, "garbage", FormatDateKey("garbage", time.UTC))
}

func TestPluralAndEscape(t *testing.T) {
	assert.Equal(t, "1 slot", Plural(1, "slot", "slots"))
	assert.Equal(t, "4 slots", Plural(4, "slot", "slots"))
	assert.Equal(t, "&lt;b&gt;", Escape("<b>"))
}

func TestGetBookingStatusDisplay(t *testing.T) {
	assert.Equal(t, "✅", GetBookingStatusDisplay(model.BookingStatusConfirmed).Emoji)
	assert.Equal(t, "Unknown", GetBookingStatusDisplay("weird").Text)
}

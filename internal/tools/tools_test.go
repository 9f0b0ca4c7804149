package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "10.13", FormatMoney(10.125, ""))
	assert.Equal(t, "-3.50 GBP", FormatMoney(-3.5, "GBP"))
	assert.Equal(t, "0.00 USD", FormatMoney(0, "USD"))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "-6.25%", FormatPercent(-6.25))
	assert.Equal(t, "+12.00%", FormatPercent(12))
	assert.Equal(t, "0.00%", FormatPercent(0))
	assert.Equal(t, "+0.01%", FormatPercent(0.0149))
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "2", FormatQuantity(2))
	assert.Equal(t, "0.5", FormatQuantity(0.5))
	assert.Equal(t, "1.123457", FormatQuantity(1.1234567))
}

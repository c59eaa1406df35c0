package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want float64
	}{
		{"nil", nil, 0},
		{"float", 1200.5, 1200.5},
		{"int", 500, 500},
		{"plain string", "500", 500},
		{"thousands separator", "1,200.50", 1200.50},
		{"currency punctuation", "KSh 1,200.50", 1200.50},
		{"unparseable", "not a number", 0},
		{"empty string", "", 0},
		{"negative clamps to zero", "-42.10", 0},
		{"negative float clamps to zero", -10.0, 0},
		{"unsupported type", struct{}{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Amount(tt.in))
		})
	}
}

func TestAmountIdempotent(t *testing.T) {
	// Re-normalizing an already normalized amount must not change it.
	for _, v := range []float64{0, 1, 99.99, 1200.5} {
		assert.Equal(t, v, Amount(Amount(v)))
	}
}

func TestDate(t *testing.T) {
	ts := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	t.Run("time value", func(t *testing.T) {
		got, ok := Date(ts)
		assert.True(t, ok)
		assert.Equal(t, ts, got)
	})

	t.Run("seconds object", func(t *testing.T) {
		got, ok := Date(map[string]interface{}{"seconds": float64(ts.Unix())})
		assert.True(t, ok)
		assert.Equal(t, ts.Unix(), got.Unix())
	})

	t.Run("underscore seconds object", func(t *testing.T) {
		got, ok := Date(map[string]interface{}{"_seconds": float64(ts.Unix())})
		assert.True(t, ok)
		assert.Equal(t, ts.Unix(), got.Unix())
	})

	t.Run("epoch seconds number", func(t *testing.T) {
		got, ok := Date(float64(ts.Unix()))
		assert.True(t, ok)
		assert.Equal(t, ts.Unix(), got.Unix())
	})

	t.Run("epoch millis number", func(t *testing.T) {
		got, ok := Date(float64(ts.UnixMilli()))
		assert.True(t, ok)
		assert.Equal(t, ts.UnixMilli(), got.UnixMilli())
	})

	t.Run("rfc3339 string", func(t *testing.T) {
		got, ok := Date("2025-03-10T14:30:00Z")
		assert.True(t, ok)
		assert.Equal(t, ts, got.UTC())
	})

	t.Run("date-only string", func(t *testing.T) {
		got, ok := Date("2025-03-10")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), got.UTC())
	})

	t.Run("garbage", func(t *testing.T) {
		_, ok := Date("soon")
		assert.False(t, ok)
	})

	t.Run("nil", func(t *testing.T) {
		_, ok := Date(nil)
		assert.False(t, ok)
	})
}

func TestLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"creditCard", "Credit Card"},
		{"credit_card", "Credit Card"},
		{"mobile_money", "Mobile Money"},
		{"cash", "Cash"},
		{"mPesa", "M Pesa"},
		{"already spaced", "Already Spaced"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.in), "Label(%q)", tt.in)
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "Jane Doe", Name("Jane Doe", "N/A"))
	assert.Equal(t, "Jane Doe", Name("  Jane Doe  ", "N/A"))
	assert.Equal(t, "Jane Doe", Name(map[string]interface{}{"name": "Jane Doe"}, "N/A"))
	assert.Equal(t, "Jane Doe", Name(map[string]interface{}{"full_name": "Jane Doe"}, "N/A"))
	assert.Equal(t, "N/A", Name("", "N/A"))
	assert.Equal(t, "N/A", Name(nil, "N/A"))
	assert.Equal(t, "Admin", Name(map[string]interface{}{"id": 7}, "Admin"))
}

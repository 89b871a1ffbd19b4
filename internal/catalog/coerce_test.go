package catalog

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceNumber_AbsentValues(t *testing.T) {
	for _, field := range []string{FieldUserRating, FieldReviews, FieldPrice, FieldYear} {
		for name, raw := range map[string]any{
			"nil":          nil,
			"empty string": "",
			"whitespace":   "   ",
		} {
			t.Run(field+"/"+name, func(t *testing.T) {
				got, err := CoerceNumber(field, raw)
				require.NoError(t, err)
				assert.Nil(t, got, "absent input must stay absent, never 0 or NaN")
			})
		}
	}

	t.Run("missing key", func(t *testing.T) {
		raw := RawCandidate{}
		got, err := CoerceNumber(FieldPrice, raw[FieldPrice])
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestCoerceNumber_ParsesStrings(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"4.5", 4.5},
		{" 12.99 ", 12.99},
		{"0", 0},
		{"-3", -3},
		{".5", 0.5},
		{"1965", 1965},
		{"1e3", 1000},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CoerceNumber(FieldPrice, tt.in)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestCoerceNumber_NativeValuesPassThrough(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float64", 4.8, 4.8},
		{"int", 50000, 50000},
		{"int64", int64(1965), 1965},
		{"uint8", uint8(3), 3},
		{"json.Number", json.Number("12.99"), 12.99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceNumber(FieldReviews, tt.in)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestCoerceNumber_Failures(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"letters", "abc"},
		{"trailing garbage", "12abc"},
		{"locale comma", "12,99"},
		{"NaN string", "NaN"},
		{"Inf string", "Inf"},
		{"hex float", "0x1p-2"},
		{"overflow", "1e400"},
		{"native NaN", math.NaN()},
		{"native Inf", math.Inf(1)},
		{"bool", true},
		{"slice", []string{"1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceNumber(FieldPrice, tt.in)
			assert.Nil(t, got)
			require.Error(t, err)

			var ce *CoercionError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, FieldPrice, ce.Field)
			assert.True(t, ce.FieldError().IsCoercion())
		})
	}
}

func TestCoerceText(t *testing.T) {
	t.Run("trims", func(t *testing.T) {
		got, err := CoerceText(FieldName, "  Dune  ")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Dune", *got)
	})

	t.Run("empty is absent", func(t *testing.T) {
		for _, raw := range []any{nil, "", "  \t"} {
			got, err := CoerceText(FieldGenre, raw)
			require.NoError(t, err)
			assert.Nil(t, got)
		}
	})

	t.Run("numbers become text", func(t *testing.T) {
		got, err := CoerceText(FieldName, 1984)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "1984", *got)

		got, err = CoerceText(FieldName, json.Number("1984"))
		require.NoError(t, err)
		assert.Equal(t, "1984", *got)
	})

	t.Run("bool is rejected", func(t *testing.T) {
		_, err := CoerceText(FieldAuthor, false)
		var ce *CoercionError
		require.True(t, errors.As(err, &ce))
		assert.Contains(t, ce.Error(), "author must be text")
	})
}

package importer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"membership-hub/internal/importer"
)

func TestCoerceTimeSerialEpoch(t *testing.T) {
	t.Parallel()

	got, ok := importer.CoerceTime(importer.Number(25569))
	require.True(t, ok)
	assert.Equal(t, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestCoerceTimeSerialModern(t *testing.T) {
	t.Parallel()

	got, ok := importer.CoerceTime(importer.Number(45000))
	require.True(t, ok)
	assert.Equal(t, 2023, got.Year())
}

func TestCoerceTimeSerialFractionalDay(t *testing.T) {
	t.Parallel()

	// 25569.5 = 1970-01-01 中午
	got, ok := importer.CoerceTime(importer.Number(25569.5))
	require.True(t, ok)
	assert.Equal(t, time.Date(1970, 1, 1, 12, 0, 0, 0, time.UTC), got)
}

func TestCoerceTimeNativeDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	got, ok := importer.CoerceTime(importer.Date(want))
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestCoerceTimeStrings(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		ok   bool
		year int
	}{
		{"2023-05-10", true, 2023},
		{"2023-05-10 14:00:00", true, 2023},
		{"10/05/2023", true, 2023},
		{"Jan 2, 2006", true, 2006},
		{"N/A", false, 0},
		{"", false, 0},
		{"next tuesday", false, 0},
	}
	for _, tc := range cases {
		got, ok := importer.CoerceTime(importer.String(tc.in))
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.year, got.Year(), "input %q", tc.in)
		}
	}
}

func TestCoerceTimeUndefinedAndEmpty(t *testing.T) {
	t.Parallel()

	_, ok := importer.CoerceTime(importer.CellValue{})
	assert.False(t, ok)
	_, ok = importer.CoerceTime(importer.Empty())
	assert.False(t, ok)
}

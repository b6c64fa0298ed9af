package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstantUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "rfc3339 with offset",
			input: `"2026-03-14T19:30:00+09:00"`,
			want:  time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 utc",
			input: `"2026-03-14T10:30:00Z"`,
			want:  time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		},
		{
			// Some server serializers drop the zone designator entirely;
			// those values are UTC instants.
			name:  "zone-less treated as utc",
			input: `"2026-03-14T10:30:00"`,
			want:  time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "zone-less with fractional seconds",
			input: `"2026-03-14T10:30:00.123456"`,
			want:  time.Date(2026, 3, 14, 10, 30, 0, 123456000, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Instant
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got.Time, tt.want)
		})
	}
}

func TestInstantUnmarshalJSONEmpty(t *testing.T) {
	for _, input := range []string{`""`, `null`} {
		var got Instant
		require.NoError(t, json.Unmarshal([]byte(input), &got))
		assert.True(t, got.IsZero())
	}
}

func TestInstantUnmarshalJSONInvalid(t *testing.T) {
	var got Instant
	assert.Error(t, json.Unmarshal([]byte(`"not a timestamp"`), &got))
}

func TestInstantRoundTrip(t *testing.T) {
	in := Instant{Time: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Instant
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.Equal(in.Time))
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeRanges(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{
			name: "bare array",
			raw:  `[{"start":"09:00","end":"11:00"}]`,
			want: 1,
		},
		{
			name: "multiple ranges",
			raw:  `[{"start":"09:00","end":"13:00"},{"start":"15:00","end":"17:00"}]`,
			want: 2,
		},
		{
			name: "fenced output",
			raw:  "```json\n[{\"start\":\"09:00\",\"end\":\"11:00\"}]\n```",
			want: 1,
		},
		{
			name: "prose around the array",
			raw:  `Here you go: [{"start":"09:00","end":"11:00"}] hope that helps`,
			want: 1,
		},
		{
			name:    "no array at all",
			raw:     "sorry, I couldn't work that out",
			wantErr: true,
		},
		{
			name:    "empty array",
			raw:     `[]`,
			wantErr: true,
		},
		{
			name:    "hour out of range",
			raw:     `[{"start":"25:00","end":"26:00"}]`,
			wantErr: true,
		},
		{
			name:    "twelve hour clock leaks through",
			raw:     `[{"start":"9am","end":"11am"}]`,
			wantErr: true,
		},
		{
			name:    "ends before it starts",
			raw:     `[{"start":"11:00","end":"09:00"}]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges, err := parseTimeRanges(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, ranges, tt.want)
		})
	}
}

package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entity = map[string]any

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []entity
		wantErr bool
	}{
		{
			name:    "bare array",
			payload: `[{"user":"Ana","score":10},{"user":"Bo","score":5}]`,
			want: []entity{
				{"user": "Ana", "score": float64(10)},
				{"user": "Bo", "score": float64(5)},
			},
		},
		{
			name:    "results envelope",
			payload: `{"results":[{"name":"Team A"}]}`,
			want:    []entity{{"name": "Team A"}},
		},
		{
			name:    "unexpected object shape",
			payload: `{"unexpected":"shape"}`,
			want:    []entity{},
		},
		{
			name:    "results is not an array",
			payload: `{"results":{"name":"Team A"}}`,
			want:    []entity{},
		},
		{
			name:    "null payload",
			payload: `null`,
			want:    []entity{},
		},
		{
			name:    "empty array",
			payload: `  []  `,
			want:    []entity{},
		},
		{
			name:    "malformed json",
			payload: `[{"user":`,
			wantErr: true,
		},
		{
			name:    "html error page",
			payload: `<html>Bad Gateway</html>`,
			wantErr: true,
		},
		{
			name:    "array of scalars",
			payload: `[1,2,3]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeList[entity]([]byte(tt.payload))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

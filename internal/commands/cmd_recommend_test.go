package commands

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/neighborly/internal/core/catalog"
)

func TestRecommendCmd_Limit(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr string
	}{
		{name: "config default", args: nil, want: 3},
		{name: "explicit", args: []string{"--limit", "2"}, want: 2},
		{name: "explicit zero", args: []string{"--limit", "0"}, wantErr: "limit must be between"},
		{name: "above maximum", args: []string{"-n", "1000"}, wantErr: "limit must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := newTestFlags(t)
			args := append([]string{"recommend", "--json", "--strategy", "viewed"}, tt.args...)

			out, err := runApp(t, NewRecommendCmd(flags).Register, args...)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			var resp struct {
				Strategy string            `json:"strategy"`
				Products []catalog.Product `json:"products"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Len(t, resp.Products, tt.want)
		})
	}
}

package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{in: "forYou", want: ForYou},
		{in: "for-you", want: ForYou},
		{in: "FOR_YOU", want: ForYou},
		{in: "foryou", want: ForYou},
		{in: "searches", want: Searches},
		{in: " Viewed ", want: Viewed},
		{in: "similar", want: Similar},
		{in: "", wantErr: true},
		{in: "popular", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrategy_Next(t *testing.T) {
	assert.Equal(t, Searches, ForYou.Next())
	assert.Equal(t, Viewed, Searches.Next())
	assert.Equal(t, Similar, Viewed.Next())
	assert.Equal(t, ForYou, Similar.Next())
	assert.Equal(t, ForYou, Strategy("bogus").Next())
}

func TestStrategy_Label(t *testing.T) {
	for _, st := range Strategies {
		assert.NotEqual(t, string(st), st.Label())
	}
	assert.Equal(t, "bogus", Strategy("bogus").Label())
}

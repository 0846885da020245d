package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog_Push(t *testing.T) {
	log := NewLog(3, func(s string) string { return s })

	tests := []struct {
		name    string
		entries []string
		push    string
		want    []string
	}{
		{name: "into empty", entries: nil, push: "a", want: []string{"a"}},
		{name: "prepends", entries: []string{"a"}, push: "b", want: []string{"b", "a"}},
		{name: "moves duplicate to front", entries: []string{"c", "b", "a"}, push: "a", want: []string{"a", "c", "b"}},
		{name: "evicts oldest", entries: []string{"c", "b", "a"}, push: "d", want: []string{"d", "c", "b"}},
		{name: "trims oversized input", entries: []string{"e", "d", "c", "b", "a"}, push: "f", want: []string{"f", "e", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, log.Push(tt.entries, tt.push))
		})
	}
}

func TestLog_PushDoesNotModifyInput(t *testing.T) {
	log := NewLog(2, func(s string) string { return s })
	in := []string{"b", "a"}

	_ = log.Push(in, "a")

	assert.Equal(t, []string{"b", "a"}, in)
}

func TestNewLog_MinimumCapacity(t *testing.T) {
	log := NewLog(0, func(s string) string { return s })
	assert.Equal(t, 1, log.Max())
	assert.Equal(t, []string{"b"}, log.Push([]string{"a"}, "b"))
}

func TestSearchIdentity(t *testing.T) {
	a := SearchEntry{Query: "Honey", Category: "Food"}
	b := SearchEntry{Query: "hOnEy", Category: "Food"}
	c := SearchEntry{Query: "honey"}
	d := SearchEntry{Query: "honey", Category: "food"}

	assert.Equal(t, searchIdentity(a), searchIdentity(b))
	assert.NotEqual(t, searchIdentity(a), searchIdentity(c))
	assert.NotEqual(t, searchIdentity(a), searchIdentity(d), "category comparison is exact")
}

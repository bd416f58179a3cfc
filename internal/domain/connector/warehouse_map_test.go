package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWarehouseMap(t *testing.T) {
	tests := []struct {
		name    string
		mapping string
		wantLen int
	}{
		{
			name:    "empty string",
			mapping: "",
			wantLen: 0,
		},
		{
			name:    "single pair",
			mapping: "main=WH01",
			wantLen: 1,
		},
		{
			name:    "multiple pairs with blank lines",
			mapping: "main=WH01\n\neast=WH02\nwest=WH03\n",
			wantLen: 3,
		},
		{
			name:    "lines without separator are ignored",
			mapping: "main=WH01\ngarbage\neast=WH02",
			wantLen: 2,
		},
		{
			name:    "whitespace around codes is trimmed",
			mapping: "  main = WH01 \n\teast =\tWH02",
			wantLen: 2,
		},
		{
			name:    "pairs with empty sides are ignored",
			mapping: "=WH01\nmain=\neast=WH02",
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ParseWarehouseMap(tt.mapping)
			assert.Equal(t, tt.wantLen, m.Len())
		})
	}
}

func TestWarehouseMap_RoundTrip(t *testing.T) {
	m := ParseWarehouseMap("main=WH01\neast=WH02\nwest=WH03")

	// Every configured pair must round-trip in both directions
	for _, local := range []string{"main", "east", "west"} {
		remote := m.Remote(local)
		assert.Equal(t, local, m.Local(remote), "local -> remote -> local for %q", local)
	}
	for _, remote := range []string{"WH01", "WH02", "WH03"} {
		local := m.Local(remote)
		assert.Equal(t, remote, m.Remote(local), "remote -> local -> remote for %q", remote)
	}
}

func TestWarehouseMap_UnmappedCodesPassThrough(t *testing.T) {
	m := ParseWarehouseMap("main=WH01")

	assert.Equal(t, "unknown", m.Remote("unknown"))
	assert.Equal(t, "WH99", m.Local("WH99"))
}

func TestWarehouseMap_DuplicateLocalLastWins(t *testing.T) {
	m := ParseWarehouseMap("main=WH01\nmain=WH05")

	assert.Equal(t, "WH05", m.Remote("main"))
	assert.Equal(t, "main", m.Local("WH05"))
	// The stale reverse entry must not survive
	assert.Equal(t, "WH01", m.Local("WH01"))
}

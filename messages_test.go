package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResetTime(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`12`, 12},
		{`12.9`, 12},
		{`"15"`, 15},
		{`" 7"`, 7},
		{`"20 seconds"`, 20},
		{`"-3"`, -3},
		{`"abc"`, 0},
		{`""`, 0},
		{`null`, 0},
		{`true`, 0},
		{`{"seconds":5}`, 0},
		{`1e20`, 0},
		{``, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseResetTime(json.RawMessage(tt.raw)))
		})
	}
}

func TestParseName(t *testing.T) {
	assert.Equal(t, "Alpha", parseName(json.RawMessage(`"Alpha"`)))
	assert.Equal(t, "  spaced  ", parseName(json.RawMessage(`"  spaced  "`)))
	assert.Equal(t, "", parseName(json.RawMessage(`5`)))
	assert.Equal(t, "", parseName(nil))
}

func TestParsePoints(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantTeam   string
		wantPoints int
		wantOK     bool
	}{
		{"number", `{"teamName":"Alpha","points":3}`, "Alpha", 3, true},
		{"numeric string", `{"teamName":"Bravo","points":"4"}`, "Bravo", 4, true},
		{"negative", `{"teamName":"Alpha","points":-2}`, "Alpha", -2, true},
		{"missing points", `{"teamName":"Alpha"}`, "", 0, false},
		{"null points", `{"teamName":"Alpha","points":null}`, "", 0, false},
		{"garbage points", `{"teamName":"Alpha","points":"lots"}`, "", 0, false},
		{"not an object", `"Alpha"`, "", 0, false},
		{"empty", ``, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			team, points, ok := parsePoints(json.RawMessage(tt.raw))

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantTeam, team)
			assert.Equal(t, tt.wantPoints, points)
		})
	}
}

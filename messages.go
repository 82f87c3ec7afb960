/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Frames coming from clients. Payload is decoded per event type.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type pointsPayload struct {
	TeamName string          `json:"teamName"`
	Points   json.RawMessage `json:"points"`
}

// parseName accepts a JSON string. Anything else yields an empty name,
// which the registry turns into the placeholder.
func parseName(raw json.RawMessage) string {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return ""
	}
	return name
}

// parseResetTime accepts a number or a string starting with an integer.
// Unparseable input yields 0, which the session replaces with the default.
func parseResetTime(raw json.RawMessage) int {
	n, ok := parseInteger(raw)
	if !ok {
		return 0
	}
	return n
}

// parsePoints decodes a setPoints payload. ok is false when there is no
// usable integer score.
func parsePoints(raw json.RawMessage) (teamName string, points int, ok bool) {
	var p pointsPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", 0, false
	}

	points, ok = parseInteger(p.Points)
	if !ok {
		return "", 0, false
	}

	return p.TeamName, points, true
}

func parseInteger(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}

	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || math.Abs(t) > math.MaxInt32 {
			return 0, false
		}
		return int(t), true
	case string:
		return leadingInteger(t)
	}

	return 0, false
}

// leadingInteger reads an optionally signed run of digits from the start
// of s, ignoring leading whitespace and whatever follows the digits.
func leadingInteger(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], 10, 32)
	if err != nil {
		return 0, false
	}

	return int(n), true
}

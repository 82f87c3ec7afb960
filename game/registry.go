/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultName          = "Unknown team"
	DefaultMaxNameLength = 50
)

// Participant is a connected, non-moderator client.
type Participant struct {
	ID     string
	Name   string
	Points int

	// Milliseconds since round start, nil until the participant buzzes.
	ClickTime *int64
}

// HasBuzzed reports whether the participant already has a click time this round.
func (p *Participant) HasBuzzed() bool {
	return p.ClickTime != nil
}

// Registry holds participants in join order. Iteration order matters:
// untimed scoreboard rows and name matching both follow it.
type Registry struct {
	order       []string
	byID        map[string]*Participant
	defaultName string
	maxName     int
}

func NewRegistry(defaultName string, maxNameLength int) *Registry {
	if strings.TrimSpace(defaultName) == "" {
		defaultName = DefaultName
	}
	if maxNameLength < 1 {
		maxNameLength = DefaultMaxNameLength
	}

	return &Registry{
		byID:        make(map[string]*Participant),
		defaultName: defaultName,
		maxName:     maxNameLength,
	}
}

// Add registers a participant for id. Adding an id twice returns the
// existing entry unchanged.
func (r *Registry) Add(id string) (*Participant, bool) {
	if p, ok := r.byID[id]; ok {
		return p, false
	}

	p := &Participant{
		ID:   id,
		Name: r.defaultName,
	}
	r.byID[id] = p
	r.order = append(r.order, id)

	return p, true
}

func (r *Registry) Remove(id string) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}

	delete(r.byID, id)

	dst := r.order[:0]
	for _, pid := range r.order {
		if pid != id {
			dst = append(dst, pid)
		}
	}
	r.order = dst

	return true
}

func (r *Registry) Get(id string) (*Participant, bool) {
	p, ok := r.byID[id]
	return p, ok
}

func (r *Registry) Len() int {
	return len(r.order)
}

// Rename sets the display name of id. Blank names fall back to the default.
func (r *Registry) Rename(id, name string) error {
	p, ok := r.byID[id]
	if !ok {
		return ErrUnknownParticipant
	}

	p.Name = r.normalizeName(name)

	return nil
}

// SetPointsByName updates the first participant, in join order, whose
// display name is exactly name.
func (r *Registry) SetPointsByName(name string, points int) error {
	for _, id := range r.order {
		p := r.byID[id]
		if p.Name == name {
			p.Points = points
			return nil
		}
	}

	return ErrNoMatch
}

func (r *Registry) ClearClickTimes() {
	for _, p := range r.byID {
		p.ClickTime = nil
	}
}

// Participants returns the participants in join order.
func (r *Registry) Participants() []*Participant {
	out := make([]*Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, id := range r.order {
		names = append(names, r.byID[id].Name)
	}
	return names
}

func (r *Registry) normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return r.defaultName
	}

	if utf8.RuneCountInString(name) > r.maxName {
		name = strings.TrimSpace(string([]rune(name)[:r.maxName]))
	}

	return name
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import "time"

type RoundState string

const (
	RoundIdle   RoundState = "idle"
	RoundActive RoundState = "active"
)

// Round tracks the lifecycle of the current round and who won it.
type Round struct {
	State     RoundState
	StartedAt time.Time
	WinnerID  string

	// Name of the winner when they won. Kept even if they leave or rename.
	WinnerName string
}

func NewRound() *Round {
	return &Round{State: RoundIdle}
}

func (r *Round) Active() bool {
	return r.State == RoundActive
}

// Start moves an idle round to active. It returns false if the round was
// already running.
func (r *Round) Start(now time.Time) bool {
	if r.Active() {
		return false
	}

	r.State = RoundActive
	r.StartedAt = now
	r.WinnerID = ""
	r.WinnerName = ""

	return true
}

// Elapsed is the non-negative whole milliseconds since the round started.
func (r *Round) Elapsed(now time.Time) int64 {
	ms := now.Sub(r.StartedAt).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

func (r *Round) HasWinner() bool {
	return r.WinnerID != ""
}

// ClaimWinner records id as the winner if nobody won yet.
func (r *Round) ClaimWinner(id, name string) bool {
	if r.HasWinner() {
		return false
	}

	r.WinnerID = id
	r.WinnerName = name

	return true
}

func (r *Round) Reset() {
	r.State = RoundIdle
	r.StartedAt = time.Time{}
	r.WinnerID = ""
	r.WinnerName = ""
}

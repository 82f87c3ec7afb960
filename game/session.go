/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"time"

	"github.com/jonboulle/clockwork"
)

const DefaultResetTime = 10

// RoundSummary describes a finished round.
type RoundSummary struct {
	StartedAt  time.Time         `json:"startedAt"`
	EndedAt    time.Time         `json:"endedAt"`
	Winner     string            `json:"winner,omitempty"`
	Scoreboard []ScoreboardEntry `json:"scoreboard"`
}

// RoundRecorder is told about every round when it resets.
type RoundRecorder interface {
	RecordRound(summary RoundSummary)
}

type Options struct {
	Clock         clockwork.Clock
	ResetTime     int
	DefaultName   string
	MaxNameLength int
	Recorder      RoundRecorder
}

// Session is the whole game: registry, round, timer, settings and the
// audiences listening to it. It is not safe for concurrent use; one
// goroutine must own it and feed it events one at a time.
type Session struct {
	clock       clockwork.Clock
	registry    *Registry
	round       *Round
	timer       *ResetTimer
	subscribers *Dispatcher
	recorder    RoundRecorder

	defaultResetTime int
	resetTime        int
	showPoints       bool
}

func NewSession(opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.ResetTime < 1 {
		opts.ResetTime = DefaultResetTime
	}

	return &Session{
		clock:            opts.Clock,
		registry:         NewRegistry(opts.DefaultName, opts.MaxNameLength),
		round:            NewRound(),
		timer:            NewResetTimer(opts.Clock),
		subscribers:      NewDispatcher(),
		recorder:         opts.Recorder,
		defaultResetTime: opts.ResetTime,
		resetTime:        opts.ResetTime,
	}
}

func (s *Session) ResetTime() int {
	return s.resetTime
}

func (s *Session) ShowPoints() bool {
	return s.showPoints
}

func (s *Session) RoundActive() bool {
	return s.round.Active()
}

// Round returns a copy of the current round state.
func (s *Session) Round() Round {
	return *s.round
}

func (s *Session) Participants() int {
	return s.registry.Len()
}

func (s *Session) Subscribers() int {
	return s.subscribers.Len()
}

func (s *Session) TimerArmed() bool {
	return s.timer.Armed()
}

// TimerC is the expiry channel of the armed round timer, nil when no round
// is running. The owner selects on it and calls Expire.
func (s *Session) TimerC() <-chan time.Time {
	return s.timer.C()
}

// Connect attaches a new connection. Players are registered as
// participants and everyone is told; the new connection then gets the
// current settings, scoreboard and points.
func (s *Session) Connect(id string, role Role, sub Subscriber) {
	s.subscribers.Subscribe(id, role, sub)

	if !role.IsModerator() {
		if _, added := s.registry.Add(id); added {
			s.broadcastPlayerList()
		}
	}

	s.sendInitial(id, role)
}

// Disconnect detaches a connection. A player's entry is removed for good.
func (s *Session) Disconnect(id string) {
	s.subscribers.Unsubscribe(id)

	if s.registry.Remove(id) {
		s.broadcastPlayerList()
	}
}

func (s *Session) SetName(id, name string) error {
	if err := s.requirePlayer(id); err != nil {
		return err
	}

	if err := s.registry.Rename(id, name); err != nil {
		return err
	}

	s.broadcastPlayerList()

	return nil
}

// Buzz records a click from id, starting the round if it is idle. The
// first click of a round wins; later ones are told they lost.
func (s *Session) Buzz(id string) error {
	if err := s.requirePlayer(id); err != nil {
		return err
	}

	p, ok := s.registry.Get(id)
	if !ok {
		return ErrUnknownParticipant
	}

	now := s.clock.Now()
	if s.round.Start(now) {
		s.timer.Arm(time.Duration(s.resetTime) * time.Second)
	}

	var err error
	if p.HasBuzzed() {
		err = ErrAlreadyBuzzed
	} else {
		elapsed := s.round.Elapsed(now)
		p.ClickTime = &elapsed

		if s.round.ClaimWinner(p.ID, p.Name) {
			s.subscribers.Broadcast(Message{Type: EventWinner, Payload: p.Name})
		} else {
			_ = s.subscribers.Send(id, Message{Type: EventLoser})
		}
	}

	s.broadcastScoreboard()

	return err
}

// SetResetTime changes the round length for rounds started from now on.
// Values below one second fall back to the configured default.
func (s *Session) SetResetTime(id string, seconds int) error {
	if err := s.requireModerator(id); err != nil {
		return err
	}

	if seconds < 1 {
		seconds = s.defaultResetTime
	}
	s.resetTime = seconds

	s.subscribers.Broadcast(Message{Type: EventResetTimeChanged, Payload: s.resetTime})

	return nil
}

// SetPoints sets the score of the first participant named teamName.
// Points are rebroadcast even if nobody matched.
func (s *Session) SetPoints(id, teamName string, points int) error {
	if err := s.requireModerator(id); err != nil {
		return err
	}

	err := s.registry.SetPointsByName(teamName, points)
	s.broadcastPoints()

	return err
}

func (s *Session) ToggleShowPoints(id string) error {
	if err := s.requireModerator(id); err != nil {
		return err
	}

	s.showPoints = !s.showPoints

	s.subscribers.Broadcast(Message{Type: EventShowPointsUpdated, Payload: s.showPoints})
	s.broadcastPoints()

	return nil
}

// ResetRound ends the running round immediately on the moderator's
// request, cancelling its timer. An idle round is left alone.
func (s *Session) ResetRound(id string) error {
	if err := s.requireModerator(id); err != nil {
		return err
	}

	if !s.round.Active() {
		return nil
	}

	s.timer.Cancel()
	s.reset()

	return nil
}

// Expire handles a value received from TimerC.
func (s *Session) Expire() {
	s.timer.Disarm()
	s.reset()
}

// Close drops every connection.
func (s *Session) Close() {
	s.timer.Cancel()
	s.subscribers.CloseAll()
}

// Scoreboard returns the current ranked results.
func (s *Session) Scoreboard() []ScoreboardEntry {
	return BuildScoreboard(s.registry.Participants())
}

// Points returns the points list as role would see it right now.
func (s *Session) Points(role Role) []PointsEntry {
	return ProjectPoints(s.registry.Participants(), role, s.showPoints)
}

func (s *Session) reset() {
	wasActive := s.round.Active()
	summary := RoundSummary{
		StartedAt:  s.round.StartedAt,
		EndedAt:    s.clock.Now(),
		Winner:     s.round.WinnerName,
		Scoreboard: s.Scoreboard(),
	}

	s.round.Reset()
	s.registry.ClearClickTimes()

	s.subscribers.Broadcast(Message{Type: EventReset})
	s.broadcastPlayerList()

	if wasActive && s.recorder != nil {
		s.recorder.RecordRound(summary)
	}
}

func (s *Session) sendInitial(id string, role Role) {
	_ = s.subscribers.Send(id, Message{Type: EventShowPointsUpdated, Payload: s.showPoints})
	_ = s.subscribers.Send(id, Message{Type: EventResetTimeChanged, Payload: s.resetTime})
	_ = s.subscribers.Send(id, Message{Type: EventUpdateScoreboard, Payload: s.Scoreboard()})
	_ = s.subscribers.Send(id, Message{Type: EventPointsUpdated, Payload: s.Points(role)})
}

// broadcastPlayerList always goes out together with the scoreboard so new
// names show up in both.
func (s *Session) broadcastPlayerList() {
	s.subscribers.Broadcast(Message{Type: EventPlayerList, Payload: s.registry.Names()})
	s.broadcastScoreboard()
}

func (s *Session) broadcastScoreboard() {
	s.subscribers.Broadcast(Message{Type: EventUpdateScoreboard, Payload: s.Scoreboard()})
}

func (s *Session) broadcastPoints() {
	participants := s.registry.Participants()
	s.subscribers.BroadcastEach(EventPointsUpdated, func(role Role) any {
		return ProjectPoints(participants, role, s.showPoints)
	})
}

func (s *Session) requirePlayer(id string) error {
	role, ok := s.subscribers.Role(id)
	if !ok {
		return ErrUnknownSubscriber
	}
	if role.IsModerator() {
		return ErrPlayerOnly
	}
	return nil
}

func (s *Session) requireModerator(id string) error {
	role, ok := s.subscribers.Role(id)
	if !ok {
		return ErrUnknownSubscriber
	}
	if !role.IsModerator() {
		return ErrModeratorOnly
	}
	return nil
}

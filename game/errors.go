/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import "errors"

// Returned by Session operations. None of these are ever shown to clients;
// the hub only logs them.
var (
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrModeratorOnly      = errors.New("only the moderator can do that")
	ErrPlayerOnly         = errors.New("moderators cannot do that")
	ErrNoMatch            = errors.New("no participant with that name")
	ErrAlreadyBuzzed      = errors.New("already buzzed this round")
	ErrUnknownSubscriber  = errors.New("unknown subscriber")
)

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

// Role is the audience a connection belongs to.
type Role string

const (
	RoleModerator Role = "moderator"
	RolePlayer    Role = "player"
)

func (r Role) IsModerator() bool {
	return r == RoleModerator
}

// PointsEntry is a participant's score as seen by one audience. Points is
// nil when the audience is not allowed to see it.
type PointsEntry struct {
	Name   string `json:"name"`
	Points *int   `json:"points"`
}

// CanSeePoints is the visibility policy: moderators always see scores,
// players only once the moderator has turned them on.
func CanSeePoints(role Role, showPoints bool) bool {
	return role.IsModerator() || showPoints
}

// ProjectPoints builds the points list for one audience.
func ProjectPoints(participants []*Participant, role Role, showPoints bool) []PointsEntry {
	visible := CanSeePoints(role, showPoints)

	entries := make([]PointsEntry, 0, len(participants))
	for _, p := range participants {
		e := PointsEntry{Name: p.Name}
		if visible {
			points := p.Points
			e.Points = &points
		}
		entries = append(entries, e)
	}

	return entries
}

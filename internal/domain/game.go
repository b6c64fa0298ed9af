package domain

import (
	"slices"
	"time"
)

// GameStatus represents the server-driven lifecycle state of a game.
// Transitions (recruiting -> recruitment_complete when full, and anything ->
// ended once the scheduled time passes) happen server-side only; the client
// adopts whatever status the latest snapshot carries.
type GameStatus string

const (
	GameStatusRecruiting GameStatus = "recruiting"
	GameStatusComplete   GameStatus = "recruitment_complete"
	GameStatusEnded      GameStatus = "ended"
)

// ParticipantRole represents how a user takes part in a game
type ParticipantRole string

const (
	RolePlayer    ParticipantRole = "player"
	RoleReferee   ParticipantRole = "referee"
	RoleSpectator ParticipantRole = "spectator"
)

// Court represents a basketball facility. Courts are static from the
// client's perspective and are fetched once per session.
type Court struct {
	ID          int64   `json:"courtId"`
	Name        string  `json:"courtName"`
	IsIndoor    bool    `json:"isIndoor"`
	LocationLat float64 `json:"locationLat"`
	LocationLng float64 `json:"locationLng"`
}

// Game represents a scheduled match at a court. CurrentPlayers and Status
// are tracked by the server; the client never derives them locally.
type Game struct {
	ID             int64      `json:"gameId"`
	CourtID        int64      `json:"courtId"`
	CourtName      string     `json:"courtName"`
	LocationLat    float64    `json:"locationLat"`
	LocationLng    float64    `json:"locationLng"`
	ScheduledTime  Instant    `json:"scheduledTime"`
	MaxPlayers     int        `json:"maxPlayers"`
	CurrentPlayers int        `json:"currentPlayers"`
	Status         GameStatus `json:"status"`
	HostName       string     `json:"hostName"`
	Referee        string     `json:"referee,omitempty"`
	PlayerNames    []string   `json:"playerNames"`
	SpectatorNames []string   `json:"spectatorNames"`
	CreatedAt      Instant    `json:"createdAt"`
}

// IsFull reports whether the roster has reached capacity
func (g *Game) IsFull() bool {
	return g.CurrentPlayers >= g.MaxPlayers
}

// IsHost reports whether the named user created this game
func (g *Game) IsHost(name string) bool {
	return name != "" && g.HostName == name
}

// HasParticipant reports whether the named user already appears in the
// roster in any role.
func (g *Game) HasParticipant(name string) bool {
	if name == "" {
		return false
	}
	if g.Referee == name {
		return true
	}
	return slices.Contains(g.PlayerNames, name) || slices.Contains(g.SpectatorNames, name)
}

// CanJoin reports whether join controls should be offered to the named
// user. Display-side only: the server remains the authority and its error
// message is surfaced verbatim if the join is rejected anyway.
func (g *Game) CanJoin(name string) bool {
	return g.Status == GameStatusRecruiting &&
		!g.IsFull() &&
		!g.IsHost(name) &&
		!g.HasParticipant(name)
}

// CreateGameRequest is the payload for creating a game
type CreateGameRequest struct {
	CourtID       int64     `json:"courtId"`
	CreatorUserID int64     `json:"creatorUserId"`
	MaxPlayers    int       `json:"maxPlayers"`
	ScheduledTime time.Time `json:"scheduledTime"`
}

// JoinGameRequest is the payload for joining a game
type JoinGameRequest struct {
	UserID int64           `json:"userId"`
	Role   ParticipantRole `json:"role"`
}

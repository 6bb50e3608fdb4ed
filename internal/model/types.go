package model

import "time"

// DefaultPar is the par assigned to newly added holes.
const DefaultPar = 3

// Course is a named layout of holes.
type Course struct {
	ID       int64  `json:"course_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Hole is one hole of a course.
type Hole struct {
	ID          int64    `json:"id"`
	CourseID    int64    `json:"course_id"`
	HoleNumber  int      `json:"hole_number"`
	Par         int      `json:"par"`
	Distance    *int     `json:"distance,omitempty"`
	Description *string  `json:"description,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// Player is a person who can join games.
type Player struct {
	ID   int64  `json:"player_id"`
	Name string `json:"name"`
}

// Game is one round played on a course.
// Course, roster and hole set never change after creation.
type Game struct {
	ID        int64     `json:"game_id"`
	CourseID  int64     `json:"course_id"`
	StartDate time.Time `json:"start_date"`
}

// GamePlayer is roster membership of a player in a game.
type GamePlayer struct {
	GameID   int64 `json:"game_id"`
	PlayerID int64 `json:"player_id"`
}

// ThrowCell holds one player's throw count for one hole of one game.
type ThrowCell struct {
	GameID         int64 `json:"game_id"`
	PlayerID       int64 `json:"player_id"`
	HoleNumber     int   `json:"hole_number"`
	NumberOfThrows int   `json:"number_of_throws"`
}

// CellKey identifies a throw cell within a game.
type CellKey struct {
	PlayerID   int64
	HoleNumber int
}

// Key returns the cell's position within its game.
func (c ThrowCell) Key() CellKey {
	return CellKey{PlayerID: c.PlayerID, HoleNumber: c.HoleNumber}
}

// TotalPar sums the par of the given holes.
func TotalPar(holes []Hole) int {
	total := 0
	for _, h := range holes {
		total += h.Par
	}
	return total
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }

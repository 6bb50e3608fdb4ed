package game

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/discman/internal/model"
	"github.com/roach88/discman/internal/scoring"
	"github.com/roach88/discman/internal/store"
)

// Store is the subset of the entity store a session needs.
// *store.Store satisfies it.
type Store interface {
	GetCourse(ctx context.Context, id int64) (model.Course, bool, error)
	ListHoles(ctx context.Context, courseID int64) ([]model.Hole, error)
	GetPlayer(ctx context.Context, id int64) (model.Player, bool, error)
	GetGame(ctx context.Context, id int64) (model.Game, bool, error)
	ListGamePlayers(ctx context.Context, gameID int64) ([]model.GamePlayer, error)
	ListThrows(ctx context.Context, gameID int64) ([]model.ThrowCell, error)
	CreateGame(ctx context.Context, g model.Game, playerIDs []int64, cells []model.ThrowCell) (int64, error)
	UpdateThrow(ctx context.Context, c model.ThrowCell) error
}

// Phase is the session's lifecycle state.
type Phase int

const (
	// PhaseSetup accumulates a course and a roster.
	PhaseSetup Phase = iota

	// PhaseActive has a persisted game whose throw cells can change.
	PhaseActive
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseActive:
		return "active"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a point-in-time copy of a session.
type State struct {
	SessionID   string            `json:"session_id"`
	Phase       string            `json:"phase"`
	Game        *model.Game       `json:"game,omitempty"`
	Course      *model.Course     `json:"course,omitempty"`
	Players     []model.Player    `json:"players"`
	Holes       []model.Hole      `json:"holes"`
	Throws      []model.ThrowCell `json:"throws"`
	CurrentHole int               `json:"current_hole"`
}

// Session drives one game from setup to scoring.
// All methods are safe for concurrent use; a session is still meant to be
// driven by a single caller.
type Session struct {
	id     string
	store  Store
	logger *slog.Logger
	now    func() time.Time

	mu          sync.Mutex
	phase       Phase
	course      *model.Course
	holes       []model.Hole
	players     []model.Player
	game        *model.Game
	cells       []model.ThrowCell
	currentHole int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session's logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithClock sets the source of game start dates. Default: time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession creates a session in PhaseSetup.
func NewSession(st Store, opts ...Option) *Session {
	s := &Session{
		id:     uuid.Must(uuid.NewV7()).String(),
		store:  st,
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With("session", s.id)
	return s
}

// ID returns the session's correlation ID.
func (s *Session) ID() string {
	return s.id
}

// Phase returns the current lifecycle state.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// SelectCourse chooses the course for a new game and loads its holes.
func (s *Session) SelectCourse(ctx context.Context, courseID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseSetup {
		return ErrAlreadyActive
	}

	course, ok, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return fmt.Errorf("select course: %w", err)
	}
	if !ok {
		return fmt.Errorf("select course %d: %w", courseID, ErrCourseNotFound)
	}

	holes, err := s.store.ListHoles(ctx, courseID)
	if err != nil {
		return fmt.Errorf("select course holes: %w", err)
	}

	s.course = &course
	s.holes = holes
	return nil
}

// TogglePlayer adds p to the roster, or removes it if already selected.
// Returns whether p is selected afterwards.
func (s *Session) TogglePlayer(p model.Player) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseSetup {
		return false, ErrAlreadyActive
	}

	i := slices.IndexFunc(s.players, func(q model.Player) bool { return q.ID == p.ID })
	if i >= 0 {
		s.players = slices.Delete(s.players, i, i+1)
		return false, nil
	}

	s.players = append(s.players, p)
	return true, nil
}

// TogglePlayerID looks up a player by ID and toggles it.
func (s *Session) TogglePlayerID(ctx context.Context, playerID int64) (bool, error) {
	p, ok, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return false, fmt.Errorf("toggle player: %w", err)
	}
	if !ok {
		return false, fmt.Errorf("toggle player %d: %w", playerID, ErrPlayerNotFound)
	}
	return s.TogglePlayer(p)
}

// StartGame persists a new game for the selected course and roster.
// Every (player, hole) cell is seeded to the hole's par and the cursor is
// placed on the first hole.
func (s *Session) StartGame(ctx context.Context) (model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.phase != PhaseSetup:
		return model.Game{}, ErrAlreadyActive
	case s.course == nil:
		return model.Game{}, ErrNoCourse
	case len(s.holes) == 0:
		return model.Game{}, ErrNoHoles
	case len(s.players) == 0:
		return model.Game{}, ErrNoPlayers
	}

	playerIDs := make([]int64, len(s.players))
	cells := make([]model.ThrowCell, 0, len(s.players)*len(s.holes))
	for i, p := range s.players {
		playerIDs[i] = p.ID
		for _, h := range s.holes {
			cells = append(cells, model.ThrowCell{
				PlayerID:       p.ID,
				HoleNumber:     h.HoleNumber,
				NumberOfThrows: h.Par,
			})
		}
	}

	g := model.Game{CourseID: s.course.ID, StartDate: s.now().UTC().Truncate(time.Millisecond)}
	id, err := s.store.CreateGame(ctx, g, playerIDs, cells)
	if err != nil {
		return model.Game{}, fmt.Errorf("start game: %w", err)
	}

	g.ID = id
	for i := range cells {
		cells[i].GameID = id
	}

	s.game = &g
	s.cells = cells
	s.currentHole = s.holes[0].HoleNumber
	s.phase = PhaseActive

	s.logger.Info("game started", "game_id", id, "course_id", g.CourseID, "players", len(playerIDs), "holes", len(s.holes))
	return g, nil
}

// LoadGame restores a stored game into the session and resets the cursor to
// the first hole. Any previous session state is replaced.
func (s *Session) LoadGame(ctx context.Context, gameID int64) error {
	g, ok, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return fmt.Errorf("load game: %w", err)
	}
	if !ok {
		return fmt.Errorf("load game %d: %w", gameID, ErrGameNotFound)
	}

	course, ok, err := s.store.GetCourse(ctx, g.CourseID)
	if err != nil {
		return fmt.Errorf("load game course: %w", err)
	}
	if !ok {
		return fmt.Errorf("load game %d course %d: %w", gameID, g.CourseID, ErrCourseNotFound)
	}

	roster, err := s.store.ListGamePlayers(ctx, gameID)
	if err != nil {
		return fmt.Errorf("load game roster: %w", err)
	}

	players := make([]model.Player, 0, len(roster))
	for _, gp := range roster {
		p, ok, err := s.store.GetPlayer(ctx, gp.PlayerID)
		if err != nil {
			return fmt.Errorf("load game player: %w", err)
		}
		if ok {
			players = append(players, p)
		}
	}

	courseHoles, err := s.store.ListHoles(ctx, g.CourseID)
	if err != nil {
		return fmt.Errorf("load game holes: %w", err)
	}

	cells, err := s.store.ListThrows(ctx, gameID)
	if err != nil {
		return fmt.Errorf("load game throws: %w", err)
	}

	// The stored cells fix the game's hole set; holes added to the course
	// after the game started are not part of it.
	played := make(map[int]bool, len(courseHoles))
	for _, c := range cells {
		played[c.HoleNumber] = true
	}
	holes := make([]model.Hole, 0, len(courseHoles))
	for _, h := range courseHoles {
		if played[h.HoleNumber] {
			holes = append(holes, h)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.game = &g
	s.course = &course
	s.players = players
	s.holes = holes
	s.cells = cells
	s.currentHole = 1
	if len(holes) > 0 {
		s.currentHole = holes[0].HoleNumber
	}
	s.phase = PhaseActive

	s.logger.Debug("game loaded", "game_id", gameID, "players", len(players), "cells", len(cells))
	return nil
}

// UpdatePlayerThrows sets one throw cell of the active game.
// A cell that does not exist (player or hole not in this game) is ignored.
func (s *Session) UpdatePlayerThrows(ctx context.Context, playerID int64, holeNumber, throws int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive {
		return ErrNotActive
	}

	cell := model.ThrowCell{
		GameID:         s.game.ID,
		PlayerID:       playerID,
		HoleNumber:     holeNumber,
		NumberOfThrows: throws,
	}
	if err := cell.Validate(); err != nil {
		return fmt.Errorf("invalid throws: %w", err)
	}

	if err := s.store.UpdateThrow(ctx, cell); err != nil {
		if store.IsNotFound(err) {
			s.logger.Debug("no throw cell", "game_id", s.game.ID, "player_id", playerID, "hole", holeNumber)
			return nil
		}
		return fmt.Errorf("update throws: %w", err)
	}

	for i := range s.cells {
		if s.cells[i].Key() == cell.Key() {
			s.cells[i].NumberOfThrows = throws
			break
		}
	}
	return nil
}

// Cell returns one throw cell of the session's game.
func (s *Session) Cell(playerID int64, holeNumber int) (model.ThrowCell, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := model.CellKey{PlayerID: playerID, HoleNumber: holeNumber}
	for _, c := range s.cells {
		if c.Key() == key {
			return c, true
		}
	}
	return model.ThrowCell{}, false
}

// CurrentHole returns the hole number under the cursor.
func (s *Session) CurrentHole() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentHole
}

// SetCurrentHole moves the cursor to holeNumber.
func (s *Session) SetCurrentHole(holeNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive {
		return ErrNotActive
	}
	if !slices.ContainsFunc(s.holes, func(h model.Hole) bool { return h.HoleNumber == holeNumber }) {
		return fmt.Errorf("set current hole %d: %w", holeNumber, ErrUnknownHole)
	}

	s.currentHole = holeNumber
	return nil
}

// NextHole moves the cursor to the smallest hole number greater than the
// current one. Returns false, leaving the cursor in place, at the last hole
// or outside PhaseActive.
func (s *Session) NextHole() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive {
		return false
	}

	next := 0
	for _, h := range s.holes {
		if h.HoleNumber > s.currentHole && (next == 0 || h.HoleNumber < next) {
			next = h.HoleNumber
		}
	}
	if next == 0 {
		return false
	}

	s.currentHole = next
	return true
}

// IsLastHole reports whether the cursor is on the final hole.
// It is false outside PhaseActive.
func (s *Session) IsLastHole() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive {
		return false
	}

	for _, h := range s.holes {
		if h.HoleNumber > s.currentHole {
			return false
		}
	}
	return true
}

// ClearGameSetup discards all in-memory state and returns to PhaseSetup.
// Nothing stored is touched.
func (s *Session) ClearGameSetup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase = PhaseSetup
	s.course = nil
	s.holes = nil
	s.players = nil
	s.game = nil
	s.cells = nil
	s.currentHole = 0
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		SessionID:   s.id,
		Phase:       s.phase.String(),
		Players:     slices.Clone(s.players),
		Holes:       slices.Clone(s.holes),
		Throws:      slices.Clone(s.cells),
		CurrentHole: s.currentHole,
	}
	if s.game != nil {
		g := *s.game
		st.Game = &g
	}
	if s.course != nil {
		c := *s.course
		st.Course = &c
	}
	if st.Players == nil {
		st.Players = []model.Player{}
	}
	if st.Holes == nil {
		st.Holes = []model.Hole{}
	}
	if st.Throws == nil {
		st.Throws = []model.ThrowCell{}
	}
	return st
}

// Scores computes per-player totals for the session, in roster order.
func (s *Session) Scores() []scoring.PlayerScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scoring.ComputeScores(s.players, s.holes, s.cells)
}

// Leaderboard returns the session's scores ranked best first.
func (s *Session) Leaderboard() []scoring.PlayerScore {
	return scoring.Rank(s.Scores())
}

// ShareText renders the active game's leaderboard for sharing.
func (s *Session) ShareText() (string, error) {
	board := s.Leaderboard()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive {
		return "", ErrNotActive
	}
	return scoring.ShareText(s.course.Name, s.game.StartDate, board, s.holes), nil
}

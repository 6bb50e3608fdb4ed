package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/roach88/discman/internal/game"
	"github.com/roach88/discman/internal/live"
)

// HandleListCourses returns every course by name.
func (s *Server) HandleListCourses(c *gin.Context) {
	courses, err := s.store.ListCourses(c.Request.Context())
	if err != nil {
		s.internalErr(c, fmt.Errorf("list courses: %w", err))
		return
	}
	c.JSON(http.StatusOK, courses)
}

// HandleListHoles returns one course's holes in play order.
func (s *Server) HandleListHoles(c *gin.Context) {
	courseID, ok := idParam(c, "courseID")
	if !ok {
		return
	}

	holes, err := s.store.ListHoles(c.Request.Context(), courseID)
	if err != nil {
		s.internalErr(c, fmt.Errorf("list holes: %w", err))
		return
	}
	c.JSON(http.StatusOK, holes)
}

// HandleListPlayers returns every player by name.
func (s *Server) HandleListPlayers(c *gin.Context) {
	players, err := s.store.ListPlayers(c.Request.Context())
	if err != nil {
		s.internalErr(c, fmt.Errorf("list players: %w", err))
		return
	}
	c.JSON(http.StatusOK, players)
}

// HandleListGames returns every game, most recent first.
func (s *Server) HandleListGames(c *gin.Context) {
	games, err := s.store.ListGames(c.Request.Context())
	if err != nil {
		s.internalErr(c, fmt.Errorf("list games: %w", err))
		return
	}
	c.JSON(http.StatusOK, games)
}

// HandleGetGame returns a game's state and leaderboard.
func (s *Server) HandleGetGame(c *gin.Context) {
	sess, ok := s.loadGame(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gameResponse(sess))
}

// HandleUpdateThrows sets one player's throws on one hole and returns the
// updated game. A player or hole outside the game leaves it unchanged.
func (s *Server) HandleUpdateThrows(c *gin.Context) {
	var req ThrowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderErr(c, http.StatusBadRequest, err.Error())
		return
	}

	sess, ok := s.loadGame(c)
	if !ok {
		return
	}

	if err := sess.UpdatePlayerThrows(c.Request.Context(), req.PlayerID, req.HoleNumber, *req.Throws); err != nil {
		s.internalErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gameResponse(sess))
}

// HandleLive streams snapshots of a list query as server-sent events until
// the client disconnects. The first event is the current result.
// The holes query needs a course_id query parameter.
func (s *Server) HandleLive(c *gin.Context) {
	q, err := live.ParseQuery(c.Param("query"))
	if err != nil {
		renderErr(c, http.StatusBadRequest, err.Error())
		return
	}

	key := live.Key{Query: q}
	if q == live.HolesForCourse {
		id, err := strconv.ParseInt(c.Query("course_id"), 10, 64)
		if err != nil || id <= 0 {
			renderErr(c, http.StatusBadRequest, "holes query needs a positive course_id")
			return
		}
		key.CourseID = id
	}

	ctx := c.Request.Context()
	sub, err := s.hub.Watch(ctx, key)
	if err != nil {
		s.internalErr(c, fmt.Errorf("watch %s: %w", key, err))
		return
	}
	defer sub.Close()

	s.logger.Debug("live stream opened", "key", key.String(), "subscription", sub.ID)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snap, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(string(key.Query), snap)
			return true
		}
	})

	s.logger.Debug("live stream closed", "key", key.String(), "subscription", sub.ID)
}

func (s *Server) loadGame(c *gin.Context) (*game.Session, bool) {
	gameID, ok := idParam(c, "gameID")
	if !ok {
		return nil, false
	}

	sess := game.NewSession(s.store, game.WithLogger(s.logger))
	if err := sess.LoadGame(c.Request.Context(), gameID); err != nil {
		if errors.Is(err, game.ErrGameNotFound) {
			renderErr(c, http.StatusNotFound, err.Error())
			return nil, false
		}
		s.internalErr(c, err)
		return nil, false
	}
	return sess, true
}

func gameResponse(sess *game.Session) GameResponse {
	return GameResponse{State: sess.Snapshot(), Leaderboard: sess.Leaderboard()}
}

func (s *Server) internalErr(c *gin.Context, err error) {
	s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	renderErr(c, http.StatusInternalServerError, "internal error")
}

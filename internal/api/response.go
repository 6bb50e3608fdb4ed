package api

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/roach88/discman/internal/game"
	"github.com/roach88/discman/internal/scoring"
)

// ErrResponse is the body of every error reply.
type ErrResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// GameResponse is a game's full state with its ranked leaderboard.
type GameResponse struct {
	game.State
	Leaderboard []scoring.PlayerScore `json:"leaderboard"`
}

// ThrowsRequest sets one throw cell.
type ThrowsRequest struct {
	PlayerID   int64 `json:"player_id" binding:"required"`
	HoleNumber int   `json:"hole_number" binding:"required,min=1"`
	Throws     *int  `json:"throws" binding:"required,min=0"`
}

func renderErr(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrResponse{Error: msg, RequestID: requestid.Get(c)})
}

// idParam parses a positive integer path parameter.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		renderErr(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

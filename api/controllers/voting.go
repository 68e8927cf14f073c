package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jsaveker/fork-it-app/api/models"
	"github.com/jsaveker/fork-it-app/logging"
	"github.com/jsaveker/fork-it-app/session"
	"github.com/jsaveker/fork-it-app/storage"
)

type VotingController struct {
	sessions storage.SessionStorage
}

func NewVotingController(s storage.SessionStorage) *VotingController {
	return &VotingController{sessions: s}
}

func (c *VotingController) RegisterRoutes(engine *gin.Engine) {
	engine.POST("/vote", c.registerVote)
	engine.POST("/add-restaurant", c.addRestaurant)
	engine.GET("/sessions/:id/results", c.sessionResults)
}

// registerVote godoc
// @Summary Cast a vote
// @Description Applies one user's up/down ballot for a restaurant on the session
// @Description roster. Repeating the same direction is a no-op, the opposite
// @Description direction flips the ballot.
// @Tags voting
// @Accept json
// @Produce json
// @Param request body models.RegisterVoteRequest true "Ballot"
// @Success 200 {object} session.Session
// @Failure 400 {object} models.ErrorResponse "Missing sessionId, restaurantId or userId"
// @Failure 404 {object} models.ErrorResponse "Session or restaurant not found"
// @Failure 503 {object} models.ErrorResponse
// @Router /vote [post]
func (c *VotingController) registerVote(g *gin.Context) {
	var req models.RegisterVoteRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format", Code: models.CodeInvalidInput})
		return
	}
	if req.SessionID == "" || req.RestaurantID == "" || req.UserID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "sessionId, restaurantId and userId are required", Code: models.CodeInvalidInput})
		return
	}

	sess, err := c.sessions.Get(g.Request.Context(), req.SessionID)
	if err != nil {
		respondStorageError(g, err)
		return
	}

	direction := session.Down
	if req.IsUpvote {
		direction = session.Up
	}
	if err := sess.CastVote(req.RestaurantID, req.UserID, direction); err != nil {
		if errors.Is(err, session.ErrUnknownRestaurant) {
			// The session is returned to the caller unchanged; nothing was
			// persisted for the rejected ballot.
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "restaurant is not on the session roster", Code: models.CodeNotFound})
			return
		}
		logging.Log.Errorf("VOTE: failed to apply ballot: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not apply vote", Code: models.CodeInternal})
		return
	}

	saved, err := c.sessions.Save(g.Request.Context(), sess)
	if err != nil {
		respondStorageError(g, err)
		return
	}
	g.JSON(http.StatusOK, saved)
}

// addRestaurant godoc
// @Summary Add a restaurant to a session roster
// @Description Idempotent on restaurant id: adding a restaurant that is already on
// @Description the roster succeeds without changing anything.
// @Tags voting
// @Accept json
// @Produce json
// @Param request body models.AddRestaurantRequest true "Session id and restaurant blob"
// @Success 200 {object} session.Session
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /add-restaurant [post]
func (c *VotingController) addRestaurant(g *gin.Context) {
	var req models.AddRestaurantRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format", Code: models.CodeInvalidInput})
		return
	}
	if req.SessionID == "" || req.Restaurant.ID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "sessionId and restaurant.id are required", Code: models.CodeInvalidInput})
		return
	}

	sess, err := c.sessions.Get(g.Request.Context(), req.SessionID)
	if err != nil {
		respondStorageError(g, err)
		return
	}

	if !sess.AddRestaurant(req.Restaurant) {
		// Already on the roster: successful no-op, expiry untouched.
		g.JSON(http.StatusOK, sess)
		return
	}

	saved, err := c.sessions.Save(g.Request.Context(), sess)
	if err != nil {
		respondStorageError(g, err)
		return
	}
	g.JSON(http.StatusOK, saved)
}

// sessionResults godoc
// @Summary Ranked standings for a session
// @Description Roster entries with derived counts, ranked by net score descending.
// @Description Ties keep roster insertion order and an entry nobody voted on never
// @Description outranks one with votes, so the order is stable across calls.
// @Tags voting
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} session.Standing
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /sessions/{id}/results [get]
func (c *VotingController) sessionResults(g *gin.Context) {
	sess, err := c.sessions.Get(g.Request.Context(), g.Param("id"))
	if err != nil {
		respondStorageError(g, err)
		return
	}
	g.JSON(http.StatusOK, sess.Standings())
}

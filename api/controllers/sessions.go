package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jsaveker/fork-it-app/api/models"
	"github.com/jsaveker/fork-it-app/logging"
	"github.com/jsaveker/fork-it-app/storage"
)

type SessionController struct {
	sessions storage.SessionStorage
}

func NewSessionController(s storage.SessionStorage) *SessionController {
	return &SessionController{sessions: s}
}

func (c *SessionController) RegisterRoutes(engine *gin.Engine) {
	engine.POST("/sessions", c.createSession)
	engine.GET("/sessions", c.listSessions)
	engine.POST("/sessions/resolve", c.resolveSession)
	engine.GET("/sessions/:id", c.getSession)
	engine.PUT("/sessions/:id", c.updateSession)
	engine.DELETE("/sessions/:id", c.deleteSession)
}

// respondStorageError maps repository failures onto the wire taxonomy. The
// client only ever sees the generic message; the detail was already logged
// where it happened.
func respondStorageError(g *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "session not found", Code: models.CodeNotFound})
	case errors.Is(err, storage.ErrStoreUnavailable):
		g.JSON(http.StatusServiceUnavailable, &models.ErrorResponse{Error: "storage temporarily unavailable, retry later", Code: models.CodeStoreUnavailable})
	default:
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "unexpected internal error", Code: models.CodeInternal})
	}
}

// createSession godoc
// @Summary Create a new voting session
// @Description Creates a session with an empty roster. Name defaults when omitted.
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body models.CreateSessionRequest false "Session name"
// @Success 201 {object} session.Session
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /sessions [post]
func (c *SessionController) createSession(g *gin.Context) {
	var req models.CreateSessionRequest
	if err := g.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format", Code: models.CodeInvalidInput})
		return
	}

	sess, err := c.sessions.Create(g.Request.Context(), req.Name)
	if err != nil {
		respondStorageError(g, err)
		return
	}
	g.JSON(http.StatusCreated, sess)
}

// listSessions godoc
// @Summary List all live sessions
// @Tags sessions
// @Produce json
// @Success 200 {array} session.Session
// @Failure 503 {object} models.ErrorResponse
// @Router /sessions [get]
func (c *SessionController) listSessions(g *gin.Context) {
	sessions, err := c.sessions.GetAll(g.Request.Context())
	if err != nil {
		respondStorageError(g, err)
		return
	}
	g.JSON(http.StatusOK, sessions)
}

// getSession godoc
// @Summary Fetch a session by id
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.Session
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /sessions/{id} [get]
func (c *SessionController) getSession(g *gin.Context) {
	id := g.Param("id")
	if id == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "session id is required", Code: models.CodeInvalidInput})
		return
	}

	sess, err := c.sessions.Get(g.Request.Context(), id)
	if err != nil {
		respondStorageError(g, err)
		return
	}
	g.JSON(http.StatusOK, sess)
}

// resolveSession godoc
// @Summary Resolve a session id, creating a fresh session when it is unknown
// @Description Returns the requested session when it still exists, otherwise a brand
// @Description new one. The id in the response is authoritative; callers must adopt
// @Description it rather than assume the requested id survived.
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body models.ResolveSessionRequest false "Requested id and fallback name"
// @Success 200 {object} session.Session
// @Failure 503 {object} models.ErrorResponse
// @Router /sessions/resolve [post]
func (c *SessionController) resolveSession(g *gin.Context) {
	var req models.ResolveSessionRequest
	if err := g.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format", Code: models.CodeInvalidInput})
		return
	}

	if req.SessionID != "" {
		sess, err := c.sessions.Get(g.Request.Context(), req.SessionID)
		if err == nil {
			g.JSON(http.StatusOK, sess)
			return
		}
		if !errors.Is(err, storage.ErrSessionNotFound) {
			respondStorageError(g, err)
			return
		}
		logging.Log.Infof("SESSION: %s is gone, creating a replacement", req.SessionID)
	}

	sess, err := c.sessions.Create(g.Request.Context(), req.Name)
	if err != nil {
		respondStorageError(g, err)
		return
	}
	g.JSON(http.StatusOK, sess)
}

// updateSession godoc
// @Summary Update a session
// @Description Field-level merge: present fields replace the stored ones wholesale,
// @Description absent fields are untouched. Extends the session expiry.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body models.UpdateSessionRequest true "Fields to replace"
// @Success 200 {object} session.Session
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /sessions/{id} [put]
func (c *SessionController) updateSession(g *gin.Context) {
	id := g.Param("id")

	var req models.UpdateSessionRequest
	if err := g.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format", Code: models.CodeInvalidInput})
		return
	}

	sess, err := c.sessions.Get(g.Request.Context(), id)
	if err != nil {
		respondStorageError(g, err)
		return
	}

	if req.Name != "" {
		sess.Name = req.Name
	}
	if req.Restaurants != nil {
		sess.Restaurants = req.Restaurants
	}
	if req.Votes != nil {
		sess.Votes = req.Votes
	}
	sess.Normalize()

	saved, err := c.sessions.Save(g.Request.Context(), sess)
	if err != nil {
		respondStorageError(g, err)
		return
	}
	g.JSON(http.StatusOK, saved)
}

// deleteSession godoc
// @Summary Delete a session
// @Description Idempotent: deleting an unknown session still succeeds.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.DeleteSessionResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /sessions/{id} [delete]
func (c *SessionController) deleteSession(g *gin.Context) {
	if err := c.sessions.Delete(g.Request.Context(), g.Param("id")); err != nil {
		respondStorageError(g, err)
		return
	}
	g.JSON(http.StatusOK, &models.DeleteSessionResponse{Success: true})
}

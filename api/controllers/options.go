package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jsaveker/fork-it-app/api/models"
	"github.com/jsaveker/fork-it-app/storage"
)

// OptionsController manages the global lunch candidate list that sessions
// draw suggestions from.
type OptionsController struct {
	options storage.OptionStorage
}

func NewOptionsController(s storage.OptionStorage) *OptionsController {
	return &OptionsController{options: s}
}

func (c *OptionsController) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/options", c.listOptions)
	engine.POST("/options", c.createOption)
	engine.PUT("/options/:id", c.renameOption)
	engine.DELETE("/options/:id", c.deleteOption)
}

// listOptions godoc
// @Summary List all lunch options
// @Tags options
// @Produce json
// @Success 200 {array} storage.Option
// @Failure 503 {object} models.ErrorResponse
// @Router /options [get]
func (c *OptionsController) listOptions(g *gin.Context) {
	options, err := c.options.GetAll(g.Request.Context())
	if err != nil {
		respondStorageError(g, err)
		return
	}
	g.JSON(http.StatusOK, options)
}

// createOption godoc
// @Summary Add a lunch option
// @Tags options
// @Accept json
// @Produce json
// @Param request body models.OptionRequest true "Option name"
// @Success 201 {object} storage.Option
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /options [post]
func (c *OptionsController) createOption(g *gin.Context) {
	var req models.OptionRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Name == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "name is required", Code: models.CodeInvalidInput})
		return
	}

	option, err := c.options.Add(g.Request.Context(), req.Name)
	if err != nil {
		respondStorageError(g, err)
		return
	}
	g.JSON(http.StatusCreated, option)
}

// renameOption godoc
// @Summary Rename a lunch option
// @Tags options
// @Accept json
// @Produce json
// @Param id path string true "Option ID"
// @Param request body models.OptionRequest true "New name (empty keeps the current one)"
// @Success 200 {object} storage.Option
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /options/{id} [put]
func (c *OptionsController) renameOption(g *gin.Context) {
	var req models.OptionRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format", Code: models.CodeInvalidInput})
		return
	}

	option, err := c.options.Rename(g.Request.Context(), g.Param("id"), req.Name)
	if err != nil {
		if errors.Is(err, storage.ErrOptionNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "option not found", Code: models.CodeNotFound})
			return
		}
		respondStorageError(g, err)
		return
	}
	g.JSON(http.StatusOK, option)
}

// deleteOption godoc
// @Summary Remove a lunch option
// @Description Idempotent: removing an unknown option still succeeds.
// @Tags options
// @Produce json
// @Param id path string true "Option ID"
// @Success 200 {object} models.DeleteSessionResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /options/{id} [delete]
func (c *OptionsController) deleteOption(g *gin.Context) {
	if err := c.options.Remove(g.Request.Context(), g.Param("id")); err != nil {
		respondStorageError(g, err)
		return
	}
	g.JSON(http.StatusOK, &models.DeleteSessionResponse{Success: true})
}

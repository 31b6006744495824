package api

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"calcsheet/internal/sheet"
)

type Controller struct {
	Sheet *sheet.Sheet
}

func NewController(s *sheet.Sheet) *Controller {
	return &Controller{Sheet: s}
}

type CellParams struct {
	Label string `uri:"label" binding:"required"`
}

// SetCellRequest carries the raw cell text. An empty string clears the cell,
// so the field is a pointer to tell it apart from a missing one.
type SetCellRequest struct {
	Text *string `json:"text" binding:"required"`
}

// CellResponse is the JSON form of a cell. Value is null when the value is
// not a finite number.
type CellResponse struct {
	Label   string   `json:"label"`
	Text    string   `json:"text"`
	Value   *float64 `json:"value"`
	Error   string   `json:"error,omitempty"`
	Display string   `json:"display"`
}

func NewCellResponse(c sheet.Cell) CellResponse {
	resp := CellResponse{
		Label:   c.Label(),
		Text:    c.Text(),
		Error:   c.ErrorMessage(),
		Display: c.Display(),
	}
	if v := c.Value(); !math.IsInf(v, 0) && !math.IsNaN(v) {
		resp.Value = &v
	}
	return resp
}

func (api *Controller) ListCellsAction(c *gin.Context) {
	cells := api.Sheet.Cells()
	response := make([]CellResponse, 0, len(cells))
	for _, cell := range cells {
		response = append(response, NewCellResponse(cell))
	}
	c.JSON(http.StatusOK, response)
}

func (api *Controller) GetCellAction(c *gin.Context) {
	params := CellParams{}
	var cell sheet.Cell

	err := c.ShouldBindUri(&params)
	if err == nil {
		cell, err = api.Sheet.Get(params.Label)
	}

	switch {
	case errors.Is(err, sheet.ErrCellNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, NewCellResponse(cell))
	}
}

func (api *Controller) SetCellAction(c *gin.Context) {
	params := CellParams{}
	request := SetCellRequest{}

	err := c.ShouldBindUri(&params)
	if err == nil {
		err = c.ShouldBindJSON(&request)
	}
	if err == nil {
		err = api.Sheet.Set(params.Label, *request.Text)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	cell, err := api.Sheet.Get(params.Label)
	if err != nil {
		// the cell was cleared
		c.JSON(http.StatusCreated, CellResponse{Label: params.Label})
		return
	}
	c.JSON(http.StatusCreated, NewCellResponse(cell))
}

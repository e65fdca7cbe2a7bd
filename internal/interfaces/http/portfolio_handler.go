package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AddLotRequest struct {
	StockCode    string `json:"stock_code" binding:"required"`
	Quantity     int64  `json:"quantity" binding:"required"`
	AvgPrice     int64  `json:"avg_price"`
	PurchaseDate string `json:"purchase_date" binding:"required"`
}

type UpdateLotRequest struct {
	Quantity *int64 `json:"quantity"`
	AvgPrice *int64 `json:"avg_price"`
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	valuation, err := h.portfolio.Valuate(c.Request.Context(), ownerID(c))
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Valuation failed", "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, valuation)
}

func (h *Handler) AddLot(c *gin.Context) {
	var req AddLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	lot, err := h.portfolio.AddLot(c.Request.Context(), ownerID(c),
		req.StockCode, req.Quantity, req.AvgPrice, req.PurchaseDate)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to add lot", "code", req.StockCode, "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lot)
}

func (h *Handler) UpdateLot(c *gin.Context) {
	lotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lot id"})
		return
	}

	var req UpdateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	lot, err := h.portfolio.UpdateLot(c.Request.Context(), ownerID(c), lotID, req.Quantity, req.AvgPrice)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}

func (h *Handler) RemoveLot(c *gin.Context) {
	lotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lot id"})
		return
	}

	if err := h.portfolio.RemoveLot(c.Request.Context(), ownerID(c), lotID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

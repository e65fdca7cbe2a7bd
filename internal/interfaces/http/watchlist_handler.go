package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AddWatchlistRequest struct {
	StockCode string `json:"stock_code" binding:"required"`
}

func (h *Handler) ListWatchlist(c *gin.Context) {
	items, err := h.watchlist.List(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"watchlist": items, "count": len(items)})
}

func (h *Handler) AddToWatchlist(c *gin.Context) {
	var req AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	entry, added, err := h.watchlist.Add(c.Request.Context(), ownerID(c), req.StockCode)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"entry": entry, "added": added})
}

func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	if err := h.watchlist.Remove(c.Request.Context(), ownerID(c), c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *Handler) CheckWatchlist(c *gin.Context) {
	code := c.Param("code")
	watched, err := h.watchlist.Check(c.Request.Context(), ownerID(c), code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock_code": code, "watched": watched})
}

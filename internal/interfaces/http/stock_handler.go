package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minsukang/kstock-tracker/internal/infrastructure/marketdata"
)

func (h *Handler) ListStocks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.instruments.List(c.Request.Context(), page, limit)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to list stocks", "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) SearchStocks(c *gin.Context) {
	query := c.Query("query")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	results, err := h.instruments.Search(c.Request.Context(), query, limit)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Search failed", "query", query, "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

func (h *Handler) GetStock(c *gin.Context) {
	inst, err := h.instruments.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inst)
}

func (h *Handler) GetCurrentPrice(c *gin.Context) {
	code := c.Param("code")

	quote, err := h.marketData.GetQuote(c.Request.Context(), code)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to get quote", "code", code, "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) GetChart(c *gin.Context) {
	code := c.Param("code")
	period := marketdata.Period(c.DefaultQuery("period", string(marketdata.PeriodDay)))

	candles, err := h.marketData.GetChart(c.Request.Context(), code, period)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to get chart", "code", code, "period", period, "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stock_code": code,
		"period":     period,
		"candles":    candles,
	})
}

func (h *Handler) GetSummary(c *gin.Context) {
	code := c.Param("code")

	summary, err := h.marketData.GetSummary(c.Request.Context(), code)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to get summary", "code", code, "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) GetNews(c *gin.Context) {
	code := c.Param("code")

	news, err := h.news.GetNews(c.Request.Context(), code)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to get news", "code", code, "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, news)
}

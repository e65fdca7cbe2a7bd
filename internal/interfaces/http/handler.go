package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minsukang/kstock-tracker/internal/application"
	"github.com/minsukang/kstock-tracker/internal/domain"
	"github.com/minsukang/kstock-tracker/internal/infrastructure/marketdata"
)

// Service interfaces consumed by the handlers. The application services
// satisfy them; tests substitute mocks.

type AuthService interface {
	Register(ctx context.Context, email, password, username string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	VerifyToken(tokenString string) (string, error)
}

type InstrumentService interface {
	Get(ctx context.Context, code string) (*domain.Instrument, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Instrument, error)
	List(ctx context.Context, page, limit int) (*application.InstrumentPage, error)
}

type MarketDataService interface {
	GetQuote(ctx context.Context, code string) (*marketdata.Quote, error)
	GetChart(ctx context.Context, code string, period marketdata.Period) ([]marketdata.Candle, error)
	GetSummary(ctx context.Context, code string) (*marketdata.Summary, error)
}

type WatchlistService interface {
	List(ctx context.Context, ownerID string) ([]application.WatchlistItem, error)
	Add(ctx context.Context, ownerID, code string) (*domain.WatchlistEntry, bool, error)
	Remove(ctx context.Context, ownerID, code string) error
	Check(ctx context.Context, ownerID, code string) (bool, error)
}

type PortfolioService interface {
	AddLot(ctx context.Context, ownerID, code string, quantity, avgPrice int64, purchaseDate string) (*domain.Lot, error)
	UpdateLot(ctx context.Context, ownerID string, lotID int64, quantity, avgPrice *int64) (*domain.Lot, error)
	RemoveLot(ctx context.Context, ownerID string, lotID int64) error
	Valuate(ctx context.Context, ownerID string) (*application.Valuation, error)
}

type NewsService interface {
	GetNews(ctx context.Context, code string) (*application.StockNews, error)
}

// TokenStatus reports whether a brokerage token is currently held. Surfaced
// by the health endpoint.
type TokenStatus interface {
	HasToken() bool
}

type Handler struct {
	auth        AuthService
	instruments InstrumentService
	marketData  MarketDataService
	watchlist   WatchlistService
	portfolio   PortfolioService
	news        NewsService
	tokenStatus TokenStatus
}

func NewHandler(
	auth AuthService,
	instruments InstrumentService,
	marketData MarketDataService,
	watchlist WatchlistService,
	portfolio PortfolioService,
	news NewsService,
	tokenStatus TokenStatus,
) *Handler {
	return &Handler{
		auth:        auth,
		instruments: instruments,
		marketData:  marketData,
		watchlist:   watchlist,
		portfolio:   portfolio,
		news:        news,
		tokenStatus: tokenStatus,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps domain sentinels and upstream error types onto HTTP
// status codes. Unrecognized errors become a 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var upstreamErr *marketdata.UpstreamError
	var authErr *marketdata.AuthError

	switch {
	case errors.Is(err, domain.ErrUnknownInstrument),
		errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrWeakPassword):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateEmail):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.As(err, &upstreamErr), errors.As(err, &authErr):
		status = http.StatusBadGateway
	}

	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"token_ready": h.tokenStatus.HasToken(),
	})
}

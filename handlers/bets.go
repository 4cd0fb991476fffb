package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/turfnote/turfapi/models"
)

type betCreateJSON struct {
	RaceID         *int            `json:"raceID"`
	Platform       string          `json:"platform"`
	BetType        string          `json:"betType" validate:"required"`
	HorsesSelected string          `json:"horsesSelected" validate:"required"`
	Stake          decimal.Decimal `json:"stake" validate:"required"`
	EventAt        *time.Time      `json:"eventAt"`
}

type betSettleJSON struct {
	Status string           `json:"status" validate:"required,oneof=won lost refunded"`
	Odds   *decimal.Decimal `json:"odds"`
}

// ListBets returns the authenticated user's bets, newest first.
func (h *Handler) ListBets(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var bets []models.Bet
	q := h.db.NewSelect().Model(&bets).
		Relation("Race").
		Where("b.user_id = ?", uid).
		Order("b.created_at DESC")
	if status := c.QueryParam("status"); status != "" {
		q = q.Where("b.status = ?", status)
	}
	if err := q.Scan(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, bets)
}

// CreateBet stores a new pending bet for the authenticated user.
func (h *Handler) CreateBet(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var in betCreateJSON
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if in.Stake.LessThanOrEqual(decimal.Zero) {
		return echo.NewHTTPError(http.StatusBadRequest, "stake must be positive")
	}
	if in.Platform == "" {
		in.Platform = models.PlatformPMU
	}

	bet := &models.Bet{
		UserID:         uid,
		RaceID:         in.RaceID,
		Platform:       in.Platform,
		BetType:        in.BetType,
		HorsesSelected: in.HorsesSelected,
		Stake:          in.Stake,
		Status:         models.BetStatusPending,
		EventAt:        in.EventAt,
		CreatedAt:      time.Now(),
	}
	if _, err := h.db.NewInsert().Model(bet).Exec(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, bet)
}

// SettleBet applies a manual result to one of the user's pending bets.
// This is the path for platforms the scheduler cannot settle; the derived
// profit follows the same rules as automatic settlement.
func (h *Handler) SettleBet(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	betID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bet id")
	}

	var in betSettleJSON
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	bet := &models.Bet{}
	if err := h.db.NewSelect().Model(bet).
		Where("bet_id = ? AND user_id = ?", betID, uid).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "bet not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if bet.Status != models.BetStatusPending {
		return echo.NewHTTPError(http.StatusConflict, "bet already settled")
	}

	var payout, profit decimal.Decimal
	switch in.Status {
	case models.BetStatusWon:
		if in.Odds == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "odds required for a won bet")
		}
		payout = in.Odds.Mul(bet.Stake)
		profit = payout.Sub(bet.Stake)
	case models.BetStatusLost:
		profit = bet.Stake.Neg()
	case models.BetStatusRefunded:
		payout = bet.Stake
	}

	bet.Status = in.Status
	bet.Odds = in.Odds
	bet.Payout = &payout
	bet.Profit = &profit
	if _, err := h.db.NewUpdate().Model(bet).
		Column("status", "odds", "payout", "profit").
		Where("bet_id = ? AND status = ?", betID, models.BetStatusPending).
		Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, bet)
}

// DeleteBet removes one of the user's bets.
func (h *Handler) DeleteBet(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	betID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bet id")
	}

	res, err := h.db.NewDelete().Model((*models.Bet)(nil)).
		Where("bet_id = ? AND user_id = ?", betID, uid).
		Exec(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "bet not found")
	}
	return c.NoContent(http.StatusNoContent)
}

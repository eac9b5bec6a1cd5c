package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/angelolockdev/trading-signals-generator/internal/share"
	"github.com/angelolockdev/trading-signals-generator/internal/signal"
	"github.com/angelolockdev/trading-signals-generator/pkg/db"
)

type signalRequest struct {
	Symbol      string  `json:"symbol"`
	Action      string  `json:"action" binding:"required,oneof=BUY SELL"`
	EntryFrom   float64 `json:"entry_from"`
	EntryTo     float64 `json:"entry_to"`
	StopLoss    float64 `json:"stop_loss"`
	TakeProfit1 float64 `json:"take_profit_1"`
	TakeProfit2 float64 `json:"take_profit_2"`
	TakeProfit3 float64 `json:"take_profit_3"`
	IsDraft     bool    `json:"is_draft"`
	Notes       string  `json:"notes"`

	// Optional auto-calculation of SL/TP from the entry zone.
	AutoCalc *autoCalcRequest `json:"auto_calc"`
}

type autoCalcRequest struct {
	SLPercent float64 `json:"sl_percent" binding:"gt=0"`
	TP1Pips   float64 `json:"tp1_pips" binding:"gt=0"`
	TP2Pips   float64 `json:"tp2_pips"`
	TP3Pips   float64 `json:"tp3_pips"`
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, gin.H{
		"code":  code,
		"error": msg,
	})
}

func (r *signalRequest) toSignal(userID, defaultSymbol string) db.Signal {
	symbol := r.Symbol
	if symbol == "" {
		symbol = defaultSymbol
	}

	s := db.Signal{
		UserID:      userID,
		Symbol:      symbol,
		Action:      r.Action,
		EntryFrom:   r.EntryFrom,
		EntryTo:     r.EntryTo,
		StopLoss:    r.StopLoss,
		TakeProfit1: r.TakeProfit1,
		TakeProfit2: r.TakeProfit2,
		TakeProfit3: r.TakeProfit3,
		IsDraft:     r.IsDraft,
		Notes:       r.Notes,
	}

	if r.AutoCalc != nil {
		levels := signal.AutoLevels(r.Action, r.EntryFrom, r.EntryTo,
			r.AutoCalc.SLPercent, r.AutoCalc.TP1Pips, r.AutoCalc.TP2Pips, r.AutoCalc.TP3Pips)
		s.StopLoss = levels.StopLoss
		s.TakeProfit1 = levels.TakeProfit1
		s.TakeProfit2 = levels.TakeProfit2
		s.TakeProfit3 = levels.TakeProfit3
	}

	return s
}

// createSignal records a new signal (or draft) for the current user.
func (s *Server) createSignal(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == "" {
		respondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "user not authenticated")
		return
	}

	var req signalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request payload")
		return
	}

	sig := req.toSignal(userID, s.Meta.Symbol)
	if err := signal.Validate(sig); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_SIGNAL", err.Error())
		return
	}

	created, err := s.Store.Create(c.Request.Context(), sig)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

// previewLevels returns auto-calculated SL/TP without persisting anything.
func (s *Server) previewLevels(c *gin.Context) {
	var req struct {
		Action    string  `json:"action" binding:"required,oneof=BUY SELL"`
		EntryFrom float64 `json:"entry_from" binding:"gt=0"`
		EntryTo   float64 `json:"entry_to" binding:"gt=0"`
		autoCalcRequest
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request payload")
		return
	}

	levels := signal.AutoLevels(req.Action, req.EntryFrom, req.EntryTo,
		req.SLPercent, req.TP1Pips, req.TP2Pips, req.TP3Pips)
	c.JSON(http.StatusOK, levels)
}

// listSignals returns the user's signals, newest first.
func (s *Server) listSignals(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == "" {
		respondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "user not authenticated")
		return
	}

	signals, err := s.Store.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if signals == nil {
		signals = []db.Signal{}
	}
	c.JSON(http.StatusOK, gin.H{"signals": signals})
}

// getSignal returns one signal the user owns.
func (s *Server) getSignal(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == "" {
		respondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "user not authenticated")
		return
	}

	sig, err := s.Store.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "signal not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, sig)
}

// updateSignal edits a signal. Terminal signals are immutable; action may only
// change while the signal is still a draft.
func (s *Server) updateSignal(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == "" {
		respondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "user not authenticated")
		return
	}

	ctx := c.Request.Context()
	existing, err := s.Store.GetByID(ctx, userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "signal not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	if db.IsTerminal(existing.Status) {
		respondError(c, http.StatusConflict, "SIGNAL_CLOSED", "closed signals cannot be edited")
		return
	}

	var req signalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request payload")
		return
	}
	if !existing.IsDraft && req.Action != existing.Action {
		respondError(c, http.StatusBadRequest, "ACTION_IMMUTABLE", "direction cannot change after publishing")
		return
	}

	sig := req.toSignal(userID, s.Meta.Symbol)
	sig.ID = existing.ID
	if err := signal.Validate(sig); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_SIGNAL", err.Error())
		return
	}

	updated, err := s.Store.Update(ctx, sig)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, updated)
}

// deleteSignal removes a signal the user owns.
func (s *Server) deleteSignal(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == "" {
		respondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "user not authenticated")
		return
	}

	if err := s.Store.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "signal not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// shareSignal renders the outbound message text for a signal.
func (s *Server) shareSignal(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == "" {
		respondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "user not authenticated")
		return
	}

	sig, err := s.Store.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "signal not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": share.Format(*sig)})
}

// getStats summarizes the user's signals.
func (s *Server) getStats(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == "" {
		respondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "user not authenticated")
		return
	}

	signals, err := s.Store.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, signal.Summarize(signals))
}

// getPrice returns the current cached/fallback reference price.
func (s *Server) getPrice(c *gin.Context) {
	c.JSON(http.StatusOK, s.Source.Current())
}

// triggerRefresh runs one on-demand evaluation cycle.
func (s *Server) triggerRefresh(c *gin.Context) {
	if err := s.Refresher.RefreshAll(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

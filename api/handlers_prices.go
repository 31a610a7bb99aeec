package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/status-im/crypto-converter/interfaces"
	"github.com/status-im/crypto-converter/prices"
)

const maxPriceIDs = 100

type convertResponse struct {
	Success     bool              `json:"success"`
	From        string            `json:"from"`
	To          string            `json:"to"`
	Amount      json.Number       `json:"amount"`
	Result      json.Number       `json:"result"`
	Rate        json.Number       `json:"rate"`
	Sources     map[string]string `json:"sources"`
	Degraded    bool              `json:"degraded"`
	LastUpdated string            `json:"lastUpdated"`
}

type pricesResponse struct {
	Success  bool               `json:"success"`
	Data     map[string]float64 `json:"data"`
	Sources  map[string]string  `json:"sources"`
	Missing  []string           `json:"missing"`
	Degraded bool               `json:"degraded"`
}

// handleConvert responds with amount of from expressed in to
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, okFrom := sanitizeID(query.Get("from"))
	to, okTo := sanitizeID(query.Get("to"))
	amount, okAmount := sanitizeAmount(query.Get("amount"))
	if !okFrom || !okTo || !okAmount {
		s.sendError(w, http.StatusBadRequest, "Invalid query parameters. Expected from, to, and amount.")
		return
	}

	conversion, err := s.pricesService.Convert(r.Context(), from, to, amount)
	switch {
	case errors.Is(err, prices.ErrPriceUnavailable):
		s.sendError(w, http.StatusNotFound, "Unable to fetch prices for the provided currencies.")
		return
	case errors.Is(err, interfaces.ErrInvalidIdentifier):
		s.sendError(w, http.StatusBadRequest, "Invalid query parameters. Expected from, to, and amount.")
		return
	case err != nil:
		s.internalError(w, r, "convert", err)
		return
	}

	s.sendJSONResponse(w, convertResponse{
		Success: true,
		From:    from,
		To:      to,
		Amount:  decimalNumber(conversion.Amount),
		Result:  decimalNumber(conversion.Result),
		Rate:    decimalNumber(conversion.Rate()),
		Sources: map[string]string{
			from: conversion.FromSource.String(),
			to:   conversion.ToSource.String(),
		},
		Degraded:    conversion.Degraded(),
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	})
}

// handlePrices responds with USD prices for a comma separated ids list
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	raw := splitParamLowercase(getParamLowercase(r, "ids"))
	if len(raw) == 0 || len(raw) > maxPriceIDs {
		s.sendError(w, http.StatusBadRequest, "Invalid query parameters. Expected ids.")
		return
	}

	ids := make([]string, 0, len(raw))
	for _, value := range raw {
		id, ok := sanitizeID(value)
		if !ok {
			s.sendError(w, http.StatusBadRequest, "Invalid coin id: "+value)
			return
		}
		ids = append(ids, id)
	}

	result, err := s.pricesService.ResolvePrices(r.Context(), ids)
	if err != nil {
		if errors.Is(err, interfaces.ErrInvalidIdentifier) {
			s.sendError(w, http.StatusBadRequest, "Invalid query parameters. Expected ids.")
			return
		}
		s.internalError(w, r, "prices", err)
		return
	}

	response := pricesResponse{
		Success:  true,
		Data:     result.Prices,
		Sources:  make(map[string]string, len(result.Sources)),
		Missing:  []string{},
		Degraded: result.Degraded(),
	}
	for id, source := range result.Sources {
		response.Sources[id] = source.String()
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := result.Prices[id]; ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		response.Missing = append(response.Missing, id)
	}

	s.setCacheStatusHeader(w, result.CacheStatus.String())
	s.sendJSONResponse(w, response)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	log.Printf("Server: %s failed (request %s): %v", handler, r.Header.Get(HeaderRequestID), err)
	s.sendError(w, http.StatusInternalServerError, "Internal server error")
}

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/status-im/crypto-converter/interfaces"
)

type coinsResponse struct {
	Success  bool              `json:"success"`
	Data     []interfaces.Coin `json:"data"`
	Source   string            `json:"source"`
	Degraded bool              `json:"degraded"`
}

type trendResponse struct {
	Success     bool                    `json:"success"`
	Data        []interfaces.TrendPoint `json:"data"`
	Source      string                  `json:"source"`
	Degraded    bool                    `json:"degraded"`
	LastUpdated string                  `json:"lastUpdated"`
}

// handleCoins responds with the coin catalog
func (s *Server) handleCoins(w http.ResponseWriter, r *http.Request) {
	list := s.coinsService.ListCoins(r.Context())

	// Records without an id or a name are never useful to clients
	coins := make([]interfaces.Coin, 0, len(list.Coins))
	for _, coin := range list.Coins {
		if coin.ID == "" || coin.Name == "" {
			continue
		}
		coins = append(coins, coin)
	}

	s.sendJSONResponse(w, coinsResponse{
		Success:  true,
		Data:     coins,
		Source:   list.Source.String(),
		Degraded: list.Source.Degraded(),
	})
}

// handleTrend responds with the recent hourly series for one coin
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	id, ok := sanitizeID(r.URL.Query().Get("coin"))
	if !ok {
		s.sendError(w, http.StatusBadRequest, "Invalid coin id.")
		return
	}

	series, err := s.trendService.GetTrend(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrInvalidIdentifier) {
			s.sendError(w, http.StatusBadRequest, "Invalid coin id.")
			return
		}
		s.internalError(w, r, "trend", err)
		return
	}

	s.sendJSONResponse(w, trendResponse{
		Success:     true,
		Data:        series.Points,
		Source:      series.Source.String(),
		Degraded:    series.Source.Degraded(),
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	})
}

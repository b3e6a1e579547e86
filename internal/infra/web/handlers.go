package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"telegram-voucher-bot/internal/usecase"
)

type loginRequest struct {
	APIKey string `json:"api_key"`
}

// loginHandler swaps the configured admin API key for a short-lived JWT.
func (s *Server) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("Admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.APIKey != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		token, err := s.auth.Mint()
		if err != nil {
			s.log.Error().Err(err).Msg("failed to mint admin token")
			http.Error(w, "Failed to mint token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
	}
}

// statsHandler serves the aggregate snapshot as JSON.
func statsHandler(statsUC usecase.StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := statsUC.Totals(r.Context())
		if err != nil {
			http.Error(w, "Failed to get totals", http.StatusInternalServerError)
			return
		}

		response := struct {
			Issued    int `json:"vouchers_issued"`
			Remaining int `json:"remaining_supply"`
			Bonus     int `json:"remaining_bonus_supply"`
			Claims    int `json:"claims"`
			BonusWins int `json:"bonus_wins"`
		}{
			Issued:    t.Issued,
			Remaining: t.Remaining,
			Bonus:     t.Bonus,
			Claims:    t.Claims,
			BonusWins: t.BonusWins,
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}
}

// winnersHandler lists recent bonus winners. ?n= caps the list size.
func winnersHandler(statsUC usecase.StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(r.URL.Query().Get("n"))
		winners, err := statsUC.RecentWinners(r.Context(), n)
		if err != nil {
			http.Error(w, "Failed to get winners", http.StatusInternalServerError)
			return
		}

		type winnerDTO struct {
			TelegramID int64  `json:"telegram_id"`
			Username   string `json:"username"`
			BonusSats  int64  `json:"bonus_sats"`
			ClaimedAt  string `json:"claimed_at"`
		}
		out := make([]winnerDTO, 0, len(winners))
		for _, rec := range winners {
			amount := int64(0)
			if rec.BonusAmount != nil {
				amount = *rec.BonusAmount
			}
			out = append(out, winnerDTO{
				TelegramID: rec.TelegramID,
				Username:   rec.Username,
				BonusSats:  amount,
				ClaimedAt:  rec.ClaimedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// refillHandler force-mints a normal voucher batch.
func refillHandler(poolUC usecase.PoolUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := poolUC.MintBatch(r.Context(), false)
		if err != nil {
			http.Error(w, "Refill failed", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"imported": n})
	}
}

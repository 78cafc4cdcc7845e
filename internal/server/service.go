package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/quantfield/fpml-trades/internal/database"
)

type TradeService struct {
	DBManager database.DBManager
}

func NewTradeService(dbManager database.DBManager) *TradeService {
	return &TradeService{DBManager: dbManager}
}

// GetTrades returns every stored trade row matching the trade id in the
// URL path. A trade id may match multiple rows when both sides of a trade
// were ingested.
func (h *TradeService) GetTrades(w http.ResponseWriter, r *http.Request) {
	tradeID := strings.TrimPrefix(r.URL.Path, "/trades/")
	if tradeID == "" {
		http.Error(w, "Trade id is required in the URL path /trades/{tradeID}", http.StatusBadRequest)
		return
	}

	trades, err := h.DBManager.GetTradesByTradeID(tradeID)
	if err != nil {
		http.Error(w, "Failed to retrieve trades", http.StatusInternalServerError)
		return
	}
	if len(trades) == 0 {
		http.Error(w, "No trades found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(trades); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

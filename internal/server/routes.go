package server

import (
	"net/http"
)

func SetupRoutes(tradeService *TradeService) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/trades/", tradeService.GetTrades)

	return mux
}

package relay

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler exposes the relay's HTTP surface: one endpoint that mints
// payment-sheet credentials and a liveness probe.
type Handler struct {
	minter SheetMinter
}

func NewHandler(minter SheetMinter) *Handler {
	return &Handler{minter: minter}
}

// Routes builds the relay router. The mobile client calls it from anywhere,
// so CORS allows all origins.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(corsMiddleware)

	r.Post("/payment-sheet", h.PaymentSheet)
	r.Get("/health", h.Health)

	return r
}

type paymentSheetRequestDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) PaymentSheet(w http.ResponseWriter, r *http.Request) {
	var req paymentSheetRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid amount")
		return
	}
	if req.Currency == "" {
		req.Currency = "usd"
	}

	params, err := h.minter.MintPaymentSheet(r.Context(), req.Amount, req.Currency)
	if err != nil {
		// Upstream rejections are relayed as client errors, not retried here.
		log.Printf("payment sheet mint failed: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, params)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"stripe": "connected",
	})
}

// corsMiddleware permits all origins and answers OPTIONS preflights with an
// empty 200, matching what the mobile client expects.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

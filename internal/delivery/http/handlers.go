package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/websocket"

	"github.com/beaconlabs/pairlink/internal/config"
	"github.com/beaconlabs/pairlink/internal/delivery/ws"
	"github.com/beaconlabs/pairlink/internal/domain"
	"github.com/beaconlabs/pairlink/internal/middleware"
	"github.com/beaconlabs/pairlink/internal/usecase"
)

// roomIDPattern bounds the externally supplied room id. Longer ids are
// rejected before any WebSocket upgrade happens.
var roomIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// isOriginAllowed checks if the origin is in the allowed list
func isOriginAllowed(origin string) bool {
	// Empty origin is allowed (same-origin requests)
	if origin == "" {
		return true
	}
	for _, allowed := range config.AppConfig.AllowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return isOriginAllowed(r.Header.Get("Origin"))
	},
}

// Handler wires the relay and pairing registry to the HTTP surface.
type Handler struct {
	rooms *ws.RoomManager
	pairs *usecase.PairingRegistry
}

func NewHandler(rooms *ws.RoomManager, pairs *usecase.PairingRegistry) *Handler {
	return &Handler{
		rooms: rooms,
		pairs: pairs,
	}
}

// RegisterRoutes mounts all endpoints on mux, with per-IP rate limiting on
// the mutating and upgrade paths.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	apiLimiter := middleware.NewIPRateLimiter(config.AppConfig.RateLimitAPI, 2*int(config.AppConfig.RateLimitAPI))
	wsLimiter := middleware.NewIPRateLimiter(config.AppConfig.RateLimitWS, 2*int(config.AppConfig.RateLimitWS))

	mux.HandleFunc("GET /room/{roomId}", middleware.RateLimitFunc(wsLimiter, h.HandleRoom))
	mux.HandleFunc("POST /pair", middleware.RateLimitFunc(apiLimiter, h.HandlePairRegister))
	mux.HandleFunc("GET /pair/{code}", h.HandlePairLookup)
	mux.HandleFunc("OPTIONS /pair", h.HandleOptions)
	mux.HandleFunc("OPTIONS /pair/{code}", h.HandleOptions)
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /stats", h.HandleStats)
	mux.HandleFunc("/", h.HandleRoot)
}

// writeJSON writes a JSON response. Every response carries the permissive
// CORS header; trust comes from TLS and out-of-band code distribution, not
// from origin checks.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// HandleRoom validates the room id and upgrades the connection into the
// room's relay.
func (h *Handler) HandleRoom(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	if !roomIDPattern.MatchString(roomID) {
		writeError(w, http.StatusBadRequest, "Invalid room ID")
		return
	}
	if !websocket.IsWebSocketUpgrade(r) {
		writeError(w, http.StatusUpgradeRequired, "Expected WebSocket upgrade")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		return
	}

	client := h.rooms.Join(roomID, conn)

	go client.WritePump()
	go client.ReadPump()
}

// HandlePairRegister validates and stores a pairing code registration.
func (h *Handler) HandlePairRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string          `json:"code"`
		Info json.RawMessage `json:"info"`
		TTL  float64         `json:"ttl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !isValidPairCode(req.Code) {
		writeError(w, http.StatusBadRequest, "Invalid code")
		return
	}

	var info domain.PairingInfo
	if len(req.Info) == 0 || json.Unmarshal(req.Info, &info) != nil {
		writeError(w, http.StatusBadRequest, "Invalid info")
		return
	}
	if field := info.MissingField(); field != "" {
		writeError(w, http.StatusBadRequest, "Missing or invalid field: "+field)
		return
	}

	ttl := time.Duration(req.TTL * float64(time.Second))
	h.pairs.Register(req.Code, req.Info, ttl)

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandlePairLookup returns the info stored under a code. Absent and expired
// codes both map to 404, distinguished only by the body.
func (h *Handler) HandlePairLookup(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	info, err := h.pairs.Lookup(code)
	switch {
	case errors.Is(err, usecase.ErrExpired):
		writeError(w, http.StatusNotFound, "Expired")
	case err != nil:
		writeError(w, http.StatusNotFound, "Not found")
	default:
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(info)
	}
}

// HandleOptions answers CORS preflight requests.
func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusOK)
}

// HandleHealth is the liveness probe.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleStats reports live room and pairing entry counts.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{
		"rooms":    h.rooms.RoomCount(),
		"pairings": h.pairs.Len(),
	})
}

// HandleRoot serves the health probe at "/" and a JSON 404 everywhere else.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" && r.Method == http.MethodGet {
		h.HandleHealth(w, r)
		return
	}
	writeError(w, http.StatusNotFound, "Not found")
}

// isValidPairCode accepts 3-20 printable ASCII characters.
func isValidPairCode(code string) bool {
	if len(code) < domain.MinPairCodeLength || len(code) > domain.MaxPairCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 0x20 || code[i] > 0x7e {
			return false
		}
	}
	return true
}

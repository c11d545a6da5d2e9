package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"caro-game/internal/agent"
	"caro-game/internal/audit"
	"caro-game/internal/game"
	"caro-game/internal/middleware"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
)

var errBoardFull = errors.New("board is full")

const (
	defaultDecisionLimit = 20
	maxDecisionLimit     = 200
)

// AIHandler answers move requests with the engine.
type AIHandler struct {
	engines  sync.Pool
	cache    *lru.Cache
	recorder audit.Recorder
}

// NewAIHandler creates a handler whose engines use opts. Responses for
// identical requests are remembered in an LRU cache of cacheSize entries;
// a size of zero disables it.
func NewAIHandler(opts agent.Options, cacheSize int, recorder audit.Recorder) (*AIHandler, error) {
	h := &AIHandler{recorder: recorder}
	h.engines.New = func() interface{} { return agent.New(opts) }

	if cacheSize > 0 {
		cache, err := lru.New(cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create response cache: %w", err)
		}
		h.cache = cache
	}
	if h.recorder == nil {
		h.recorder = audit.NopRecorder{}
	}
	return h, nil
}

type MoveRequest struct {
	RequestID  string           `json:"requestId,omitempty"`
	Board      [][]int          `json:"board"`
	Player     int              `json:"player"`
	Difficulty agent.Difficulty `json:"difficulty"`
}

type MoveResponse struct {
	RequestID string `json:"requestId"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Stage     string `json:"stage"`
	Score     int    `json:"score"`
	Depth     int    `json:"depth"`
	Nodes     int64  `json:"nodes"`
	Cached    bool   `json:"cached"`
	ElapsedMs int64  `json:"elapsedMs"`
}

type DifficultyInfo struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// Move handles POST /api/ai/move.
func (h *AIHandler) Move(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestIDFromContext(r.Context())

	var req MoveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error(), RequestID: requestID})
		return
	}
	if requestID != "" {
		req.RequestID = requestID
	}

	resp, err := h.decide(req, audit.TransportHTTP)
	if err != nil {
		respondWithJSON(w, statusFor(err), ErrorResponse{Error: err.Error(), RequestID: req.RequestID})
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// Difficulties handles GET /api/ai/difficulties.
func (h *AIHandler) Difficulties(w http.ResponseWriter, r *http.Request) {
	out := make([]DifficultyInfo, 0, len(agent.Difficulties))
	for _, d := range agent.Difficulties {
		out = append(out, DifficultyInfo{Name: d.String(), Level: int(d)})
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"difficulties": out})
}

// RecentDecisions handles GET /api/ai/decisions?limit=N.
func (h *AIHandler) RecentDecisions(w http.ResponseWriter, r *http.Request) {
	limit := defaultDecisionLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxDecisionLimit)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	decisions, err := h.recorder.Recent(ctx, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to read decision log")
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch decisions")
		return
	}
	if decisions == nil {
		decisions = []audit.Decision{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"decisions": decisions})
}

// decide validates req, runs (or recalls) the engine and logs the decision.
func (h *AIHandler) decide(req MoveRequest, transport string) (MoveResponse, error) {
	b, err := game.FromGrid(req.Board)
	if err != nil {
		return MoveResponse{}, err
	}
	player, err := game.ParsePlayer(req.Player)
	if err != nil {
		return MoveResponse{}, err
	}
	// Numeric levels bypass UnmarshalText.
	if !req.Difficulty.Valid() {
		return MoveResponse{}, fmt.Errorf("%w %d", agent.ErrDifficulty, int(req.Difficulty))
	}
	if b.IsFull() {
		return MoveResponse{}, errBoardFull
	}

	start := time.Now()
	key := cacheKey(b, player, req.Difficulty)
	resp, ok := h.cached(key)
	if ok {
		resp.Cached = true
	} else {
		engine := h.engines.Get().(*agent.Engine)
		d := engine.Decide(b, player, req.Difficulty)
		h.engines.Put(engine)

		resp = MoveResponse{
			X:     d.Move.X,
			Y:     d.Move.Y,
			Stage: string(d.Stage),
			Score: d.Score,
			Depth: d.Depth,
			Nodes: d.Nodes,
		}
		if h.cache != nil {
			h.cache.Add(key, resp)
		}
	}
	resp.RequestID = req.RequestID
	resp.ElapsedMs = time.Since(start).Milliseconds()

	audit.LogDecision(h.recorder, audit.Decision{
		RequestID:  req.RequestID,
		Transport:  transport,
		Difficulty: req.Difficulty.String(),
		Player:     int(player),
		Stones:     b.Stones(),
		X:          resp.X,
		Y:          resp.Y,
		Stage:      resp.Stage,
		Score:      resp.Score,
		Depth:      resp.Depth,
		Nodes:      resp.Nodes,
		Cached:     resp.Cached,
		ElapsedMs:  resp.ElapsedMs,
	})

	log.Debug().
		Str("requestId", req.RequestID).
		Str("difficulty", req.Difficulty.String()).
		Bool("cached", resp.Cached).
		Msg("move answered")
	return resp, nil
}

func (h *AIHandler) cached(key string) (MoveResponse, bool) {
	if h.cache == nil {
		return MoveResponse{}, false
	}
	v, ok := h.cache.Get(key)
	if !ok {
		return MoveResponse{}, false
	}
	return v.(MoveResponse), true
}

func cacheKey(b *game.Board, player game.Cell, level agent.Difficulty) string {
	return fmt.Sprintf("%s|%d|%s", b.String(), player, level)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBoardFull):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrBoardShape), errors.Is(err, game.ErrCellValue), errors.Is(err, game.ErrPlayer),
		errors.Is(err, agent.ErrDifficulty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

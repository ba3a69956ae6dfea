package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	"github.com/zatekoja/chikitsamitra/internal/infrastructure/observability"
)

// MsgContactReceived acknowledges a contact message
const MsgContactReceived = "Message sent successfully! We will get back to you soon."

const (
	contactRateLimit   = 5
	contactRateWindow  = time.Hour
	contactDedupWindow = 24 * time.Hour
)

// ContactHandler acknowledges contact form messages. Messages are logged,
// not delivered anywhere.
type ContactHandler struct {
	cache    providers.CacheProvider
	guard    *contactGuard
	proxies  []netip.Prefix
	validate *validator.Validate
}

// ContactOption configures a ContactHandler
type ContactOption func(*ContactHandler)

// WithTrustedProxies lists the networks whose forwarding headers are
// believed. Requests from anywhere else are keyed by their peer address.
func WithTrustedProxies(prefixes ...netip.Prefix) ContactOption {
	return func(h *ContactHandler) {
		h.proxies = append(h.proxies, prefixes...)
	}
}

// NewContactHandler creates a new contact handler. A nil cache keeps the
// rate limit and duplicate window in process memory.
func NewContactHandler(cache providers.CacheProvider, opts ...ContactOption) *ContactHandler {
	h := &ContactHandler{
		cache:    cache,
		guard:    newContactGuard(time.Now),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=200"`
	Message string `json:"message" validate:"required,max=2000"`
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "name, a valid email and a message are required")
		return
	}

	ip := h.clientIP(r)
	allowed, retryAfter := h.allowRequest(r.Context(), "contact:rate:"+ip)
	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	if !h.isDuplicate(r.Context(), "contact:dup:"+contactFingerprint(req, ip)) {
		observability.LoggerFromContext(r.Context()).Info().
			Str("name", req.Name).
			Str("email", req.Email).
			Int("length", len(req.Message)).
			Msg("contact message received")
	}

	respondWithJSON(w, http.StatusAccepted, messageResponse{Message: MsgContactReceived})
}

func (h *ContactHandler) allowRequest(ctx context.Context, key string) (bool, time.Duration) {
	if h.cache == nil {
		return h.guard.allow(key)
	}

	state := rateLimitState{}
	if data, err := h.cache.Get(ctx, key); err == nil {
		_ = json.Unmarshal(data, &state)
	}

	if state.Count >= contactRateLimit {
		return false, contactRateWindow
	}

	state.Count++
	data, _ := json.Marshal(state)
	_ = h.cache.Set(ctx, key, data, int(contactRateWindow.Seconds()))
	return true, contactRateWindow
}

type rateLimitState struct {
	Count int `json:"count"`
}

func (h *ContactHandler) isDuplicate(ctx context.Context, key string) bool {
	if h.cache == nil {
		return h.guard.duplicate(key)
	}

	if _, err := h.cache.Get(ctx, key); err == nil {
		return true
	}

	_ = h.cache.Set(ctx, key, []byte("1"), int(contactDedupWindow.Seconds()))
	return false
}

// clientIP is the peer address, or the originating address from the
// forwarding headers when the peer is a trusted proxy. X-Forwarded-For is
// read right to left and the first untrusted hop wins.
func (h *ContactHandler) clientIP(r *http.Request) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}
	addr, err := netip.ParseAddr(peer)
	if err != nil || !h.trusted(addr) {
		return peer
	}

	if forwarded := strings.Join(r.Header.Values("X-Forwarded-For"), ","); forwarded != "" {
		hops := strings.Split(forwarded, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				return peer
			}
			if !h.trusted(hop) || i == 0 {
				return hop.Unmap().String()
			}
		}
	}
	if realIP, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return realIP.Unmap().String()
	}
	return peer
}

func (h *ContactHandler) trusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range h.proxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func contactFingerprint(req contactRequest, ip string) string {
	normalized := []string{
		strings.ToLower(req.Name),
		strings.ToLower(req.Email),
		strings.Join(strings.Fields(strings.ToLower(req.Message)), " "),
		ip,
	}
	hash := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(hash[:])
}

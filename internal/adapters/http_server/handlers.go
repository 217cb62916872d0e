package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"stayhub/internal/app"
	"stayhub/internal/auth"
	"stayhub/internal/domain"
)

type Handlers struct {
	Users    *app.UserService
	Hotels   *app.HotelService
	Rooms    *app.RoomService
	Avail    *app.AvailabilityService
	Bookings *app.BookingService

	// Store backs the per-request authorization lookups (caller role,
	// resource ownership); all writes go through the services above.
	Store  domain.Store
	Issuer *auth.Issuer
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	// public
	s.mux.Post("/v1/users", h.register)
	s.mux.Post("/v1/auth/login", h.login)
	s.mux.Post("/v1/auth/refresh", h.refresh)
	s.mux.Get("/v1/hotels", h.listHotels)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	s.mux.Get("/v1/hotels/{id}/availability", h.getAvailability)

	// bearer token required
	s.mux.Group(func(m chi.Router) {
		m.Use(Auth(h.Issuer))
		m.Post("/v1/users/{id}/manager", h.makeManager)
		m.Post("/v1/users/{id}/block", h.setBlocked)
		m.Post("/v1/hotels", h.addHotel)
		m.Put("/v1/hotels/{id}", h.updateHotel)
		m.Delete("/v1/hotels/{id}", h.deleteHotel)
		m.Post("/v1/hotels/{id}/rooms", h.addRoom)
		m.Put("/v1/rooms/{id}", h.updateRoom)
		m.Delete("/v1/rooms/{id}", h.deleteRoom)
		m.Post("/v1/bookings", h.addBooking)
		m.Delete("/v1/bookings/{id}", h.cancelBooking)
		m.Post("/v1/bookings/{id}/pay", h.confirmPayment)
		m.Get("/v1/users/{id}/bookings", h.listUserBookings)
	})
}

// ---- shared plumbing ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// respondErr translates the domain error kinds onto HTTP statuses.
func respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrInvalid):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return false
	}
	return true
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// caller loads the authenticated user for role/ownership checks.
func (h *Handlers) caller(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	id := callerID(r.Context())
	if id == "" {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
		return domain.User{}, false
	}
	u, err := h.Store.GetUser(r.Context(), id)
	if err != nil {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "unknown account")
		return domain.User{}, false
	}
	if u.IsBlocked {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "account is blocked")
		return domain.User{}, false
	}
	return u, true
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// ---- users & auth ----

type registerReq struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	DOB      string `json:"dob,omitempty"` // YYYY-MM-DD
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if !decode(w, r, &req) {
		return
	}
	var dob time.Time
	if req.DOB != "" {
		d, err := parseDate(req.DOB)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Request", "dob must be YYYY-MM-DD")
			return
		}
		dob = d
	}
	u, err := h.Users.Register(r.Context(), app.RegisterInput{
		Name: req.Name, Username: req.Username, Email: req.Email,
		Password: req.Password, DOB: dob,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResp struct {
	User           domain.User `json:"user"`
	AccessToken    string      `json:"access_token"`
	RefreshToken   string      `json:"refresh_token"`
	AccessExpires  time.Time   `json:"access_expires"`
	RefreshExpires time.Time   `json:"refresh_expires"`
}

func toSessionResp(s app.Session) sessionResp {
	return sessionResp{
		User:           s.User,
		AccessToken:    s.Tokens.Access,
		RefreshToken:   s.Tokens.Refresh,
		AccessExpires:  s.Tokens.AccessExpires,
		RefreshExpires: s.Tokens.RefreshExpires,
	}
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decode(w, r, &req) {
		return
	}
	sess, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResp(sess))
}

func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !decode(w, r, &req) {
		return
	}
	sess, err := h.Users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResp(sess))
}

func (h *Handlers) makeManager(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	if !u.IsAdmin {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "admin role required")
		return
	}
	out, err := h.Users.MakeManager(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) setBlocked(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	if !u.IsAdmin {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "admin role required")
		return
	}
	var req struct {
		Blocked bool `json:"blocked"`
	}
	if !decode(w, r, &req) {
		return
	}
	out, err := h.Users.SetBlocked(r.Context(), chi.URLParam(r, "id"), req.Blocked)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/app"
	"stayhub/internal/domain"
)

type bookingReq struct {
	HotelID     string `json:"hotel_id"`
	RoomID      string `json:"room_id"`
	From        string `json:"from"` // YYYY-MM-DD
	To          string `json:"to"`
	RoomNumbers []int  `json:"room_numbers"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	Amount      int64  `json:"amount"`
}

func (h *Handlers) addBooking(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req bookingReq
	if !decode(w, r, &req) {
		return
	}
	from, err := parseDate(req.From)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "from must be YYYY-MM-DD")
		return
	}
	to, err := parseDate(req.To)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "to must be YYYY-MM-DD")
		return
	}
	b, err := h.Bookings.Create(r.Context(), app.CreateBookingInput{
		HotelID:     req.HotelID,
		RoomID:      req.RoomID,
		UserID:      u.ID,
		From:        from,
		To:          to,
		RoomNumbers: req.RoomNumbers,
		People:      domain.People{Adults: req.Adults, Children: req.Children},
		Amount:      req.Amount,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			observability.ObserveBooking("conflict")
		}
		respondErr(w, err)
		return
	}
	observability.ObserveBooking("created")
	writeJSON(w, http.StatusCreated, b)
}

// mayTouchBooking loads the booking and checks the caller owns it (or is admin).
func (h *Handlers) mayTouchBooking(w http.ResponseWriter, r *http.Request, u domain.User, id string) (domain.Booking, bool) {
	b, err := h.Store.GetBooking(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return domain.Booking{}, false
	}
	if !u.IsAdmin && b.UserID != u.ID {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "not your booking")
		return domain.Booking{}, false
	}
	return b, true
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if _, ok := h.mayTouchBooking(w, r, u, id); !ok {
		return
	}
	b, err := h.Bookings.Cancel(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	observability.ObserveBooking("cancelled")
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) confirmPayment(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if _, ok := h.mayTouchBooking(w, r, u, id); !ok {
		return
	}
	var req struct {
		Source string `json:"source"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Source == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "source is required")
		return
	}
	b, err := h.Bookings.ConfirmPayment(r.Context(), id, req.Source)
	if err != nil {
		respondErr(w, err)
		return
	}
	observability.ObserveBooking("paid")
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) listUserBookings(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if !u.IsAdmin && id != u.ID {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "not your bookings")
		return
	}
	out, err := h.Bookings.ListForUser(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	if out == nil {
		out = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, out)
}

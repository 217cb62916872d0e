package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

// ---- hotels ----

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	var q domain.HotelsQuery
	if s := r.URL.Query().Get("q"); s != "" {
		q.Q = &s
	}
	if s := r.URL.Query().Get("location"); s != "" {
		q.Location = &s
	}
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		q.Limit = l
	}
	page, err := h.Hotels.List(r.Context(), q)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Hotels.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}

	etag, body := calcETagAndBody(hotel)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type hotelReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Image       string `json:"image"`
	Ratings     *int   `json:"ratings,omitempty"`
	TotalRooms  int    `json:"total_rooms"`
}

func (h *Handlers) addHotel(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req hotelReq
	if !decode(w, r, &req) {
		return
	}
	hotel, err := h.Hotels.Add(r.Context(), app.AddHotelInput{
		Name: req.Name, Description: req.Description, Location: req.Location,
		Image: req.Image, TotalRooms: req.TotalRooms, ManagerID: u.ID,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, hotel)
}

// mayManageHotel loads the hotel and checks the caller runs it (or is admin).
func (h *Handlers) mayManageHotel(w http.ResponseWriter, r *http.Request, u domain.User, hotelID string) (domain.Hotel, bool) {
	hotel, err := h.Store.GetHotel(r.Context(), hotelID)
	if err != nil {
		respondErr(w, err)
		return domain.Hotel{}, false
	}
	if !u.IsAdmin && hotel.ManagerID != u.ID {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "not the manager of this hotel")
		return domain.Hotel{}, false
	}
	return hotel, true
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if _, ok := h.mayManageHotel(w, r, u, id); !ok {
		return
	}
	var req hotelReq
	if !decode(w, r, &req) {
		return
	}
	hotel, err := h.Hotels.Update(r.Context(), app.UpdateHotelInput{
		ID: id, Name: req.Name, Description: req.Description, Location: req.Location,
		Image: req.Image, Ratings: req.Ratings, TotalRooms: req.TotalRooms,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if _, ok := h.mayManageHotel(w, r, u, id); !ok {
		return
	}
	hotel, err := h.Hotels.Delete(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}

// ---- availability ----

func (h *Handlers) getAvailability(w http.ResponseWriter, r *http.Request) {
	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "from must be YYYY-MM-DD")
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "to must be YYYY-MM-DD")
		return
	}
	rng, err := domain.NewDateRange(from, to)
	if err != nil {
		respondErr(w, err)
		return
	}
	occupancy := 0
	if os := r.URL.Query().Get("occupancy"); os != "" {
		occupancy, err = strconv.Atoi(os)
		if err != nil || occupancy < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid Request", "occupancy must be a non-negative integer")
			return
		}
	}
	out, err := h.Avail.FindAvailable(r.Context(), chi.URLParam(r, "id"), rng, occupancy)
	if err != nil {
		respondErr(w, err)
		return
	}
	if out == nil {
		out = []domain.RoomAvailability{}
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- rooms ----

type roomReq struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Occupancy   int      `json:"occupancy"`
	Price       int64    `json:"price"`
	Others      []string `json:"others,omitempty"`
	RoomNumbers []int    `json:"room_numbers"`
}

func (h *Handlers) addRoom(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	hotelID := chi.URLParam(r, "id")
	if _, ok := h.mayManageHotel(w, r, u, hotelID); !ok {
		return
	}
	var req roomReq
	if !decode(w, r, &req) {
		return
	}
	room, err := h.Rooms.Add(r.Context(), app.AddRoomInput{
		HotelID: hotelID, Name: req.Name, Description: req.Description,
		Occupancy: req.Occupancy, Price: req.Price, Others: req.Others,
		RoomNumbers: req.RoomNumbers,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// mayManageRoom resolves the room's hotel and applies the manager check.
func (h *Handlers) mayManageRoom(w http.ResponseWriter, r *http.Request, u domain.User, roomID string) (domain.Room, bool) {
	room, err := h.Store.GetRoom(r.Context(), roomID)
	if err != nil {
		respondErr(w, err)
		return domain.Room{}, false
	}
	if _, ok := h.mayManageHotel(w, r, u, room.HotelID); !ok {
		return domain.Room{}, false
	}
	return room, true
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if _, ok := h.mayManageRoom(w, r, u, id); !ok {
		return
	}
	var req roomReq
	if !decode(w, r, &req) {
		return
	}
	room, err := h.Rooms.Update(r.Context(), app.UpdateRoomInput{
		ID: id, Name: req.Name, Description: req.Description,
		Occupancy: req.Occupancy, Price: req.Price, Others: req.Others,
		RoomNumbers: req.RoomNumbers,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if _, ok := h.mayManageRoom(w, r, u, id); !ok {
		return
	}
	room, err := h.Rooms.Delete(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hemstay/internal/bookings/service"
	"hemstay/pkg/auth"
	apperrors "hemstay/pkg/errors"
	httputil "hemstay/pkg/http"
	"hemstay/pkg/logger"
	"hemstay/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const dateLayout = "2006-01-02"

type createBookingRequest struct {
	PropertyID string `json:"property_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}

type modifyBookingRequest struct {
	CheckIn  *string `json:"check_in,omitempty"`
	CheckOut *string `json:"check_out,omitempty"`
}

type BookingHandler struct {
	service service.BookingService
	auth    *auth.Manager
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, authManager *auth.Manager, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		auth:    authManager,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	checkIn, err := parseDate(req.CheckIn, "check_in")
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}
	checkOut, err := parseDate(req.CheckOut, "check_out")
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	booking := &model.Booking{
		PropertyID: req.PropertyID,
		UserID:     auth.UserIDFromContext(r.Context()),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	}

	if err := h.service.Admit(r.Context(), booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	booking, err := h.service.GetByID(r.Context(), id, auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) GetMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetMine", err)
		return
	}

	bookings, total, err := h.service.GetByUser(r.Context(), auth.UserIDFromContext(r.Context()), limit, offset)
	if err != nil {
		h.writeError(w, "GetMine", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetMine", "error", err)
	}
}

func (h *BookingHandler) Modify(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req modifyBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Modify", apperrors.InvalidInput("Invalid request body"))
		return
	}

	updates := &model.BookingUpdate{}
	if req.CheckIn != nil {
		checkIn, err := parseDate(*req.CheckIn, "check_in")
		if err != nil {
			h.writeError(w, "Modify", err)
			return
		}
		updates.CheckIn = &checkIn
	}
	if req.CheckOut != nil {
		checkOut, err := parseDate(*req.CheckOut, "check_out")
		if err != nil {
			h.writeError(w, "Modify", err)
			return
		}
		updates.CheckOut = &checkOut
	}

	booking, err := h.service.Modify(r.Context(), id, auth.UserIDFromContext(r.Context()), updates)
	if err != nil {
		h.writeError(w, "Modify", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Modify", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Cancel(r.Context(), id, auth.UserIDFromContext(r.Context())); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	httputil.WriteNoContent(w)
}

// Availability reports whether a property has bookings intersecting an
// optional date range. Public: listings show booked state to everyone.
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	propertyID := query.Get("property_id")
	if propertyID == "" {
		h.writeError(w, "Availability", apperrors.InvalidInput("'property_id' query parameter is required"))
		return
	}

	var from, to *time.Time
	if fromStr := query.Get("from"); fromStr != "" {
		parsed, err := parseDate(fromStr, "from")
		if err != nil {
			h.writeError(w, "Availability", err)
			return
		}
		from = &parsed
	}
	if toStr := query.Get("to"); toStr != "" {
		parsed, err := parseDate(toStr, "to")
		if err != nil {
			h.writeError(w, "Availability", err)
			return
		}
		to = &parsed
	}

	booked, err := h.service.IsBooked(r.Context(), propertyID, from, to)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]bool{"is_booked": booked}); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", auth.Require(h.auth, h.log, h.Create))
	router.GET("/api/v1/bookings", auth.Require(h.auth, h.log, h.GetMine))
	router.GET("/api/v1/bookings/id/:id", auth.Require(h.auth, h.log, h.GetByID))
	router.PATCH("/api/v1/bookings/id/:id", auth.Require(h.auth, h.log, h.Modify))
	router.DELETE("/api/v1/bookings/id/:id", auth.Require(h.auth, h.log, h.Cancel))
	router.GET("/api/v1/bookings/availability", h.Availability)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func parseDate(value, field string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field))
	}
	return parsed, nil
}

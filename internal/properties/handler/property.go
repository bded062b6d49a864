package handler

import (
	"encoding/json"
	"net/http"

	"hemstay/internal/properties/service"
	"hemstay/pkg/auth"
	apperrors "hemstay/pkg/errors"
	httputil "hemstay/pkg/http"
	"hemstay/pkg/logger"
	"hemstay/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type createPropertyRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Location      string  `json:"location"`
	PricePerNight float64 `json:"price_per_night"`
	Availability  *bool   `json:"availability,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
}

type PropertyHandler struct {
	service service.PropertyService
	auth    *auth.Manager
	log     *logger.Logger
}

func NewPropertyHandler(service service.PropertyService, authManager *auth.Manager, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		auth:    authManager,
		log:     log,
	}
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	// New listings are discoverable unless the owner opts out.
	availability := true
	if req.Availability != nil {
		availability = *req.Availability
	}

	property := &model.Property{
		OwnerID:       auth.UserIDFromContext(r.Context()),
		Name:          req.Name,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
		Availability:  availability,
		ImageURL:      req.ImageURL,
	}

	if err := h.service.Create(r.Context(), property); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, property); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *PropertyHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	property, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, property); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *PropertyHandler) ListBookable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListBookable", err)
		return
	}

	properties, total, err := h.service.ListBookable(r.Context(), auth.UserIDFromContext(r.Context()), limit, offset)
	if err != nil {
		h.writeError(w, "ListBookable", err)
		return
	}

	if err := httputil.WritePaginated(w, properties, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListBookable", "error", err)
	}
}

func (h *PropertyHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	properties, total, err := h.service.ListMine(r.Context(), auth.UserIDFromContext(r.Context()), limit, offset)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	if err := httputil.WritePaginated(w, properties, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListMine", "error", err)
	}
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.PropertyUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	property, err := h.service.Update(r.Context(), ps.ByName("id"), auth.UserIDFromContext(r.Context()), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, property); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id"), auth.UserIDFromContext(r.Context())); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *PropertyHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/properties", auth.Require(h.auth, h.log, h.Create))
	router.GET("/api/v1/properties", auth.Require(h.auth, h.log, h.ListBookable))
	router.GET("/api/v1/properties/mine", auth.Require(h.auth, h.log, h.ListMine))
	router.GET("/api/v1/properties/id/:id", h.GetByID)
	router.PATCH("/api/v1/properties/id/:id", auth.Require(h.auth, h.log, h.Update))
	router.DELETE("/api/v1/properties/id/:id", auth.Require(h.auth, h.log, h.Delete))
}

func (h *PropertyHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

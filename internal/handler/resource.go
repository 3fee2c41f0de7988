package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/inventory-api/internal/lifecycle"
)

// idPattern restricts {id} path segments to decimal digits.
const idPattern = "{id:[0-9]+}"

// errInvalidBody is reported when a request body cannot be decoded.
var errInvalidBody = errors.New("invalid request body")

// resourceHandler serves the CRUD routes of one resource kind.
type resourceHandler[R lifecycle.Resource[R]] struct {
	ctrl     *lifecycle.Controller[R]
	codec    codec
	basePath string
	logger   *zap.Logger

	// decode reads a resource from the request body.
	decode func(r *http.Request) (R, error)
	// listBody wraps a listing for encoding.
	listBody func(items []R) any
}

// register adds the per-item routes and, unless skipList is set, the listing route.
func (h *resourceHandler[R]) register(router *mux.Router, skipList bool) {
	if !skipList {
		router.HandleFunc(h.basePath, h.list).Methods(http.MethodGet)
	}
	router.HandleFunc(h.basePath, h.create).Methods(http.MethodPost)
	router.HandleFunc(h.basePath+"/"+idPattern, h.get).Methods(http.MethodGet)
	router.HandleFunc(h.basePath+"/"+idPattern, h.replace).Methods(http.MethodPut)
	router.HandleFunc(h.basePath+"/"+idPattern, h.delete).Methods(http.MethodDelete)
}

func (h *resourceHandler[R]) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.ctrl.List(r.Context())
	if err != nil {
		h.handleError(w, err, lifecycle.OpList)
		return
	}

	h.writeList(w, items)
}

func (h *resourceHandler[R]) writeList(w http.ResponseWriter, items []R) {
	writeBody(w, h.logger, h.codec, http.StatusOK, h.listBody(items))
}

func (h *resourceHandler[R]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	item, err := h.ctrl.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, err, lifecycle.OpGet)
		return
	}

	writeBody(w, h.logger, h.codec, http.StatusOK, item)
}

func (h *resourceHandler[R]) create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.readBody(w, r)
	if !ok {
		return
	}

	id, err := h.ctrl.Create(r.Context(), input)
	if err != nil {
		h.handleError(w, err, lifecycle.OpCreate)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%d", h.basePath, id))
	w.WriteHeader(http.StatusCreated)
}

func (h *resourceHandler[R]) replace(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	input, ok := h.readBody(w, r)
	if !ok {
		return
	}

	if err := h.ctrl.Replace(r.Context(), id, input); err != nil {
		h.handleError(w, err, lifecycle.OpReplace)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *resourceHandler[R]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.ctrl.Delete(r.Context(), id); err != nil {
		h.handleError(w, err, lifecycle.OpDelete)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} route variable, writing a 400 response on failure.
func (h *resourceHandler[R]) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := mux.Vars(r)["id"]

	id, err := strconv.Atoi(raw)
	if err != nil {
		h.logger.Warn("invalid path id", zap.String("id", raw), zap.Error(err))
		writeError(w, h.logger, h.codec, http.StatusBadRequest, fmt.Sprintf("invalid %s ID", h.ctrl.Kind()))
		return 0, false
	}

	return id, true
}

// readBody decodes the request body, writing an error response on failure.
func (h *resourceHandler[R]) readBody(w http.ResponseWriter, r *http.Request) (R, bool) {
	input, err := h.decode(r)
	if err == nil {
		return input, true
	}

	h.logger.Warn("invalid request body", zap.String("kind", h.ctrl.Kind()), zap.Error(err))

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, h.logger, h.codec, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, errInvalidBody):
		writeError(w, h.logger, h.codec, http.StatusBadRequest, err.Error())
	default:
		writeError(w, h.logger, h.codec, http.StatusBadRequest, errInvalidBody.Error())
	}

	var zero R
	return zero, false
}

// handleError writes the response for a failed lifecycle operation.
func (h *resourceHandler[R]) handleError(w http.ResponseWriter, err error, operation string) {
	status := StatusFor(err, http.StatusOK)

	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		h.logger.Warn("request rejected",
			zap.String("kind", h.ctrl.Kind()),
			zap.String("operation", operation),
			zap.Int("status", status),
			zap.Error(err),
		)
		writeError(w, h.logger, h.codec, status, err.Error())
	default:
		h.logger.Error("lifecycle operation failed",
			zap.String("kind", h.ctrl.Kind()),
			zap.String("operation", operation),
			zap.Error(err),
		)
		writeError(w, h.logger, h.codec, http.StatusInternalServerError, "internal server error")
	}
}

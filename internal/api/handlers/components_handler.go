package handlers

import (
	"net/http"

	"github.com/archstudio/engine/internal/api/types"
	"github.com/archstudio/engine/internal/services"
)

// ComponentsHandler serves component CRUD and the nested entry point routes.
type ComponentsHandler struct {
	svc services.ModelService
}

func NewComponentsHandler(svc services.ModelService) *ComponentsHandler {
	return &ComponentsHandler{svc: svc}
}

func (h *ComponentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	items, err := h.svc.ListComponents(r.Context(), projectID, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (h *ComponentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	var req types.ComponentRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.svc.CreateComponent(r.Context(), projectID, ownerID, &services.ComponentInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, c)
}

func (h *ComponentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	componentID, ok := pathID(w, r, "componentID")
	if !ok {
		return
	}
	c, err := h.svc.GetComponent(r.Context(), projectID, ownerID, componentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *ComponentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	componentID, ok := pathID(w, r, "componentID")
	if !ok {
		return
	}
	var req types.ComponentRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.svc.UpdateComponent(r.Context(), projectID, ownerID, componentID, &services.ComponentInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *ComponentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	componentID, ok := pathID(w, r, "componentID")
	if !ok {
		return
	}
	if err := h.svc.DeleteComponent(r.Context(), projectID, ownerID, componentID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ComponentsHandler) CreateEntryPoint(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	componentID, ok := pathID(w, r, "componentID")
	if !ok {
		return
	}
	var req types.EntryPointRequest
	if !decode(w, r, &req) {
		return
	}
	ep, err := h.svc.CreateEntryPoint(r.Context(), projectID, ownerID, componentID, &services.EntryPointInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Request:     req.Request,
		Response:    req.Response,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, ep)
}

func (h *ComponentsHandler) UpdateEntryPoint(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	componentID, ok := pathID(w, r, "componentID")
	if !ok {
		return
	}
	entryPointID, ok := pathID(w, r, "entryPointID")
	if !ok {
		return
	}
	var req types.EntryPointRequest
	if !decode(w, r, &req) {
		return
	}
	ep, err := h.svc.UpdateEntryPoint(r.Context(), projectID, ownerID, componentID, entryPointID, &services.EntryPointInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Request:     req.Request,
		Response:    req.Response,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, ep)
}

func (h *ComponentsHandler) DeleteEntryPoint(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	componentID, ok := pathID(w, r, "componentID")
	if !ok {
		return
	}
	entryPointID, ok := pathID(w, r, "entryPointID")
	if !ok {
		return
	}
	if err := h.svc.DeleteEntryPoint(r.Context(), projectID, ownerID, componentID, entryPointID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/archstudio/engine/internal/api/types"
	"github.com/archstudio/engine/internal/engine/constraint"
	"github.com/archstudio/engine/internal/models"
	"github.com/archstudio/engine/internal/services"
)

// DataModelsHandler serves data model CRUD, attribute tree edits, constraint
// authoring, and the regex pattern builder.
type DataModelsHandler struct {
	svc services.ModelService
}

func NewDataModelsHandler(svc services.ModelService) *DataModelsHandler {
	return &DataModelsHandler{svc: svc}
}

func (h *DataModelsHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	items, err := h.svc.ListDataModels(r.Context(), projectID, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (h *DataModelsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	var req types.DataModelRequest
	if !decode(w, r, &req) {
		return
	}
	dm, err := h.svc.CreateDataModel(r.Context(), projectID, ownerID, &services.DataModelInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, dm)
}

func (h *DataModelsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	dataModelID, ok := pathID(w, r, "dataModelID")
	if !ok {
		return
	}
	dm, err := h.svc.GetDataModel(r.Context(), projectID, ownerID, dataModelID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, dm)
}

func (h *DataModelsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	dataModelID, ok := pathID(w, r, "dataModelID")
	if !ok {
		return
	}
	var req types.DataModelRequest
	if !decode(w, r, &req) {
		return
	}
	dm, err := h.svc.UpdateDataModel(r.Context(), projectID, ownerID, dataModelID, &services.DataModelInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, dm)
}

func (h *DataModelsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	dataModelID, ok := pathID(w, r, "dataModelID")
	if !ok {
		return
	}
	if err := h.svc.DeleteDataModel(r.Context(), projectID, ownerID, dataModelID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DataModelsHandler) AddAttribute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	dataModelID, ok := pathID(w, r, "dataModelID")
	if !ok {
		return
	}
	var req types.AttributeRequest
	if !decode(w, r, &req) {
		return
	}
	attr, err := h.svc.AddAttribute(r.Context(), projectID, ownerID, dataModelID, req.ParentLocalID, &services.AttributeInput{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Flags:       req.Flags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, attr)
}

func (h *DataModelsHandler) UpdateAttribute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	dataModelID, ok := pathID(w, r, "dataModelID")
	if !ok {
		return
	}
	var req types.AttributeRequest
	if !decode(w, r, &req) {
		return
	}
	attr, err := h.svc.UpdateAttribute(r.Context(), projectID, ownerID, dataModelID, chi.URLParam(r, "localID"), &services.AttributeInput{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Flags:       req.Flags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, attr)
}

func (h *DataModelsHandler) RemoveAttribute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	dataModelID, ok := pathID(w, r, "dataModelID")
	if !ok {
		return
	}
	if err := h.svc.RemoveAttribute(r.Context(), projectID, ownerID, dataModelID, chi.URLParam(r, "localID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DataModelsHandler) AddConstraint(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	dataModelID, ok := pathID(w, r, "dataModelID")
	if !ok {
		return
	}
	var req types.ConstraintRequest
	if !decode(w, r, &req) {
		return
	}
	c := models.Constraint{Kind: req.Kind, Value: req.Value, Values: req.Values}
	if req.Kind == models.KindEnum && req.Raw != "" {
		c.Values = constraint.ParseEnumValues(req.Raw)
	}
	attr, err := h.svc.AddConstraint(r.Context(), projectID, ownerID, dataModelID, chi.URLParam(r, "localID"), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, attr)
}

func (h *DataModelsHandler) RemoveConstraint(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	dataModelID, ok := pathID(w, r, "dataModelID")
	if !ok {
		return
	}
	kind := models.ConstraintKind(chi.URLParam(r, "kind"))
	if err := h.svc.RemoveConstraint(r.Context(), projectID, ownerID, dataModelID, chi.URLParam(r, "localID"), kind); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BuildPattern assembles a regex constraint value from character classes and
// a length mode. Pure computation, nothing is persisted.
func (h *DataModelsHandler) BuildPattern(w http.ResponseWriter, r *http.Request) {
	var req types.PatternRequest
	if !decode(w, r, &req) {
		return
	}
	pattern, err := constraint.PatternBuilder{
		AlphaLowercase: req.AlphaLowercase,
		AlphaUppercase: req.AlphaUppercase,
		Numeric:        req.Numeric,
		Hexadecimal:    req.Hexadecimal,
		Printable:      req.Printable,
		LengthMode:     req.LengthMode,
		LengthExact:    req.LengthExact,
		LengthMin:      req.LengthMin,
		LengthMax:      req.LengthMax,
	}.Build()
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"pattern": pattern})
}

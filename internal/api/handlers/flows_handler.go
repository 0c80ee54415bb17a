package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/archstudio/engine/internal/api/types"
	"github.com/archstudio/engine/internal/services"
)

// FlowsHandler serves flow CRUD plus the advisory validation route.
type FlowsHandler struct {
	svc services.FlowService
}

func NewFlowsHandler(svc services.FlowService) *FlowsHandler {
	return &FlowsHandler{svc: svc}
}

func flowInput(req *types.FlowRequest) *services.FlowInput {
	in := &services.FlowInput{
		Name:           req.Name,
		Description:    req.Description,
		Tags:           req.Tags,
		SystemScopeIDs: req.SystemScopeIDs,
		Steps:          make([]services.StepInput, len(req.Steps)),
	}
	for i, st := range req.Steps {
		in.Steps[i] = services.StepInput{
			ID:               st.ID,
			Name:             st.Name,
			Description:      st.Description,
			Tags:             st.Tags,
			SourceSystemID:   st.SourceSystemID,
			TargetSystemID:   st.TargetSystemID,
			AlternateFlowIDs: st.AlternateFlowIDs,
		}
	}
	return in
}

func (h *FlowsHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	flows, err := h.svc.ListFlows(r.Context(), projectID, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, flows)
}

func (h *FlowsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	var req types.FlowRequest
	if !decode(w, r, &req) {
		return
	}
	flow, err := h.svc.CreateFlow(r.Context(), projectID, ownerID, flowInput(&req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, flow)
}

func (h *FlowsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	flowID, ok := pathID(w, r, "flowID")
	if !ok {
		return
	}
	flow, err := h.svc.GetFlow(r.Context(), projectID, ownerID, flowID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, flow)
}

func (h *FlowsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	flowID, ok := pathID(w, r, "flowID")
	if !ok {
		return
	}
	var req types.FlowRequest
	if !decode(w, r, &req) {
		return
	}
	flow, err := h.svc.UpdateFlow(r.Context(), projectID, ownerID, flowID, flowInput(&req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, flow)
}

func (h *FlowsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	flowID, ok := pathID(w, r, "flowID")
	if !ok {
		return
	}
	if err := h.svc.DeleteFlow(r.Context(), projectID, ownerID, flowID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Validate runs the flow validator without persisting anything. The optional
// flow_id query parameter identifies the flow being edited, so its own
// existing id counts as valid for alternate references.
func (h *FlowsHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	// no struct validation here: the point of this route is returning the
	// collected problems for an incomplete draft
	var req types.FlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	flowID := uuid.Nil
	if raw := r.URL.Query().Get("flow_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeErrorStr(w, http.StatusBadRequest, "invalid flow_id")
			return
		}
		flowID = id
	}
	res, err := h.svc.ValidateFlow(r.Context(), projectID, ownerID, flowInput(&req), flowID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

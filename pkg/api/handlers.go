package api

import (
	"encoding/json"
	"net/http"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"rds-provider/internal/domain/rds"
	"rds-provider/internal/ports"
	"rds-provider/pkg/config"
)

// Provider metadata
const (
	ProviderID          = "rds"
	ProviderName        = "RDS"
	ProviderDescription = "Amazon Relational Database Service (RDS) database server provider"
)

// Handlers contém os handlers da API
type Handlers struct {
	provider ports.RDSProviderUseCase
	config   *ServerConfig
}

// NewHandlers cria uma nova instância de handlers
func NewHandlers(provider ports.RDSProviderUseCase, config *ServerConfig) *Handlers {
	return &Handlers{
		provider: provider,
		config:   config,
	}
}

// Health retorna o status de saúde da API
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Version:   h.config.Version,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, NewSuccessResponse(resp))
}

// Metadata describes the provider and its configuration options.
func (h *Handlers) Metadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NewSuccessResponse(MetadataResponse{
		ID:                 ProviderID,
		Name:               ProviderName,
		Description:        ProviderDescription,
		ProviderProperties: config.ProviderProperties,
		TemplateProperties: config.TemplateProperties,

		SupportedDatabaseTypes: config.EnginesByDatabaseType(),
	}))
}

// CreateTemplate validates a template and returns it normalized.
func (h *Handlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req TemplateRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, NewErrorResponse("INVALID_REQUEST", "Invalid request body", err.Error()))
		return
	}

	template, ok := h.template(w, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NewSuccessResponse(ToTemplateResponse(template)))
}

// Allocate creates one DB instance per requested ID.
func (h *Handlers) Allocate(w http.ResponseWriter, r *http.Request) {
	var req AllocateRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, NewErrorResponse("INVALID_REQUEST", "Invalid request body", err.Error()))
		return
	}

	template, ok := h.template(w, req.Template)
	if !ok {
		return
	}

	if err := h.provider.Allocate(r.Context(), template, req.IDs, req.MinCount); err != nil {
		writeJSON(w, http.StatusBadGateway, NewErrorResponse("ALLOCATE_FAILED", "Failed to allocate DB instances", err.Error()))
		return
	}
	writeJSON(w, http.StatusAccepted, NewSuccessResponse(operationResponse(r, template, req.IDs)))
}

// Find returns the DB instances that exist for the requested IDs.
func (h *Handlers) Find(w http.ResponseWriter, r *http.Request) {
	var req InstancesRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, NewErrorResponse("INVALID_REQUEST", "Invalid request body", err.Error()))
		return
	}

	template, ok := h.template(w, req.Template)
	if !ok {
		return
	}

	instances, err := h.provider.Find(r.Context(), template, req.IDs)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, NewErrorResponse("FIND_FAILED", "Failed to find DB instances", err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, NewSuccessResponse(ToFindResponse(instances)))
}

// Delete deletes the DB instances for the requested IDs.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	var req InstancesRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, NewErrorResponse("INVALID_REQUEST", "Invalid request body", err.Error()))
		return
	}

	template, ok := h.template(w, req.Template)
	if !ok {
		return
	}

	if err := h.provider.Delete(r.Context(), template, req.IDs); err != nil {
		writeJSON(w, http.StatusBadGateway, NewErrorResponse("DELETE_FAILED", "Failed to delete DB instances", err.Error()))
		return
	}
	writeJSON(w, http.StatusAccepted, NewSuccessResponse(operationResponse(r, template, req.IDs)))
}

// State returns the lifecycle state of every requested ID.
func (h *Handlers) State(w http.ResponseWriter, r *http.Request) {
	var req InstancesRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, NewErrorResponse("INVALID_REQUEST", "Invalid request body", err.Error()))
		return
	}

	template, ok := h.template(w, req.Template)
	if !ok {
		return
	}

	states, err := h.provider.GetInstanceState(r.Context(), template, req.IDs)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, NewErrorResponse("STATE_FAILED", "Failed to get DB instance states", err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, NewSuccessResponse(StateResponse{States: states}))
}

// template builds the template of a request, writing a 422 response when it is invalid.
func (h *Handlers) template(w http.ResponseWriter, req TemplateRequest) (*rds.InstanceTemplate, bool) {
	template, err := h.provider.CreateTemplate(req.Name, config.Configured(req.Configuration), req.Tags)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, NewErrorResponse("INVALID_TEMPLATE", "Invalid instance template", err.Error()))
		return nil, false
	}
	return template, true
}

// ---- Helper Functions ----

func operationResponse(r *http.Request, template *rds.InstanceTemplate, ids []string) OperationResponse {
	return OperationResponse{
		Template:  template.Name,
		Requested: len(ids),
		Completed: r.Context().Err() == nil,
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Log.Error(err, "Failed to encode response")
	}
}

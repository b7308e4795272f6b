package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"rds-provider/internal/domain/rds"
	"rds-provider/pkg/config"
)

var validate = validator.New()

// decode reads a JSON body into v and validates it.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// ---- Request DTOs ----

// TemplateRequest describes an instance template by its configuration values.
type TemplateRequest struct {
	Name          string            `json:"name" validate:"required,max=255"`
	Tags          map[string]string `json:"tags,omitempty" validate:"omitempty,dive,keys,required,max=128,endkeys,max=256"`
	Configuration map[string]string `json:"configuration" validate:"required"`
}

// InstancesRequest targets a set of virtual instance IDs created from a template.
type InstancesRequest struct {
	Template TemplateRequest `json:"template"`
	IDs      []string        `json:"ids" validate:"omitempty,dive,required,max=63"`
}

// AllocateRequest asks for instances to be created.
type AllocateRequest struct {
	InstancesRequest
	MinCount int `json:"minCount" validate:"gte=0"`
}

// ---- Response DTOs ----

// APIResponse é a resposta padrão da API
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError representa um erro da API
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// TemplateResponse is a validated template. The admin password is never returned.
type TemplateResponse struct {
	Name                string            `json:"name"`
	Tags                map[string]string `json:"tags,omitempty"`
	Engine              string            `json:"engine"`
	EngineVersion       string            `json:"engineVersion,omitempty"`
	InstanceClass       string            `json:"instanceClass"`
	AllocatedStorage    int32             `json:"allocatedStorage"`
	DBSubnetGroupName   string            `json:"dbSubnetGroupName"`
	VpcSecurityGroupIDs []string          `json:"vpcSecurityGroupIds"`
	AdminUsername       string            `json:"adminUsername"`
	SkipFinalSnapshot   bool              `json:"skipFinalSnapshot"`
}

// OperationResponse reports an allocate or delete. Completed is false when the
// request was cancelled before every ID was submitted.
type OperationResponse struct {
	Template  string `json:"template"`
	Requested int    `json:"requested"`
	Completed bool   `json:"completed"`
}

// InstanceResponse is one found instance.
type InstanceResponse struct {
	ID         string            `json:"id"`
	State      rds.InstanceState `json:"state"`
	Properties map[string]string `json:"properties"`
}

// FindResponse lists the instances found.
type FindResponse struct {
	Instances []InstanceResponse `json:"instances"`
	Count     int                `json:"count"`
}

// StateResponse maps every requested ID to its lifecycle state.
type StateResponse struct {
	States map[string]rds.InstanceState `json:"states"`
}

// HealthResponse representa o status de saúde
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// MetadataResponse describes the provider and its configuration options.
// SupportedDatabaseTypes maps each database type to its engines.
type MetadataResponse struct {
	ID                     string              `json:"id"`
	Name                   string              `json:"name"`
	Description            string              `json:"description"`
	ProviderProperties     []config.Property   `json:"providerProperties"`
	TemplateProperties     []config.Property   `json:"templateProperties"`
	SupportedDatabaseTypes map[string][]string `json:"supportedDatabaseTypes"`
}

// ---- Helper Functions ----

// NewSuccessResponse cria uma resposta de sucesso
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse cria uma resposta de erro
func NewErrorResponse(code, message, details string) APIResponse {
	return APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// ToTemplateResponse converts a template for output.
func ToTemplateResponse(t *rds.InstanceTemplate) TemplateResponse {
	resp := TemplateResponse{
		Name:                t.Name,
		Tags:                t.Tags,
		Engine:              t.Engine,
		InstanceClass:       t.InstanceClass,
		AllocatedStorage:    t.AllocatedStorage,
		DBSubnetGroupName:   t.DBSubnetGroupName,
		VpcSecurityGroupIDs: t.VpcSecurityGroupIDs,
		AdminUsername:       t.AdminUsername,
		SkipFinalSnapshot:   t.ShouldSkipFinalSnapshot(),
	}
	if t.EngineVersion != nil {
		resp.EngineVersion = *t.EngineVersion
	}
	return resp
}

// ToFindResponse converts found instances for output.
func ToFindResponse(instances []*rds.Instance) FindResponse {
	resp := FindResponse{
		Instances: make([]InstanceResponse, 0, len(instances)),
		Count:     len(instances),
	}
	for _, instance := range instances {
		resp.Instances = append(resp.Instances, InstanceResponse{
			ID:         instance.VirtualInstanceID,
			State:      instance.State(),
			Properties: instance.DisplayProperties(),
		})
	}
	return resp
}

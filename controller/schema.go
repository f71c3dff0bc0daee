package controller

import (
	"net/http"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/transparentprocure/oversight-service/exception"
	"github.com/transparentprocure/oversight-service/view"
)

type SchemaController interface {
	ListSchemas(w http.ResponseWriter, r *http.Request)
	GetSchema(w http.ResponseWriter, r *http.Request)
}

// Canonical records served by the gateway, one field-naming scheme for all of them.
var canonicalSchemas = map[string]func() *jsonschema.Schema{
	"tender":     GenerateSchema[view.Tender],
	"tenderRow":  GenerateSchema[view.TenderRow],
	"contractor": GenerateSchema[view.ContractorRow],
	"post":       GenerateSchema[view.Post],
	"fraudAlert": GenerateSchema[view.FraudAlert],
	"audit":      GenerateSchema[view.Audit],
	"dashboard":  GenerateSchema[view.DashboardView],
	"session":    GenerateSchema[view.Session],
}

func NewSchemaController() SchemaController {
	schemas := make(map[string]*jsonschema.Schema, len(canonicalSchemas))
	for name, generate := range canonicalSchemas {
		schemas[name] = generate()
	}
	return &schemaControllerImpl{schemas: schemas}
}

type schemaControllerImpl struct {
	schemas map[string]*jsonschema.Schema
}

func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

func (s schemaControllerImpl) ListSchemas(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.schemas))
	for name := range s.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	respondWithJson(w, http.StatusOK, names)
}

func (s schemaControllerImpl) GetSchema(w http.ResponseWriter, r *http.Request) {
	entity := getStringParam(r, "entity")
	schema, exists := s.schemas[entity]
	if !exists {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.UnknownSchema,
			Message: exception.UnknownSchemaMsg,
			Params:  map[string]interface{}{"entity": entity},
		})
		return
	}
	respondWithJson(w, http.StatusOK, schema)
}

// Package swagger derives an OpenAPI 2.0 document from the typed route
// registry by reflecting over handler signatures.
package swagger

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-openapi/spec"
	"github.com/swaggo/swag"

	"github.com/platform-smith-labs/orgapi/handler"
)

// SwaggerInfo holds the general Swagger information
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Organization API",
	Description:      "CRUD service for organizations backed by PostgreSQL",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

// docTemplate is the base OpenAPI template
const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {},
    "definitions": {},
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "JWT token with 'Bearer ' prefix"
        }
    }
}`

// GenerateSpec creates an OpenAPI spec from the registry's routes using reflection
func GenerateSpec(registry *handler.Registry) *spec.Swagger {
	swagger := &spec.Swagger{
		SwaggerProps: spec.SwaggerProps{
			Swagger: "2.0",
			Info: &spec.Info{
				InfoProps: spec.InfoProps{
					Title:       SwaggerInfo.Title,
					Description: SwaggerInfo.Description,
					Version:     SwaggerInfo.Version,
				},
			},
			Host:        SwaggerInfo.Host,
			BasePath:    SwaggerInfo.BasePath,
			Schemes:     SwaggerInfo.Schemes,
			Paths:       &spec.Paths{Paths: make(map[string]spec.PathItem)},
			Definitions: make(map[string]spec.Schema),
			SecurityDefinitions: map[string]*spec.SecurityScheme{
				"BearerAuth": {
					SecuritySchemeProps: spec.SecuritySchemeProps{
						Type:        "apiKey",
						Name:        "Authorization",
						In:          "header",
						Description: "JWT token with 'Bearer ' prefix",
					},
				},
			},
		},
	}

	routes := registry.GetRoutes()

	// Group routes by path so multiple HTTP methods share one PathItem
	routesByPath := make(map[string][]handler.PendingRoute)
	for _, route := range routes {
		routesByPath[route.Path] = append(routesByPath[route.Path], route)
	}

	for path, pathRoutes := range routesByPath {
		pathItem := generatePathItem(pathRoutes, swagger)
		if pathItem != nil {
			swagger.Paths.Paths[path] = *pathItem
		}
	}

	return swagger
}

// GenerateJSON returns the OpenAPI spec as JSON
func GenerateJSON(registry *handler.Registry) ([]byte, error) {
	return json.MarshalIndent(GenerateSpec(registry), "", "  ")
}

// generatePathItem creates a PathItem from the routes sharing one path
func generatePathItem(routes []handler.PendingRoute, swagger *spec.Swagger) *spec.PathItem {
	pathItem := &spec.PathItem{}

	for _, route := range routes {
		operation := generateOperation(route, swagger)
		if operation == nil {
			continue
		}

		switch strings.ToUpper(route.Method) {
		case "GET":
			pathItem.Get = operation
		case "POST":
			pathItem.Post = operation
		case "PUT":
			pathItem.Put = operation
		case "DELETE":
			pathItem.Delete = operation
		case "PATCH":
			pathItem.Patch = operation
		case "HEAD":
			pathItem.Head = operation
		case "OPTIONS":
			pathItem.Options = operation
		}
	}

	if pathItem.Get == nil && pathItem.Post == nil && pathItem.Put == nil &&
		pathItem.Delete == nil && pathItem.Patch == nil && pathItem.Head == nil && pathItem.Options == nil {
		return nil
	}

	return pathItem
}

// generateOperation creates an Operation from a route using reflection
func generateOperation(route handler.PendingRoute, swagger *spec.Swagger) *spec.Operation {
	operation := &spec.Operation{
		OperationProps: spec.OperationProps{
			Summary:     generateSummary(route),
			Description: route.RouteInfo.Description,
			Tags:        generateTags(route),
			Consumes:    []string{"application/json"},
			Produces:    []string{"application/json"},
			Parameters:  []spec.Parameter{},
			Responses:   &spec.Responses{ResponsesProps: spec.ResponsesProps{StatusCodeResponses: make(map[int]spec.Response)}},
		},
	}

	// Extract type information from the TypedHandler wrapper
	handlerType := reflect.TypeOf(route.Handler)
	if handlerType != nil && handlerType.Kind() == reflect.Struct {
		for i := 0; i < handlerType.NumField(); i++ {
			field := handlerType.Field(i)
			if field.Name == "handler" && field.Type.Kind() == reflect.Func {
				funcType := field.Type
				if funcType.NumIn() > 0 {
					contextType := funcType.In(0)
					if contextType.Kind() == reflect.Struct {
						addParametersFromContext(operation, contextType)
						addRequestBodyFromContext(operation, contextType, swagger)
					}
				}
				if funcType.NumOut() >= 2 {
					addResponseBody(operation, funcType.Out(0), swagger)
				}
				break
			}
		}
	}

	// Mutating routes require a bearer token when auth is configured
	switch strings.ToUpper(route.Method) {
	case "POST", "PUT", "DELETE", "PATCH":
		operation.Security = []map[string][]string{
			{"BearerAuth": []string{}},
		}
	}

	addStandardResponses(operation)

	return operation
}

// addParametersFromContext extracts path/query parameters from the Params
// field of a HandlerContext type
func addParametersFromContext(operation *spec.Operation, contextType reflect.Type) {
	for i := 0; i < contextType.NumField(); i++ {
		field := contextType.Field(i)
		if field.Name == "Params" && field.Type.Kind() == reflect.Struct {
			// Unwrap Nullable[ParamTypeT]
			if field.Type.NumField() > 0 {
				paramField := field.Type.Field(0)
				if paramField.Type.Kind() == reflect.Struct && paramField.Type != reflect.TypeOf(struct{}{}) {
					addParametersFromStruct(operation, paramField.Type)
				}
			}
		}
	}
}

// addRequestBodyFromContext extracts the request body schema from the Body
// field of a HandlerContext type
func addRequestBodyFromContext(operation *spec.Operation, contextType reflect.Type, swagger *spec.Swagger) {
	for i := 0; i < contextType.NumField(); i++ {
		field := contextType.Field(i)
		if field.Name == "Body" && field.Type.Kind() == reflect.Struct {
			// Unwrap Nullable[BodyTypeT]
			if field.Type.NumField() > 0 {
				bodyField := field.Type.Field(0)
				if bodyField.Type.Kind() == reflect.Struct && bodyField.Type != reflect.TypeOf(struct{}{}) {
					addRequestBodyFromStruct(operation, bodyField.Type, swagger)
				}
			}
		}
	}
}

// addResponseBody documents the 200 response from the handler's return type
func addResponseBody(operation *spec.Operation, responseType reflect.Type, swagger *spec.Swagger) {
	if responseType.Kind() == reflect.Struct && responseType != reflect.TypeOf(struct{}{}) {
		schemaName := sanitizeSchemaName(responseType)
		schema := generateSchemaFromStruct(responseType, swagger.Definitions)
		swagger.Definitions[schemaName] = *schema

		operation.Responses.StatusCodeResponses[200] = spec.Response{
			ResponseProps: spec.ResponseProps{
				Description: "Success",
				Schema: &spec.Schema{
					SchemaProps: spec.SchemaProps{
						Ref: spec.MustCreateRef("#/definitions/" + schemaName),
					},
				},
			},
		}
	}
}

// addParametersFromStruct creates parameters from struct fields with param/query tags
func addParametersFromStruct(operation *spec.Operation, structType reflect.Type) {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			addParametersFromStruct(operation, field.Type)
			continue
		}

		if paramTag := field.Tag.Get("param"); paramTag != "" {
			operation.Parameters = append(operation.Parameters, spec.Parameter{
				ParamProps: spec.ParamProps{
					Name:     paramTag,
					In:       "path",
					Required: true,
				},
				SimpleSchema: spec.SimpleSchema{
					Type:   getSwaggerType(field.Type),
					Format: getSwaggerFormat(field.Type),
				},
			})
		}

		if queryTag := field.Tag.Get("query"); queryTag != "" {
			operation.Parameters = append(operation.Parameters, spec.Parameter{
				ParamProps: spec.ParamProps{
					Name:     queryTag,
					In:       "query",
					Required: isRequired(field),
				},
				SimpleSchema: spec.SimpleSchema{
					Type:   getSwaggerType(field.Type),
					Format: getSwaggerFormat(field.Type),
				},
			})
		}
	}
}

// addRequestBodyFromStruct creates request body schema from struct
func addRequestBodyFromStruct(operation *spec.Operation, structType reflect.Type, swagger *spec.Swagger) {
	schemaName := sanitizeSchemaName(structType)
	schema := generateSchemaFromStruct(structType, swagger.Definitions)
	swagger.Definitions[schemaName] = *schema

	operation.Parameters = append(operation.Parameters, spec.Parameter{
		ParamProps: spec.ParamProps{
			Name:        "body",
			In:          "body",
			Required:    true,
			Description: schemaName + " request body",
			Schema: &spec.Schema{
				SchemaProps: spec.SchemaProps{
					Ref: spec.MustCreateRef("#/definitions/" + schemaName),
				},
			},
		},
	})
}

// generateSchemaFromStruct creates a Swagger schema from a Go struct,
// registering nested named structs in definitions
func generateSchemaFromStruct(structType reflect.Type, definitions map[string]spec.Schema) *spec.Schema {
	schema := &spec.Schema{
		SchemaProps: spec.SchemaProps{
			Type:       []string{"object"},
			Properties: make(map[string]spec.Schema),
			Required:   []string{},
		},
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		// Embedded structs without a json tag promote their fields
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			jsonTag := field.Tag.Get("json")
			if jsonTag == "" || jsonTag == "-" {
				embedded := generateSchemaFromStruct(field.Type, definitions)
				for propName, propSchema := range embedded.Properties {
					if _, exists := schema.Properties[propName]; !exists {
						schema.Properties[propName] = propSchema
					}
				}
				schema.Required = append(schema.Required, embedded.Required...)
				continue
			}
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "" || jsonTag == "-" {
			continue
		}

		jsonName := strings.Split(jsonTag, ",")[0]
		if jsonName == "" {
			jsonName = strings.ToLower(field.Name)
		}

		schema.Properties[jsonName] = createPropertySchema(field, definitions)

		if isRequired(field) {
			schema.Required = append(schema.Required, jsonName)
		}
	}

	return schema
}

// createPropertySchema creates a schema for a struct field, handling nested structs
func createPropertySchema(field reflect.StructField, definitions map[string]spec.Schema) spec.Schema {
	fieldType := field.Type

	if fieldType.Kind() == reflect.Pointer {
		fieldType = fieldType.Elem()
	}

	// time.Time and uuid.UUID render as formatted strings, not objects
	if isStringlikeStruct(fieldType) {
		propSchema := spec.Schema{
			SchemaProps: spec.SchemaProps{
				Type:   []string{getSwaggerType(fieldType)},
				Format: getSwaggerFormat(fieldType),
			},
		}
		addValidationConstraints(&propSchema, field)
		return propSchema
	}

	if fieldType.Kind() == reflect.Slice || fieldType.Kind() == reflect.Array {
		elementType := fieldType.Elem()

		var itemSchema spec.Schema
		if elementType.Kind() == reflect.Struct && !isStringlikeStruct(elementType) {
			schemaName := sanitizeSchemaName(elementType)
			if _, exists := definitions[schemaName]; !exists {
				definitions[schemaName] = *generateSchemaFromStruct(elementType, definitions)
			}
			itemSchema = spec.Schema{
				SchemaProps: spec.SchemaProps{
					Ref: spec.MustCreateRef("#/definitions/" + schemaName),
				},
			}
		} else {
			itemSchema = spec.Schema{
				SchemaProps: spec.SchemaProps{
					Type:   []string{getSwaggerType(elementType)},
					Format: getSwaggerFormat(elementType),
				},
			}
		}

		return spec.Schema{
			SchemaProps: spec.SchemaProps{
				Type:  []string{"array"},
				Items: &spec.SchemaOrArray{Schema: &itemSchema},
			},
		}
	}

	if fieldType.Kind() == reflect.Struct {
		schemaName := sanitizeSchemaName(fieldType)
		if schemaName != "" {
			if _, exists := definitions[schemaName]; !exists {
				definitions[schemaName] = *generateSchemaFromStruct(fieldType, definitions)
			}
			return spec.Schema{
				SchemaProps: spec.SchemaProps{
					Ref: spec.MustCreateRef("#/definitions/" + schemaName),
				},
			}
		}
		return *generateSchemaFromStruct(fieldType, definitions)
	}

	propSchema := spec.Schema{
		SchemaProps: spec.SchemaProps{
			Type:   []string{getSwaggerType(fieldType)},
			Format: getSwaggerFormat(fieldType),
		},
	}
	addValidationConstraints(&propSchema, field)

	return propSchema
}

// addValidationConstraints adds validation constraints from struct tags
func addValidationConstraints(schema *spec.Schema, field reflect.StructField) {
	validateTag := field.Tag.Get("validate")
	if validateTag == "" {
		return
	}

	for _, rule := range strings.Split(validateTag, ",") {
		rule = strings.TrimSpace(rule)

		if strings.HasPrefix(rule, "min=") {
			if min, err := strconv.ParseInt(strings.TrimPrefix(rule, "min="), 10, 64); err == nil {
				if getSwaggerType(field.Type) == "string" {
					schema.MinLength = &min
				} else {
					minFloat := float64(min)
					schema.Minimum = &minFloat
				}
			}
		}

		if strings.HasPrefix(rule, "max=") {
			if max, err := strconv.ParseInt(strings.TrimPrefix(rule, "max="), 10, 64); err == nil {
				if getSwaggerType(field.Type) == "string" {
					schema.MaxLength = &max
				} else {
					maxFloat := float64(max)
					schema.Maximum = &maxFloat
				}
			}
		}
	}
}

func generateSummary(route handler.PendingRoute) string {
	if route.RouteInfo.Summary != "" {
		return route.RouteInfo.Summary
	}
	return fmt.Sprintf("%s %s", route.Method, route.Path)
}

func generateTags(route handler.PendingRoute) []string {
	if len(route.RouteInfo.Tags) > 0 {
		return route.RouteInfo.Tags
	}
	return []string{"API"}
}

func isRequired(field reflect.StructField) bool {
	return strings.Contains(field.Tag.Get("validate"), "required")
}

// sanitizeSchemaName produces a definitions key for possibly-generic types;
// instantiated generics like Response[[]models.Organization] carry brackets
// and dots that are stripped here.
func sanitizeSchemaName(t reflect.Type) string {
	name := t.Name()
	replacer := strings.NewReplacer("[", "_", "]", "", ".", "_", "/", "_", "*", "")
	return replacer.Replace(name)
}

// isStringlikeStruct reports whether a struct type serializes to a JSON string
func isStringlikeStruct(t reflect.Type) bool {
	s := t.String()
	return s == "time.Time" || s == "uuid.UUID"
}

func getSwaggerType(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if isStringlikeStruct(t) {
		return "string"
	}
	if t.Kind() == reflect.Struct {
		return "object"
	}

	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Array, reflect.Slice:
		return "array"
	default:
		return "string"
	}
}

func getSwaggerFormat(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int32:
		return "int32"
	case reflect.Int64:
		return "int64"
	case reflect.Float32:
		return "float"
	case reflect.Float64:
		return "double"
	default:
		if t.String() == "time.Time" {
			return "date-time"
		}
		if t.String() == "uuid.UUID" {
			return "uuid"
		}
		return ""
	}
}

func addStandardResponses(operation *spec.Operation) {
	if _, exists := operation.Responses.StatusCodeResponses[200]; !exists {
		operation.Responses.StatusCodeResponses[200] = spec.Response{
			ResponseProps: spec.ResponseProps{
				Description: "Success",
				Schema: &spec.Schema{
					SchemaProps: spec.SchemaProps{
						Type: []string{"object"},
					},
				},
			},
		}
	}

	operation.Responses.StatusCodeResponses[400] = spec.Response{
		ResponseProps: spec.ResponseProps{
			Description: "Bad Request - Validation Error or Conflict",
		},
	}

	operation.Responses.StatusCodeResponses[401] = spec.Response{
		ResponseProps: spec.ResponseProps{
			Description: "Unauthorized - Invalid or Missing JWT",
		},
	}

	operation.Responses.StatusCodeResponses[404] = spec.Response{
		ResponseProps: spec.ResponseProps{
			Description: "Not Found",
		},
	}

	operation.Responses.StatusCodeResponses[500] = spec.Response{
		ResponseProps: spec.ResponseProps{
			Description: "Internal Server Error",
		},
	}
}

package server

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Document describes the HTTP API as an OpenAPI 3 contract. It is built in
// code rather than loaded from a file so the served contract cannot drift
// from the routes without a failing validation test.
func Document() *openapi3.T {
	fileSchema := openapi3.NewObjectSchema().
		WithProperty("path", openapi3.NewStringSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("type", openapi3.NewStringSchema()).
		WithProperty("size", openapi3.NewInt64Schema()).
		WithProperty("lines_of_code", openapi3.NewIntegerSchema()).
		WithProperty("functions", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("imports", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("fingerprint", openapi3.NewStringSchema()).
		WithProperty("todos", openapi3.NewArraySchema().WithItems(openapi3.NewObjectSchema().
			WithProperty("type", openapi3.NewStringSchema()).
			WithProperty("content", openapi3.NewStringSchema()).
			WithProperty("line", openapi3.NewIntegerSchema()))).
		WithProperty("documented_functions", openapi3.NewIntegerSchema())

	edgeSchema := openapi3.NewObjectSchema().
		WithProperty("from", openapi3.NewStringSchema()).
		WithProperty("to", openapi3.NewStringSchema()).
		WithProperty("resolved", openapi3.NewStringSchema()).
		WithProperty("kind", openapi3.NewStringSchema())

	cycleReportSchema := openapi3.NewObjectSchema().
		WithProperty("has_cycles", openapi3.NewBoolSchema()).
		WithProperty("cycles", openapi3.NewArraySchema().WithItems(openapi3.NewObjectSchema().
			WithProperty("members", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
			WithProperty("edges", openapi3.NewArraySchema().WithItems(edgeSchema))))

	duplicateSchema := openapi3.NewObjectSchema().
		WithProperty("fingerprint", openapi3.NewStringSchema()).
		WithProperty("members", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))

	metricsSchema := openapi3.NewObjectSchema().
		WithProperty("total_files", openapi3.NewIntegerSchema()).
		WithProperty("total_lines", openapi3.NewIntegerSchema()).
		WithProperty("total_functions", openapi3.NewIntegerSchema()).
		WithProperty("avg_lines_per_file", openapi3.NewFloat64Schema()).
		WithProperty("languages", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("code_quality", openapi3.NewIntegerSchema()).
		WithProperty("architecture_score", openapi3.NewIntegerSchema()).
		WithProperty("maintainability_index", openapi3.NewIntegerSchema()).
		WithProperty("technical_debt", openapi3.NewIntegerSchema()).
		WithProperty("recommendations", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("risks", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("opportunities", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))

	analysisSchema := openapi3.NewObjectSchema().
		WithProperty("project_path", openapi3.NewStringSchema()).
		WithProperty("session_id", openapi3.NewStringSchema()).
		WithProperty("files", openapi3.NewArraySchema().WithItems(fileSchema)).
		WithProperty("dependencies", openapi3.NewArraySchema().WithItems(edgeSchema)).
		WithProperty("circular_dependencies", cycleReportSchema).
		WithProperty("duplicates", openapi3.NewArraySchema().WithItems(duplicateSchema)).
		WithProperty("metrics", metricsSchema).
		WithProperty("architecture_patterns", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("started_at", openapi3.NewDateTimeSchema()).
		WithProperty("completed_at", openapi3.NewDateTimeSchema())

	progressSchema := openapi3.NewObjectSchema().
		WithProperty("session_id", openapi3.NewStringSchema()).
		WithProperty("files_processed", openapi3.NewIntegerSchema()).
		WithProperty("total_files", openapi3.NewIntegerSchema()).
		WithProperty("percentage", openapi3.NewIntegerSchema()).
		WithProperty("status", openapi3.NewStringSchema().WithEnum("queued", "scanning", "completed", "failed")).
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("duplicate_groups", openapi3.NewIntegerSchema())

	projectSchema := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewInt64Schema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("path", openapi3.NewStringSchema()).
		WithProperty("language", openapi3.NewStringSchema()).
		WithProperty("created_at", openapi3.NewDateTimeSchema()).
		WithProperty("updated_at", openapi3.NewDateTimeSchema())

	errorSchema := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("code", openapi3.NewStringSchema())

	analyzeBody := openapi3.NewObjectSchema().
		WithProperty("path", openapi3.NewStringSchema()).
		WithProperty("include_tests", openapi3.NewBoolSchema()).
		WithProperty("analysis_depth", openapi3.NewStringSchema().WithEnum("shallow", "medium", "deep")).
		WithProperty("session_id", openapi3.NewStringSchema())
	analyzeBody.Required = []string{"path"}

	jsonResponse := func(description string, schema *openapi3.Schema) *openapi3.ResponseRef {
		return &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription(description).WithJSONSchema(schema),
		}
	}

	analyzeOp := &openapi3.Operation{
		OperationID: "analyzeProject",
		Summary:     "Run a full analysis of a project directory",
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(analyzeBody),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, jsonResponse("Completed analysis", analysisSchema)),
			openapi3.WithStatus(404, jsonResponse("Project path not found", errorSchema)),
			openapi3.WithStatus(409, jsonResponse("Session already exists", errorSchema)),
			openapi3.WithStatus(422, jsonResponse("Invalid request", errorSchema)),
		),
	}

	progressOp := &openapi3.Operation{
		OperationID: "streamProgress",
		Summary:     "Stream analysis progress for a session as server-sent events",
		Parameters: openapi3.Parameters{
			&openapi3.ParameterRef{
				Value: openapi3.NewPathParameter("id").WithSchema(openapi3.NewStringSchema()),
			},
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Progress event stream").
					WithContent(openapi3.NewContentWithSchema(progressSchema, []string{"text/event-stream"})),
			}),
			openapi3.WithStatus(404, jsonResponse("Unknown session", errorSchema)),
		),
	}

	projectsOp := &openapi3.Operation{
		OperationID: "listProjects",
		Summary:     "List previously analyzed projects, most recent first",
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, jsonResponse("Stored projects",
				openapi3.NewObjectSchema().
					WithProperty("projects", openapi3.NewArraySchema().WithItems(projectSchema)))),
		),
	}

	healthOp := &openapi3.Operation{
		OperationID: "getHealth",
		Summary:     "Report server liveness",
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, jsonResponse("Server is healthy",
				openapi3.NewObjectSchema().
					WithProperty("status", openapi3.NewStringSchema()).
					WithProperty("timestamp", openapi3.NewDateTimeSchema()).
					WithProperty("memory_mb", openapi3.NewInt64Schema()))),
		),
	}

	openapiOp := &openapi3.Operation{
		OperationID: "getOpenAPI",
		Summary:     "Serve this document",
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, jsonResponse("OpenAPI document", openapi3.NewObjectSchema())),
		),
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "codescope API",
			Description: "Project analysis pipeline: scan, dependency graph, duplicates and metrics.",
			Version:     "1.0.0",
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/api/analyze", &openapi3.PathItem{Post: analyzeOp}),
			openapi3.WithPath("/api/progress/{id}", &openapi3.PathItem{Get: progressOp}),
			openapi3.WithPath("/api/projects", &openapi3.PathItem{Get: projectsOp}),
			openapi3.WithPath("/api/health", &openapi3.PathItem{Get: healthOp}),
			openapi3.WithPath("/openapi.json", &openapi3.PathItem{Get: openapiOp}),
		),
	}
}

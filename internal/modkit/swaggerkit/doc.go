package swaggerkit

import (
	"encoding/json"
	"net/http"
)

// doc is the OpenAPI document served to the UI. It lists the routes and
// the shared envelope, not full request schemas
func doc() map[string]any {
	envelope := map[string]any{"$ref": "#/components/schemas/Envelope"}
	op := func(summary string) map[string]any {
		return map[string]any{
			"summary": summary,
			"responses": map[string]any{
				"default": map[string]any{
					"description": "envelope",
					"content":     map[string]any{"application/json": map[string]any{"schema": envelope}},
				},
			},
		}
	}
	return map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": "Outreach API", "version": "v1"},
		"servers": []any{map[string]any{"url": "/api/v1"}},
		"paths": map[string]any{
			"/meta/health":                       map[string]any{"get": op("liveness")},
			"/meta/ready":                        map[string]any{"get": op("readiness of postgres, redis and storage")},
			"/meta/version":                      map[string]any{"get": op("build info")},
			"/categories":                        map[string]any{"get": op("list categories"), "post": op("create category")},
			"/individuals":                       map[string]any{"get": op("list individuals"), "post": op("save individual")},
			"/individuals/search":                map[string]any{"get": op("filtered search")},
			"/individuals/{id}":                  map[string]any{"get": op("individual profile")},
			"/individuals/{id}/urgency-override": map[string]any{"put": op("set urgency override")},
			"/individuals/{id}/interactions":     map[string]any{"get": op("list interactions")},
			"/search/filters":                    map[string]any{"get": op("filter options")},
			"/photos/upload":                     map[string]any{"post": op("upload photo")},
			"/photos/update/{individual_id}":     map[string]any{"put": op("replace photo")},
			"/transcribe":                        map[string]any{"post": op("transcribe voice note")},
			"/export":                            map[string]any{"get": op("export individuals")},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Envelope": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"status_code": map[string]any{"type": "integer"},
						"status":      map[string]any{"type": "string"},
						"code":        map[string]any{"type": "integer"},
						"error":       map[string]any{"type": "string"},
						"fields":      map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
						"request_id":  map[string]any{"type": "string"},
						"data":        map[string]any{},
						"page":        map[string]any{"type": "object"},
					},
					"required": []any{"status_code", "status"},
				},
			},
			"securitySchemes": map[string]any{
				"bearer": map[string]any{"type": "http", "scheme": "bearer"},
			},
		},
	}
}

func serveDocJSON() http.HandlerFunc {
	body, _ := json.Marshal(doc())
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(body)
	}
}

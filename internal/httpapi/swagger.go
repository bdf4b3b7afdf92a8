package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) swaggerUI(w http.ResponseWriter, _ *http.Request) {
	const page = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Waddl API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/docs/openapi.json',
      dom_id: '#swagger-ui'
    });
  </script>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (h *Handler) swaggerSpec(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, openAPISpec(requestBaseURL(r)))
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); forwarded != "" {
		scheme = strings.Split(forwarded, ",")[0]
		scheme = strings.TrimSpace(scheme)
	}

	host := strings.TrimSpace(r.Host)
	if host == "" {
		host = "localhost:8080"
	}
	return scheme + "://" + host
}

func openAPISpec(serverURL string) map[string]any {
	jsonBody := func(schema map[string]any) map[string]any {
		return map[string]any{
			"required": true,
			"content": map[string]any{
				"application/json": map[string]any{"schema": schema},
			},
		}
	}
	objectOf := func(props map[string]any) map[string]any {
		return map[string]any{"type": "object", "properties": props}
	}
	str := map[string]any{"type": "string"}
	integer := map[string]any{"type": "integer"}
	boolean := map[string]any{"type": "boolean"}
	okResponse := map[string]any{
		"200": map[string]any{"description": "OK"},
	}
	queryParam := func(name string) map[string]any {
		return map[string]any{
			"name":     name,
			"in":       "query",
			"required": true,
			"schema":   str,
		}
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       "Waddl API",
			"version":     "1.0.0",
			"description": "Goal tracking backend where a group stakes a shared virtual pet's health on staying focused.",
		},
		"servers": []map[string]any{
			{"url": serverURL},
		},
		"paths": map[string]any{
			"/healthz": map[string]any{
				"get": map[string]any{
					"summary":   "Liveness probe",
					"responses": okResponse,
				},
			},
			"/api/cv-event": map[string]any{
				"post": map[string]any{
					"summary": "Report a focus-agent observation",
					"requestBody": jsonBody(objectOf(map[string]any{
						"user_id":         str,
						"emotion":         str,
						"focus":           str,
						"thumbs_up":       str,
						"wave":            str,
						"current_tab_url": str,
						"timestamp":       map[string]any{"type": "string", "format": "date-time"},
					})),
					"responses": okResponse,
				},
			},
			"/api/check-url": map[string]any{
				"post": map[string]any{
					"summary": "Classify a visited URL against the user's goals",
					"requestBody": jsonBody(objectOf(map[string]any{
						"url":     str,
						"user_id": str,
						"goals":   map[string]any{"type": "array", "items": str},
					})),
					"responses": okResponse,
				},
			},
			"/api/capture-bet-by-user": map[string]any{
				"post": map[string]any{
					"summary":     "Mark the user's group pet as captured after death",
					"requestBody": jsonBody(objectOf(map[string]any{"user_id": str})),
					"responses":   okResponse,
				},
			},
			"/api/pet": map[string]any{
				"get": map[string]any{
					"summary":    "Pet display state for a group",
					"parameters": []map[string]any{queryParam("group_id")},
					"responses":  okResponse,
				},
			},
			"/api/pet/adjust": map[string]any{
				"post": map[string]any{
					"summary":     "Manually adjust pet health",
					"requestBody": jsonBody(objectOf(map[string]any{"group_id": str, "delta": integer})),
					"responses":   okResponse,
				},
			},
			"/api/pet/reset": map[string]any{
				"post": map[string]any{
					"summary":     "Revive the pet at full health",
					"requestBody": jsonBody(objectOf(map[string]any{"group_id": str})),
					"responses":   okResponse,
				},
			},
			"/api/pet/image": map[string]any{
				"post": map[string]any{
					"summary": "Upload custom pet artwork",
					"requestBody": jsonBody(objectOf(map[string]any{
						"group_id":     str,
						"file_name":    str,
						"image_base64": str,
					})),
					"responses": okResponse,
				},
			},
			"/api/sessions": map[string]any{
				"post": map[string]any{
					"summary": "Start a focus session",
					"requestBody": jsonBody(objectOf(map[string]any{
						"user_id":  str,
						"goal":     str,
						"deadline": map[string]any{"type": "string", "format": "date-time"},
					})),
					"responses": okResponse,
				},
				"get": map[string]any{
					"summary":    "List sessions for a user",
					"parameters": []map[string]any{queryParam("user_id")},
					"responses":  okResponse,
				},
			},
			"/api/sessions/complete": map[string]any{
				"post": map[string]any{
					"summary":     "Complete an active session",
					"requestBody": jsonBody(objectOf(map[string]any{"session_id": str})),
					"responses":   okResponse,
				},
			},
			"/api/sessions/cancel": map[string]any{
				"post": map[string]any{
					"summary":     "Cancel an active session",
					"requestBody": jsonBody(objectOf(map[string]any{"session_id": str})),
					"responses":   okResponse,
				},
			},
			"/api/ticks": map[string]any{
				"post": map[string]any{
					"summary":     "Record an observation about a group member",
					"requestBody": jsonBody(objectOf(map[string]any{"user_id": str, "content": str})),
					"responses":   okResponse,
				},
				"get": map[string]any{
					"summary":    "List recent ticks for a user",
					"parameters": []map[string]any{queryParam("user_id")},
					"responses":  okResponse,
				},
			},
			"/api/roasts": map[string]any{
				"get": map[string]any{
					"summary":    "Roast history for a group, newest first",
					"parameters": []map[string]any{queryParam("group_id")},
					"responses":  okResponse,
				},
			},
			"/api/roasts/stats": map[string]any{
				"get": map[string]any{
					"summary":    "Per-target roast counts for a group",
					"parameters": []map[string]any{queryParam("group_id")},
					"responses":  okResponse,
				},
			},
			"/api/users": map[string]any{
				"post": map[string]any{
					"summary":     "Create a user",
					"requestBody": jsonBody(objectOf(map[string]any{"email": str, "name": str})),
					"responses":   okResponse,
				},
				"get": map[string]any{
					"summary":    "Fetch a user",
					"parameters": []map[string]any{queryParam("id")},
					"responses":  okResponse,
				},
			},
			"/api/groups": map[string]any{
				"post": map[string]any{
					"summary":     "Create a group and its shared pet",
					"requestBody": jsonBody(objectOf(map[string]any{"name": str, "creator_id": str})),
					"responses":   okResponse,
				},
				"get": map[string]any{
					"summary":    "Fetch a group",
					"parameters": []map[string]any{queryParam("id")},
					"responses":  okResponse,
				},
			},
			"/api/groups/join": map[string]any{
				"post": map[string]any{
					"summary":     "Add a user to a group",
					"requestBody": jsonBody(objectOf(map[string]any{"group_id": str, "user_id": str})),
					"responses":   okResponse,
				},
			},
			"/api/groups/roast-level": map[string]any{
				"post": map[string]any{
					"summary":     "Set the group's roast intensity (1-10)",
					"requestBody": jsonBody(objectOf(map[string]any{"group_id": str, "roast_level": integer})),
					"responses":   okResponse,
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Pet": objectOf(map[string]any{
					"id":        str,
					"group_id":  str,
					"health":    integer,
					"dead":      boolean,
					"captured":  boolean,
					"image_url": str,
				}),
				"Error": objectOf(map[string]any{
					"error": str,
				}),
			},
		},
	}
}

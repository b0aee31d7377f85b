package portal

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// formTemplate renders the registered parameters as a plain HTML form.
// Values are masked for keys that look like secrets.
var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.DeviceID}} - provisioning</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
body { font-family: sans-serif; max-width: 28em; margin: 2em auto; padding: 0 1em; }
label { display: block; margin-top: 1em; font-weight: bold; }
input { width: 100%; padding: 0.4em; box-sizing: border-box; }
button { margin-top: 1.5em; padding: 0.5em 2em; }
.saved { color: green; }
</style>
</head>
<body>
<h1>{{.DeviceID}}</h1>
{{if .Saved}}<p class="saved">Settings saved.</p>{{end}}
<form method="POST" action="/save">
{{range .Params}}
<label for="{{.Key}}">{{.Label}}</label>
<input id="{{.Key}}" name="{{.Key}}" value="{{.Value}}"{{if .MaxLength}} maxlength="{{.MaxLength}}"{{end}}{{if .Secret}} type="password"{{end}}>
{{end}}
<button type="submit">Save</button>
</form>
</body>
</html>
`))

// formParam is one rendered form field.
type formParam struct {
	Key       string
	Label     string
	Value     string
	MaxLength int
	Secret    bool
}

// paramView is the JSON shape of one parameter. Secret values are
// never included in responses.
type paramView struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Value     string `json:"value,omitempty"`
	MaxLength int    `json:"max_length,omitempty"`
	Secret    bool   `json:"secret,omitempty"`
}

// buildRouter creates the portal router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	r.Get("/", s.handleForm)
	r.Post("/save", s.handleFormSave)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/params", s.handleListParams)
		r.Post("/params", s.handleSaveParams)
		r.Post("/reset", s.handleReset)
	})

	return r
}

// handleHealth returns the portal health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"device_id": s.deviceID,
		"version":   s.version,
	})
}

// handleForm renders the provisioning form.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.renderForm(w, r.URL.Query().Get("saved") == "1")
}

func (s *Server) renderForm(w http.ResponseWriter, saved bool) {
	stored := s.store.Params()
	fields := make([]formParam, 0, len(stored))
	for _, p := range stored {
		field := formParam{
			Key:       p.Key,
			Label:     p.Label,
			Value:     p.Value,
			MaxLength: p.MaxLength,
			Secret:    isSecretKey(p.Key),
		}
		// Never render stored secrets into page source. An empty
		// submission is ignored by the batched sync, so leaving the
		// field blank does not clear the stored value.
		if field.Secret {
			field.Value = ""
		}
		fields = append(fields, field)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := formTemplate.Execute(w, map[string]any{
		"DeviceID": s.deviceID,
		"Params":   fields,
		"Saved":    saved,
	})
	if err != nil {
		s.logger.Error("rendering provisioning form", "error", err)
	}
}

// handleFormSave applies a browser form submission to the store.
func (s *Server) handleFormSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeBadRequest(w, "malformed form submission")
		return
	}

	values := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		values[key] = r.PostForm.Get(key)
	}

	if s.applyValues(w, values) {
		return
	}

	http.Redirect(w, r, "/?saved=1", http.StatusSeeOther)
}

// handleListParams returns the registered parameters as JSON.
func (s *Server) handleListParams(w http.ResponseWriter, _ *http.Request) {
	stored := s.store.Params()
	views := make([]paramView, 0, len(stored))
	for _, p := range stored {
		view := paramView{
			Key:       p.Key,
			Label:     p.Label,
			MaxLength: p.MaxLength,
			Secret:    isSecretKey(p.Key),
		}
		if !view.Secret {
			view.Value = p.Value
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

// handleSaveParams applies a JSON document of key/value pairs.
func (s *Server) handleSaveParams(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeBadRequest(w, "request body must be a JSON object of strings")
		return
	}

	if s.applyValues(w, values) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"saved": true})
}

// applyValues runs the batched sync and reports failures to the client.
// Returns true when a response has already been written.
func (s *Server) applyValues(w http.ResponseWriter, values map[string]string) bool {
	changed, err := s.store.SyncFromPortal(values)
	if err != nil {
		s.logger.Error("applying provisioned values", "error", err)
		writeInternalError(w, "persisting settings failed")
		return true
	}

	s.logger.Info("provisioning submission applied", "changed", changed)
	return false
}

// handleReset restores every parameter to its default and removes the
// persisted file.
func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	if err := s.store.Reset(); err != nil {
		s.logger.Error("resetting parameters", "error", err)
		writeInternalError(w, "reset failed")
		return
	}

	s.logger.Info("parameters reset to defaults")
	writeJSON(w, http.StatusOK, map[string]any{"reset": true})
}

// isSecretKey reports whether a parameter should be masked in output.
func isSecretKey(key string) bool {
	switch key {
	case "mqtt_pass":
		return true
	}
	return false
}

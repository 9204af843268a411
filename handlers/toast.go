package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
)

type toast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// SetToast queues a client toast through the HX-Trigger header, keeping any
// events already set on it. A short-lived flash_toast cookie carries the same
// toast across full-page redirects, where HX-Trigger is dropped.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	t := toast{Message: message, Type: toastType}

	header, err := withTriggerEvent(e.Response.Header().Get("HX-Trigger"), "showToast", t)
	if err != nil {
		log.Printf("toast: could not build HX-Trigger: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", header)

	if raw, err := json.Marshal(t); err == nil {
		http.SetCookie(e.Response, &http.Cookie{
			Name:     "flash_toast",
			Value:    url.QueryEscape(string(raw)),
			Path:     "/",
			MaxAge:   10,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// withTriggerEvent adds event to an HX-Trigger JSON object. A header that is
// not a JSON object is replaced.
func withTriggerEvent(existing, event string, payload any) (string, error) {
	events := map[string]any{}
	if existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil || events == nil {
			log.Printf("toast: replacing non-JSON HX-Trigger %q", existing)
			events = map[string]any{}
		}
	}
	events[event] = payload
	out, err := json.Marshal(events)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ErrorToast shows an error toast and tells HTMX not to swap the body.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}

package handlers

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
)

// SetToast sets the HX-Trigger response header so an HTMX client shows a
// notification. An existing HX-Trigger JSON object is merged, not replaced.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	payload := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &payload); err != nil {
			payload = map[string]any{}
		}
	}
	payload["showToast"] = map[string]string{
		"message": message,
		"type":    toastType,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))
}

// ErrorToast answers with an error status and a toast. HX-Reswap: none
// keeps HTMX from swapping the error text into the page.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase/core"
)

func parseToast(t *testing.T, header string) map[string]string {
	t.Helper()
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(header), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	raw, ok := parsed["showToast"]
	if !ok {
		t.Fatal("expected showToast key in HX-Trigger JSON")
	}
	var toast map[string]string
	if err := json.Unmarshal(raw, &toast); err != nil {
		t.Fatalf("showToast value is not valid JSON: %v", err)
	}
	return toast
}

func TestSetToast_Basic(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec

	SetToast(e, "success", "Model loaded")

	toast := parseToast(t, rec.Header().Get("HX-Trigger"))
	if toast["message"] != "Model loaded" {
		t.Errorf("expected message %q, got %q", "Model loaded", toast["message"])
	}
	if toast["type"] != "success" {
		t.Errorf("expected type %q, got %q", "success", toast["type"])
	}
}

func TestSetToast_MergesExistingTrigger(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	rec.Header().Set("HX-Trigger", `{"modelsChanged":true}`)

	SetToast(e, "info", "hello")

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := parsed["modelsChanged"]; !ok {
		t.Error("existing trigger was dropped")
	}
	if _, ok := parsed["showToast"]; !ok {
		t.Error("toast was not added")
	}
}

func TestSetToast_InvalidExistingTrigger(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	rec.Header().Set("HX-Trigger", "modelsChanged")

	SetToast(e, "warning", "careful")

	toast := parseToast(t, rec.Header().Get("HX-Trigger"))
	if toast["type"] != "warning" {
		t.Errorf("expected warning toast, got %v", toast)
	}
}

func TestErrorToast(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(nil, req, rec)

	if err := ErrorToast(e, http.StatusBadRequest, "bad file"); err != nil {
		t.Fatalf("ErrorToast returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if rec.Header().Get("HX-Reswap") != "none" {
		t.Error("expected HX-Reswap: none")
	}
	if rec.Body.String() != "bad file" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if parseToast(t, rec.Header().Get("HX-Trigger"))["type"] != "error" {
		t.Error("expected error toast")
	}
}

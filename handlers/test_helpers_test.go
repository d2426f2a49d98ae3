package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"takeoff/config"
	"takeoff/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// newTestDeps creates a test app and the handler dependencies around it.
func newTestDeps(t *testing.T) *Deps {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	d, err := NewDeps(app, config.FromMap(nil), zap.NewNop())
	if err != nil {
		t.Fatalf("NewDeps() error = %v", err)
	}
	return d
}

// serve runs handler against a request with the given path values.
func serve(t *testing.T, d *Deps, handler func(*core.RequestEvent) error, req *http.Request, pathValues map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(d.App, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

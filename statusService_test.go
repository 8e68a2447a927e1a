package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gotest.tools/assert"
)

func testEvent(name string, kind eventKind, at time.Time) buttonEvent {
	return buttonEvent{Name: name, Kind: kind, State: kind == evRising, Flags: "0000000", At: at}
}

func doRequest(h *apiHandler, path string, auth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if auth {
		req.SetBasicAuth(h.user, h.secret)
	}
	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, req)
	return w
}

func TestStatusRequiresAuth(t *testing.T) {
	rt, _, _ := testRuntime()
	h := newHandler(rt)

	w := doRequest(h, "/api/status", false)
	assert.Equal(t, w.Code, http.StatusUnauthorized)

	req := httptest.NewRequest("GET", "/api/status", nil)
	req.SetBasicAuth(h.user, "wrong")
	w = httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusUnauthorized)
}

func TestStatusReportsEvents(t *testing.T) {
	rt, clock, _ := testRuntime()
	h := newHandler(rt)
	assert.Equal(t, h.user, "tester")

	h.record(testEvent("main", evRising, clock.Now()))
	h.record(testEvent("sr3", evPressed, clock.Now()))
	h.record(testEvent("main", evFalling, clock.Now()))

	w := doRequest(h, "/api/status", true)
	assert.Equal(t, w.Code, http.StatusOK)

	var resp map[string]interface{}
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, resp["response"], "OK")
	assert.Equal(t, resp["session"], "test-session")
	assert.Equal(t, len(resp["recent"].([]interface{})), 3)

	buttons := resp["buttons"].(map[string]interface{})
	assert.Equal(t, len(buttons), 2)
	mainEv := buttons["main"].(map[string]interface{})
	assert.Equal(t, mainEv["kind"], "falling")
}

func TestButtonEndpoint(t *testing.T) {
	rt, clock, _ := testRuntime()
	h := newHandler(rt)
	h.record(testEvent("main", evLongPressed, clock.Now()))

	w := doRequest(h, "/api/buttons/main", true)
	assert.Equal(t, w.Code, http.StatusOK)
	var ev map[string]interface{}
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &ev))
	assert.Equal(t, ev["kind"], "longPressed")

	w = doRequest(h, "/api/buttons/nope", true)
	assert.Equal(t, w.Code, http.StatusNotFound)
}

func TestRootRedirects(t *testing.T) {
	rt, _, _ := testRuntime()
	h := newHandler(rt)
	w := doRequest(h, "/", true)
	assert.Equal(t, w.Code, http.StatusMovedPermanently)
	assert.Equal(t, w.Header().Get("Location"), "/api/status")
}

func TestRecentIsCapped(t *testing.T) {
	rt, clock, _ := testRuntime()
	h := newHandler(rt)
	for i := 0; i < recentEvents+10; i++ {
		h.record(testEvent(fmt.Sprintf("sr%d", i), evRising, clock.Now()))
	}
	status := h.getStatus()
	assert.Equal(t, len(status.Recent), recentEvents)
	assert.Equal(t, status.Recent[0].Name, "sr10")
	assert.Equal(t, len(status.Buttons), recentEvents+10)
}

func TestRunStatusService(t *testing.T) {
	rt, clock, _ := testRuntime()
	// unbuffered: a send completes only once the worker has recorded the last one
	rt.comms.events = make(chan buttonEvent)
	svc := rt.status.(*testStatusService)
	h := newHandler(rt)

	wg.Add(1)
	go runStatusService(rt, h)

	rt.comms.events <- testEvent("main", evRising, clock.Now())
	rt.comms.events <- testEvent("main", evPressed, clock.Now())
	rt.comms.events <- testEvent("mode", evRising, clock.Now())

	ev, ok := h.getButton("main")
	assert.Assert(t, ok)
	assert.Equal(t, ev.Kind, evPressed)
	assert.Assert(t, len(h.getStatus().Recent) >= 2)
	assert.Equal(t, svc.addr, "127.0.0.1:0")

	testQuit(rt)
	assert.Assert(t, svc.stopped)
	assert.Assert(t, svc.handler == h)
}

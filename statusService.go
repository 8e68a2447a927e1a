package main

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// how many events /api/status reports
const recentEvents = 32

type statusResponse struct {
	Response string                 `json:"response"`
	Error    string                 `json:"error,omitempty"`
	Session  string                 `json:"session,omitempty"`
	Buttons  map[string]buttonEvent `json:"buttons,omitempty"`
	Recent   []buttonEvent          `json:"recent,omitempty"`
}

// apiHandler - settings and state for the thing that handles HTTP requests
type apiHandler struct {
	rt     runtimeConfig
	secret string
	user   string
	realm  string

	mu     sync.Mutex
	last   map[string]buttonEvent
	recent []buttonEvent
}

func newHandler(rt runtimeConfig) *apiHandler {
	return &apiHandler{
		rt:     rt,
		secret: uuid.New().String(),
		user:   rt.settings.GetString(sStatusUser),
		realm:  "buttons",
		last:   make(map[string]buttonEvent),
	}
}

// BasicAuth - provide a middleware to authenticate users
func (m *apiHandler) BasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(m.user)) != 1 || subtle.ConstantTimeCompare([]byte(pass), []byte(m.secret)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+m.realm+`"`)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorised.\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *apiHandler) record(ev buttonEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.last[ev.Name] = ev
	m.recent = append(m.recent, ev)
	if len(m.recent) > recentEvents {
		m.recent = append(m.recent[:0], m.recent[len(m.recent)-recentEvents:]...)
	}
}

func (m *apiHandler) getStatus() statusResponse {
	m.mu.Lock()
	defer m.mu.Unlock()

	buttons := make(map[string]buttonEvent, len(m.last))
	for k, v := range m.last {
		buttons[k] = v
	}
	recent := make([]buttonEvent, len(m.recent))
	copy(recent, m.recent)

	return statusResponse{Response: "OK", Session: m.rt.session, Buttons: buttons, Recent: recent}
}

func (m *apiHandler) getButton(name string) (buttonEvent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.last[name]
	return ev, ok
}

func writeAnswer(w http.ResponseWriter, status int, v interface{}) {
	output, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(output)
}

func (m *apiHandler) apiStatus(w http.ResponseWriter, r *http.Request) {
	writeAnswer(w, http.StatusOK, m.getStatus())
}

func (m *apiHandler) apiButton(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	ev, ok := m.getButton(name)
	if !ok {
		writeAnswer(w, http.StatusNotFound, statusResponse{Response: "BAD", Error: "no events for button " + name})
		return
	}
	writeAnswer(w, http.StatusOK, ev)
}

func (m *apiHandler) rootHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/api/status", http.StatusMovedPermanently)
}

func newRouter(handler *apiHandler) *mux.Router {
	r := mux.NewRouter()
	// auth middleware
	r.Use(handler.BasicAuth)
	r.HandleFunc("/api/status", handler.apiStatus).Methods("GET")
	r.HandleFunc("/api/buttons/{name}", handler.apiButton).Methods("GET")
	r.HandleFunc("/", handler.rootHandler)
	return r
}

func startStatusService(rt runtimeConfig) {
	rt.logger = &ThreadLogger{name: "Status"}
	wg.Add(1)
	go runStatusService(rt, newHandler(rt))
}

func runStatusService(rt runtimeConfig, handler *apiHandler) {
	defer wg.Done()

	addr := rt.settings.GetString(sStatusAddr)
	rt.status.launch(handler, addr)
	rt.logger.Printf("status api on %s, user %s, secret %s", addr, handler.user, handler.secret)

	comms := rt.comms
	for {
		select {
		case <-comms.quit:
			rt.logger.Println("quit from status service")
			rt.status.stop()
			return
		case ev := <-comms.events:
			handler.record(ev)
		}
	}
}

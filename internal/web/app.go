package web

import (
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/easyshop/storefront-go/internal/auth"
	"github.com/easyshop/storefront-go/internal/cart"
	"github.com/easyshop/storefront-go/internal/clients"
	"github.com/easyshop/storefront-go/internal/config"
	"github.com/easyshop/storefront-go/internal/notify"
)

const sessionCookie = "storefront_session"

// sessionState is everything one browser session owns: its engine, its
// notice sink, and the view state the engine renders into.
type sessionState struct {
	session *auth.Session
	engine  *cart.Engine
	sink    *notify.Sink
	views   *ViewState

	// Guarded by App.mu.
	lastSeen time.Time
}

// App wires sessions to reconciliation engines and serves the storefront
// pages. Engines are constructed explicitly per session with their
// collaborators injected; there is no process-wide cart singleton.
type App struct {
	log  logrus.FieldLogger
	cfg  config.Config
	api  *clients.Client
	tmpl *template.Template

	sessions *auth.Store
	done     chan struct{}

	mu     sync.Mutex
	states map[string]*sessionState
}

func NewApp(cfg config.Config, api *clients.Client, log logrus.FieldLogger) *App {
	a := &App{
		log:      log,
		cfg:      cfg,
		api:      api,
		tmpl:     parseTemplates(),
		sessions: auth.NewStore(),
		done:     make(chan struct{}),
		states:   make(map[string]*sessionState),
	}
	if cfg.SessionIdleTTL > 0 {
		go a.sweepLoop(cfg.SessionIdleTTL)
	}
	return a
}

// state resolves the session for this request, creating one (and its
// engine) on first contact.
func (a *App) state(w http.ResponseWriter, r *http.Request) *sessionState {
	if c, err := r.Cookie(sessionCookie); err == nil {
		a.mu.Lock()
		st, ok := a.states[c.Value]
		if ok {
			st.lastSeen = time.Now()
		}
		a.mu.Unlock()
		if ok {
			return st
		}
	}

	sess := a.sessions.Create()
	slog := a.log.WithField("session", sess.ID)

	sink := notify.NewSink(slog, a.cfg.ToastTTL, a.cfg.MessageTTL)
	views := NewViewState()
	store := clients.NewStoreClient(a.api, sess.Token)
	engine := cart.NewEngine(store, sess, sink, views, slog)

	st := &sessionState{session: sess, engine: engine, sink: sink, views: views, lastSeen: time.Now()}

	a.mu.Lock()
	a.states[sess.ID] = st
	a.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return st
}

// dropState tears one session down: notice timers, auth session, engine.
func (a *App) dropState(id string) {
	a.mu.Lock()
	st, ok := a.states[id]
	delete(a.states, id)
	a.mu.Unlock()

	if ok {
		st.sink.Close()
		a.sessions.Delete(id)
	}
}

// sweepIdle drops every session not seen since the cutoff.
func (a *App) sweepIdle(cutoff time.Time) {
	a.mu.Lock()
	var idle []string
	for id, st := range a.states {
		if st.lastSeen.Before(cutoff) {
			idle = append(idle, id)
		}
	}
	a.mu.Unlock()

	for _, id := range idle {
		a.dropState(id)
	}
	if len(idle) > 0 {
		a.log.WithField("count", len(idle)).Debug("idle sessions swept")
	}
}

func (a *App) sweepLoop(ttl time.Duration) {
	t := time.NewTicker(ttl / 4)
	defer t.Stop()
	for {
		select {
		case <-a.done:
			return
		case <-t.C:
			a.sweepIdle(time.Now().Add(-ttl))
		}
	}
}

// Close stops the sweeper and every session's notice timers.
func (a *App) Close() {
	close(a.done)
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, st := range a.states {
		st.sink.Close()
	}
}

package notify

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityError   Severity = "error"
)

// Notice is one transient user-facing message.
type Notice struct {
	ID       string
	Severity Severity
	Message  string
	At       time.Time

	seq uint64
}

// Sink collects notices and owns their dismissal. Success and info notices
// expire after their configured TTL; errors are sticky (TTL 0) and stay
// until dismissed or the sink is closed. Expiry timers are cancellable and
// belong to the sink, never to whoever posted the notice.
type Sink struct {
	log logrus.FieldLogger

	successTTL time.Duration
	infoTTL    time.Duration

	mu     sync.Mutex
	active map[string]Notice
	timers map[string]*time.Timer
	seq    uint64
	closed bool
}

func NewSink(log logrus.FieldLogger, successTTL, infoTTL time.Duration) *Sink {
	return &Sink{
		log:        log,
		successTTL: successTTL,
		infoTTL:    infoTTL,
		active:     make(map[string]Notice),
		timers:     make(map[string]*time.Timer),
	}
}

func (s *Sink) Success(msg string) { s.post(SeveritySuccess, msg, s.successTTL) }
func (s *Sink) Info(msg string)    { s.post(SeverityInfo, msg, s.infoTTL) }
func (s *Sink) Error(msg string)   { s.post(SeverityError, msg, 0) }

func (s *Sink) post(sev Severity, msg string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.seq++
	n := Notice{ID: uuid.NewString(), Severity: sev, Message: msg, At: time.Now(), seq: s.seq}
	s.active[n.ID] = n
	s.log.WithFields(logrus.Fields{"severity": sev, "notice": msg}).Debug("notice posted")

	if ttl > 0 {
		id := n.ID
		s.timers[id] = time.AfterFunc(ttl, func() { s.Dismiss(id) })
	}
}

// ClearErrors dismisses every active error notice. Transient notices keep
// their timers and expire on their own.
func (s *Sink) ClearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, n := range s.active {
		if n.Severity != SeverityError {
			continue
		}
		delete(s.active, id)
		if t, ok := s.timers[id]; ok {
			t.Stop()
			delete(s.timers, id)
		}
	}
}

// Dismiss removes a notice and cancels its timer, if any. Dismissing an
// unknown id is a no-op.
func (s *Sink) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, id)
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// Active returns undismissed notices, oldest first.
func (s *Sink) Active() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notice, 0, len(s.active))
	for _, n := range s.active {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Close stops every pending timer and drops all notices. The sink accepts
// nothing afterwards.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.active = make(map[string]Notice)
}

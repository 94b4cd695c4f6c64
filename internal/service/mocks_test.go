package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"mindcare/internal/domain"
	"mindcare/internal/notify"
)

// Fakes en memoria compartidos por los tests de servicios. Replican las
// garantias transaccionales del store real: swap de activacion y borrado
// en cascada atomicos.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
	err   error
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user domain.User) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	if r.err != nil {
		return domain.User{}, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	if r.err != nil {
		return domain.User{}, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

type fakeStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	messages map[string][]domain.Message

	createErr error
	getErr    error
	listErr   error
	deleteErr error
	msgErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: make(map[string]domain.Session),
		messages: make(map[string][]domain.Message),
	}
}

type fakeSessionRepo struct{ store *fakeStore }

func (r *fakeSessionRepo) CreateActive(_ context.Context, session domain.Session) error {
	s := r.store
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.sessions {
		if existing.OwnerID == session.OwnerID && existing.IsActive {
			existing.IsActive = false
			s.sessions[id] = existing
		}
	}
	session.IsActive = true
	s.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (domain.Session, error) {
	s := r.store
	if s.getErr != nil {
		return domain.Session{}, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, pgx.ErrNoRows
	}
	return session, nil
}

func (r *fakeSessionRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.SessionPreview, error) {
	s := r.store
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var previews []domain.SessionPreview
	for _, session := range s.sessions {
		if session.OwnerID != ownerID || session.IsArchived {
			continue
		}
		p := domain.SessionPreview{Session: session}
		msgs := s.messages[session.ID]
		p.MessageCount = len(msgs)
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			p.LastMessage = &domain.MessagePreview{
				Content:   last.Content,
				Role:      last.Role,
				CreatedAt: last.CreatedAt,
			}
		}
		previews = append(previews, p)
	}
	sort.Slice(previews, func(i, j int) bool {
		return previews[i].LastMessageAt.After(previews[j].LastMessageAt)
	})
	return previews, nil
}

func (r *fakeSessionRepo) Archive(_ context.Context, id, ownerID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok || session.OwnerID != ownerID {
		return pgx.ErrNoRows
	}
	session.IsArchived = true
	session.IsActive = false
	s.sessions[id] = session
	return nil
}

func (r *fakeSessionRepo) DeleteOlderThan(_ context.Context, ownerID string, cutoff time.Time) (int, error) {
	s := r.store
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for id, session := range s.sessions {
		if session.OwnerID == ownerID && session.LastMessageAt.Before(cutoff) {
			delete(s.sessions, id)
			delete(s.messages, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeSessionRepo) ListOwnerIDs(_ context.Context) ([]string, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var owners []string
	for _, session := range s.sessions {
		if !seen[session.OwnerID] {
			seen[session.OwnerID] = true
			owners = append(owners, session.OwnerID)
		}
	}
	sort.Strings(owners)
	return owners, nil
}

type fakeMessageRepo struct{ store *fakeStore }

func (r *fakeMessageRepo) CreateWithTouch(_ context.Context, message domain.Message) error {
	s := r.store
	if s.msgErr != nil {
		return s.msgErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[message.SessionID] = append(s.messages[message.SessionID], message)
	if session, ok := s.sessions[message.SessionID]; ok {
		session.LastMessageAt = message.CreatedAt
		s.sessions[message.SessionID] = session
	}
	return nil
}

func (r *fakeMessageRepo) ListBySessionID(_ context.Context, sessionID string) ([]domain.Message, error) {
	s := r.store
	if s.msgErr != nil {
		return nil, s.msgErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[sessionID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

type fakeStatsRepo struct {
	sessionCount int
	byRisk       map[domain.RiskLevel]int
	activity     []domain.DayActivity
	err          error
}

func (r *fakeStatsRepo) SessionCount(_ context.Context, _ string) (int, error) {
	return r.sessionCount, r.err
}

func (r *fakeStatsRepo) MessageCountsByRisk(_ context.Context, _ string) (map[domain.RiskLevel]int, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.byRisk, nil
}

func (r *fakeStatsRepo) ActivityByDay(_ context.Context, _ string) ([]domain.DayActivity, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.activity, nil
}

type fakeNotifier struct {
	err    error
	events chan notify.EscalationEvent
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{events: make(chan notify.EscalationEvent, 4)}
}

func (n *fakeNotifier) Notify(_ context.Context, event notify.EscalationEvent) error {
	n.events <- event
	return n.err
}

type fakeLimiter struct{ allow bool }

func (l *fakeLimiter) Allow(string) bool { return l.allow }

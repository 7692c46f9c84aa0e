package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"eventreg/internal/events/models"
	"eventreg/pkg/domain"
	"eventreg/pkg/platform/sentinel"
)

type paxKey struct {
	eventType models.EventType
	bodyID    domain.BodyID
}

type listKey struct {
	eventID domain.EventID
	bodyID  domain.BodyID
}

// InMemory is a mutex-guarded store for tests and local runs. Every value
// crossing its boundary is a copy.
type InMemory struct {
	mu sync.Mutex

	events       map[domain.EventID]*models.Event
	applications map[domain.ApplicationID]*models.Application
	lists        map[listKey]*models.MembersList
	limits       map[paxKey]*models.PaxLimit

	nextEvent       domain.EventID
	nextApplication domain.ApplicationID
	nextList        models.MembersListID
}

func NewInMemory() *InMemory {
	s := &InMemory{}
	s.reset()
	return s
}

func (s *InMemory) reset() {
	s.events = map[domain.EventID]*models.Event{}
	s.applications = map[domain.ApplicationID]*models.Application{}
	s.lists = map[listKey]*models.MembersList{}
	s.limits = map[paxKey]*models.PaxLimit{}
}

func cloneEvent(e *models.Event) *models.Event {
	c := *e
	c.Questions = slices.Clone(e.Questions)
	return &c
}

func cloneApplication(a *models.Application) *models.Application {
	c := *a
	c.Answers = slices.Clone(a.Answers)
	if a.ParticipantOrder != nil {
		order := *a.ParticipantOrder
		c.ParticipantOrder = &order
	}
	return &c
}

func cloneMembersList(l *models.MembersList) *models.MembersList {
	c := *l
	c.Members = slices.Clone(l.Members)
	return &c
}

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	if updated.IsZero() {
		*updated = *created
	}
}

// CreateEvent assigns an id when none is set.
func (s *InMemory) CreateEvent(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.URL != "" {
		for _, other := range s.events {
			if other.URL == e.URL {
				return sentinel.ErrConflict
			}
		}
	}
	if e.ID == 0 {
		s.nextEvent++
		e.ID = s.nextEvent
	} else if _, exists := s.events[e.ID]; exists {
		return sentinel.ErrConflict
	} else if e.ID > s.nextEvent {
		s.nextEvent = e.ID
	}
	if e.Status == "" {
		e.Status = models.EventStatusDraft
	}
	stamp(&e.CreatedAt, &e.UpdatedAt)
	s.events[e.ID] = cloneEvent(e)
	return nil
}

func (s *InMemory) FindEvent(_ context.Context, ref models.EventRef) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ref.ID != 0 {
		if e, ok := s.events[ref.ID]; ok {
			return cloneEvent(e), nil
		}
		return nil, sentinel.ErrNotFound
	}
	if ref.URL == "" {
		return nil, sentinel.ErrNotFound
	}
	for _, e := range s.events {
		if e.URL == ref.URL {
			return cloneEvent(e), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// ExecuteEvent runs validate then mutate on a copy while holding the store
// lock and persists the copy only if validate passes. A url already used by
// another event is ErrConflict.
func (s *InMemory) ExecuteEvent(_ context.Context, id domain.EventID, validate func(*models.Event) error, mutate func(*models.Event)) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.events[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := cloneEvent(current)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	if working.URL != "" && working.URL != current.URL {
		for otherID, other := range s.events {
			if otherID != id && other.URL == working.URL {
				return nil, sentinel.ErrConflict
			}
		}
	}
	s.events[id] = working
	return cloneEvent(working), nil
}

// CreateApplication requires the event to exist and allows one application
// per user and event.
func (s *InMemory) CreateApplication(_ context.Context, a *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[a.EventID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, other := range s.applications {
		if other.EventID == a.EventID && other.UserID == a.UserID {
			return sentinel.ErrConflict
		}
	}
	if a.ID == 0 {
		s.nextApplication++
		a.ID = s.nextApplication
	} else if _, exists := s.applications[a.ID]; exists {
		return sentinel.ErrConflict
	} else if a.ID > s.nextApplication {
		s.nextApplication = a.ID
	}
	if a.Status == "" {
		a.Status = models.ApplicationPending
	}
	stamp(&a.CreatedAt, &a.UpdatedAt)
	s.applications[a.ID] = cloneApplication(a)
	return nil
}

func (s *InMemory) FindApplication(_ context.Context, eventID domain.EventID, id domain.ApplicationID) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.applications[id]
	if !ok || a.EventID != eventID {
		return nil, sentinel.ErrNotFound
	}
	return cloneApplication(a), nil
}

func (s *InMemory) FindApplicationByUser(_ context.Context, eventID domain.EventID, userID domain.UserID) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.applications {
		if a.EventID == eventID && a.UserID == userID {
			return cloneApplication(a), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// ListApplications returns matches in insertion (id) order.
func (s *InMemory) ListApplications(_ context.Context, eventID domain.EventID, filter models.ApplicationFilter) ([]*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Application, 0)
	for _, a := range s.applications {
		if a.EventID == eventID && filter.Matches(a) {
			out = append(out, cloneApplication(a))
		}
	}
	slices.SortFunc(out, func(a, b *models.Application) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *InMemory) ExecuteApplication(_ context.Context, eventID domain.EventID, id domain.ApplicationID, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.applications[id]
	if !ok || current.EventID != eventID {
		return nil, sentinel.ErrNotFound
	}
	working := cloneApplication(current)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.applications[id] = working
	return cloneApplication(working), nil
}

// CreateMembersList allows one list per (event, body).
func (s *InMemory) CreateMembersList(_ context.Context, l *models.MembersList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[l.EventID]; !ok {
		return sentinel.ErrNotFound
	}
	key := listKey{eventID: l.EventID, bodyID: l.BodyID}
	if _, exists := s.lists[key]; exists {
		return sentinel.ErrConflict
	}
	if l.ID == 0 {
		s.nextList++
		l.ID = s.nextList
	}
	stamp(&l.CreatedAt, &l.UpdatedAt)
	s.lists[key] = cloneMembersList(l)
	return nil
}

func (s *InMemory) FindMembersList(_ context.Context, eventID domain.EventID, bodyID domain.BodyID) (*models.MembersList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[listKey{eventID: eventID, bodyID: bodyID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneMembersList(l), nil
}

// ListMembersLists returns the event's lists ordered by body id.
func (s *InMemory) ListMembersLists(_ context.Context, eventID domain.EventID) ([]*models.MembersList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.MembersList, 0)
	for key, l := range s.lists {
		if key.eventID == eventID {
			out = append(out, cloneMembersList(l))
		}
	}
	slices.SortFunc(out, func(a, b *models.MembersList) int { return cmp.Compare(a.BodyID, b.BodyID) })
	return out, nil
}

func (s *InMemory) FindPaxLimit(_ context.Context, eventType models.EventType, bodyID domain.BodyID) (*models.PaxLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limits[paxKey{eventType: eventType, bodyID: bodyID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *l
	return &c, nil
}

// UpsertPaxLimit keeps the original creation time on update.
func (s *InMemory) UpsertPaxLimit(_ context.Context, limit *models.PaxLimit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := paxKey{eventType: limit.EventType, bodyID: limit.BodyID}
	if existing, ok := s.limits[key]; ok {
		limit.CreatedAt = existing.CreatedAt
	}
	stamp(&limit.CreatedAt, &limit.UpdatedAt)
	limit.Default = false
	c := *limit
	s.limits[key] = &c
	return nil
}

// ClearAll empties members lists, applications, events and pax limits, in
// that order.
func (s *InMemory) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

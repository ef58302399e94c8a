package handler_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/venues-api/internal/ids"
	"github.com/iliyamo/venues-api/internal/model"
	"github.com/iliyamo/venues-api/internal/queue"
	"github.com/iliyamo/venues-api/internal/repository"
)

// memVenues is an in-memory repository.VenueRepository. calls counts
// every method invocation so tests can assert the store was not reached.
type memVenues struct {
	mu           sync.Mutex
	venues       map[string]model.Venue
	order        []string
	reservations map[string]model.Reservation
	calls        int

	failCreate, failList, failGet, failUpdate, failDelete, failExpand error
	// vanishOnUpdate makes Update and Delete report ErrVenueNotFound as if
	// the venue was removed between load and mutation.
	vanishOnUpdate bool
}

func newMemVenues() *memVenues {
	return &memVenues{
		venues:       make(map[string]model.Venue),
		reservations: make(map[string]model.Reservation),
	}
}

func (m *memVenues) Create(_ context.Context, v *model.Venue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failCreate != nil {
		return m.failCreate
	}
	v.Normalize()
	if v.Name == "" {
		return fmt.Errorf("%w: name: failed \"required\"", repository.ErrInvalidVenue)
	}
	v.ID = ids.New()
	v.CreatedAt = time.Now().UTC()
	v.UpdatedAt = v.CreatedAt
	m.venues[v.ID] = clone(*v)
	m.order = append(m.order, v.ID)
	return nil
}

func (m *memVenues) List(context.Context) ([]model.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failList != nil {
		return nil, m.failList
	}
	out := make([]model.Venue, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, clone(m.venues[id]))
	}
	return out, nil
}

func (m *memVenues) Get(_ context.Context, id string) (*model.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failGet != nil {
		return nil, m.failGet
	}
	v, ok := m.venues[id]
	if !ok {
		return nil, repository.ErrVenueNotFound
	}
	v = clone(v)
	return &v, nil
}

func (m *memVenues) Update(_ context.Context, id string, p model.VenuePatch) (*model.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failUpdate != nil {
		return nil, m.failUpdate
	}
	v, ok := m.venues[id]
	if !ok || m.vanishOnUpdate {
		return nil, repository.ErrVenueNotFound
	}
	p.Apply(&v)
	v.UpdatedAt = time.Now().UTC()
	m.venues[id] = v
	v = clone(v)
	return &v, nil
}

func (m *memVenues) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failDelete != nil {
		return m.failDelete
	}
	if _, ok := m.venues[id]; !ok || m.vanishOnUpdate {
		return repository.ErrVenueNotFound
	}
	delete(m.venues, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memVenues) ExpandReservations(_ context.Context, venues ...model.Venue) ([]model.VenueWithReservations, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failExpand != nil {
		return nil, m.failExpand
	}
	out := make([]model.VenueWithReservations, 0, len(venues))
	for _, v := range venues {
		w := model.VenueWithReservations{Venue: v, Reservations: []model.Reservation{}}
		for _, id := range v.Reservations {
			if r, ok := m.reservations[id]; ok {
				w.Reservations = append(w.Reservations, r)
			}
		}
		out = append(out, w)
	}
	return out, nil
}

// seed stores v directly, bypassing the call counter.
func (m *memVenues) seed(v model.Venue) model.Venue {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.ID == "" {
		v.ID = ids.New()
	}
	v.Normalize()
	m.venues[v.ID] = clone(v)
	m.order = append(m.order, v.ID)
	return v
}

// reserve attaches a new reservation to the venue with venueID.
func (m *memVenues) reserve(venueID string, guests int) model.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := model.Reservation{ID: ids.New(), Venue: venueID, User: ids.New(), Guests: guests}
	m.reservations[r.ID] = r
	v := m.venues[venueID]
	v.Reservations = append(v.Reservations, r.ID)
	m.venues[venueID] = v
	return r
}

func (m *memVenues) stored(id string) (model.Venue, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.venues[id]
	return clone(v), ok
}

func (m *memVenues) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func clone(v model.Venue) model.Venue {
	v.Offers = append([]string{}, v.Offers...)
	v.Reservations = append([]string{}, v.Reservations...)
	return v
}

// memUsers is an in-memory repository.UserRepository.
type memUsers struct {
	mu      sync.Mutex
	byID    map[string]*model.User
	failGet error
}

func newMemUsers(users ...*model.User) *memUsers {
	m := &memUsers{byID: make(map[string]*model.User)}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.ID = ids.New()
	u.CreatedAt = time.Now().UTC()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// fakeUploader records what it was given and answers with url or err.
type fakeUploader struct {
	url      string
	err      error
	filename string
	body     string
}

func (f *fakeUploader) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.filename, f.body = filename, string(b)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

// recordingPublisher keeps every event it was asked to publish.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.VenueEvent
	err    error
}

func (p *recordingPublisher) PublishVenueEvent(_ context.Context, ev queue.VenueEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

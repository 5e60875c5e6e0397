package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"smart_channels/internal/models"
	"smart_channels/internal/ratelimit"
	"smart_channels/internal/repository"
)

// fakeEventRepo records appended events and the last List filter.
type fakeEventRepo struct {
	appended  []models.ChannelEvent
	appendErr error

	gotCtx    context.Context
	gotFilter repository.EventFilter
	events    []models.ChannelEvent
	err       error
	calls     int
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.ChannelEvent) error {
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) List(ctx context.Context, filter repository.EventFilter) ([]models.ChannelEvent, error) {
	f.calls++
	f.gotCtx = ctx
	f.gotFilter = filter
	return f.events, f.err
}

// fakeChannelRepo keeps channels in a map and copies them in and out like a database would.
type fakeChannelRepo struct {
	channels map[int]models.Channel
	getErr   error
	saveErr  error
	saved    [][]models.Channel
	nextID   int
}

func newFakeChannelRepo(chs ...models.Channel) *fakeChannelRepo {
	r := &fakeChannelRepo{channels: map[int]models.Channel{}, nextID: 100}
	for _, ch := range chs {
		r.channels[ch.ID] = ch
	}
	return r
}

func (r *fakeChannelRepo) Create(_ context.Context, ch *models.Channel) error {
	r.nextID++
	ch.ID = r.nextID
	r.channels[ch.ID] = *ch
	return nil
}

func (r *fakeChannelRepo) NextDeviceID(context.Context) (int, error) {
	maxID := 0
	for _, ch := range r.channels {
		if ch.IODeviceID > maxID {
			maxID = ch.IODeviceID
		}
	}
	return maxID + 1, nil
}

func (r *fakeChannelRepo) Get(_ context.Context, id int) (*models.Channel, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	ch, ok := r.channels[id]
	if !ok {
		return nil, nil
	}
	return &ch, nil
}

func (r *fakeChannelRepo) Find(ctx context.Context, id int) (*models.Channel, error) {
	return r.Get(ctx, id)
}

func (r *fakeChannelRepo) ListByUser(_ context.Context, userID int) ([]models.Channel, error) {
	var out []models.Channel
	for _, ch := range r.channels {
		if ch.UserID == userID {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (r *fakeChannelRepo) SaveParams(_ context.Context, chs ...*models.Channel) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	batch := make([]models.Channel, 0, len(chs))
	for _, ch := range chs {
		stored := r.channels[ch.ID]
		stored.SetParams(ch.Params())
		r.channels[ch.ID] = stored
		batch = append(batch, *ch)
	}
	r.saved = append(r.saved, batch)
	return nil
}

// fakeUserRepo serves one in-memory user table.
type fakeUserRepo struct {
	users        map[int]*models.User
	getErr       error
	limitUpdates int
	ruleUpdates  int
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int]*models.User{}}
	for i := range users {
		u := users[i]
		r.users[u.ID] = &u
	}
	return r
}

func (r *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateLimits(_ context.Context, id int, l models.Limits) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.limitUpdates++
	u.Limits = l
	return nil
}

func (r *fakeUserRepo) UpdateAPIRateLimit(_ context.Context, id int, rule *string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.ruleUpdates++
	u.APIRateLimit = rule
	return nil
}

func newTestLimiter(t *testing.T, def string) (*ratelimit.Limiter, *ratelimit.MemoryStore) {
	t.Helper()
	rule, err := ratelimit.NewDefaultRule(def)
	if err != nil {
		t.Fatalf("default rule: %v", err)
	}
	store := ratelimit.NewMemoryStore()
	l, err := ratelimit.NewLimiter(store, rule)
	if err != nil {
		t.Fatalf("limiter: %v", err)
	}
	return l, store
}

var errDBDown = errors.New("db down")

func assertWithinTimeWindow(t *testing.T, ts time.Time, start time.Time, end time.Time) {
	t.Helper()
	if ts.Before(start) || ts.After(end) {
		t.Fatalf("time %v not within window [%v, %v]", ts, start, end)
	}
}

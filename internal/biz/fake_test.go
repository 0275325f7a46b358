package biz

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"mediareview/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
)

// eventLog records side effects in the order they happen.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

// fakeStore implements every repository over in-memory slices.
type fakeStore struct {
	mu      sync.Mutex
	log     *eventLog
	users   []*User
	media   []*Media
	reviews []*Review
	subs    map[[2]int64]struct{}

	CreateReviewFunc    func(review *Review) error
	ListReviewsFunc     func(ctx context.Context) error
	ListSubscribersFunc func(mediaID int64) error
	listCalls           int
}

func newFakeStore(l *eventLog) *fakeStore {
	return &fakeStore{log: l, subs: map[[2]int64]struct{}{}}
}

func (s *fakeStore) addUser(name string) *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &User{ID: int64(len(s.users) + 1), Name: name}
	s.users = append(s.users, u)
	return u
}

func (s *fakeStore) addMedia(title string, t MediaType) *Media {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &Media{ID: int64(len(s.media) + 1), Title: title, Type: t}
	s.media = append(s.media, m)
	return m
}

func (s *fakeStore) reviewCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reviews)
}

func (s *fakeStore) CreateUser(_ context.Context, name string) (*User, error) {
	s.mu.Lock()
	for _, u := range s.users {
		if strings.EqualFold(u.Name, name) {
			s.mu.Unlock()
			return nil, ErrAlreadyExists
		}
	}
	s.mu.Unlock()
	return s.addUser(name), nil
}

func (s *fakeStore) FindUser(_ context.Context, ref Ref) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if id, ok := ref.ID(); ok && u.ID == id || !ok && strings.EqualFold(u.Name, ref.Name()) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *fakeStore) ListUsers(context.Context) ([]*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*User(nil), s.users...), nil
}

func (s *fakeStore) CreateMedia(_ context.Context, title string, t MediaType) (*Media, error) {
	return s.addMedia(title, t), nil
}

func (s *fakeStore) FindMedia(_ context.Context, ref Ref) (*Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.media {
		if id, ok := ref.ID(); ok && m.ID == id || !ok && strings.EqualFold(m.Title, ref.Name()) {
			return m, nil
		}
	}
	return nil, ErrMediaNotFound
}

func (s *fakeStore) ListMedia(context.Context) ([]*Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Media(nil), s.media...), nil
}

func (s *fakeStore) ListRatedMedia(context.Context) ([]*RatedMedia, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*RatedMedia, 0, len(s.media))
	for _, m := range s.media {
		sum, n := 0, 0
		for _, r := range s.reviews {
			if r.MediaID == m.ID {
				sum += r.Rating
				n++
			}
		}
		rm := &RatedMedia{Media: *m}
		if n > 0 {
			avg := float64(sum) / float64(n)
			rm.Average = &avg
		}
		out = append(out, rm)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Average, out[j].Average
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return *a > *b
	})
	return out, nil
}

func (s *fakeStore) CreateReview(_ context.Context, review *Review) (int64, error) {
	if s.CreateReviewFunc != nil {
		if err := s.CreateReviewFunc(review); err != nil {
			return 0, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *review
	r.ID = int64(len(s.reviews) + 1)
	s.reviews = append(s.reviews, &r)
	s.log.add("review:create")
	return r.ID, nil
}

func (s *fakeStore) ListReviews(ctx context.Context) ([]*ReviewView, error) {
	if s.ListReviewsFunc != nil {
		if err := s.ListReviewsFunc(ctx); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	views := make([]*ReviewView, 0, len(s.reviews))
	for _, r := range s.reviews {
		views = append(views, &ReviewView{
			UserName:   s.users[r.UserID-1].Name,
			MediaTitle: s.media[r.MediaID-1].Title,
			Rating:     r.Rating,
			Comment:    r.Comment,
		})
	}
	return views, nil
}

func (s *fakeStore) ListReviewedMediaIDs(_ context.Context, userID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for _, r := range s.reviews {
		if r.UserID == userID {
			ids = append(ids, r.MediaID)
		}
	}
	return ids, nil
}

func (s *fakeStore) Subscribe(_ context.Context, userID, mediaID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int64{userID, mediaID}
	if _, ok := s.subs[key]; ok {
		return false, nil
	}
	s.subs[key] = struct{}{}
	return true, nil
}

func (s *fakeStore) ListSubscribers(_ context.Context, mediaID int64) ([]string, error) {
	if s.ListSubscribersFunc != nil {
		if err := s.ListSubscribersFunc(mediaID); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for _, u := range s.users {
		if _, ok := s.subs[[2]int64{u.ID, mediaID}]; ok {
			names = append(names, u.Name)
		}
	}
	return names, nil
}

func (s *fakeStore) ListSubscribedMedia(_ context.Context, userID int64) ([]*Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Media
	for _, m := range s.media {
		if _, ok := s.subs[[2]int64{userID, m.ID}]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeCache is a map-backed Cache that logs mutations.
type fakeCache struct {
	mu   sync.Mutex
	log  *eventLog
	data map[string][]byte
}

func newFakeCache(l *eventLog) *fakeCache {
	return &fakeCache{log: l, data: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.log.add("cache:set")
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.log.add("cache:delete")
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// sinkMock collects notifications.
type sinkMock struct {
	mu         sync.Mutex
	received   []*Notification
	NotifyFunc func(n *Notification) error
}

func (s *sinkMock) Notify(_ context.Context, n *Notification) error {
	if s.NotifyFunc != nil {
		if err := s.NotifyFunc(n); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, n)
	return nil
}

func (s *sinkMock) list() []*Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Notification(nil), s.received...)
}

type testEnv struct {
	events   *eventLog
	store    *fakeStore
	cache    *fakeCache
	sink     *sinkMock
	notifier *Notifier
	reviews  *ReviewUseCase
}

func testLogger() log.Logger {
	return log.NewStdLogger(io.Discard)
}

// newTestEnv wires a ReviewUseCase over fakes. Call env.drain before
// asserting on notifications.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	events := &eventLog{}
	env := &testEnv{
		events: events,
		store:  newFakeStore(events),
		cache:  newFakeCache(events),
		sink:   &sinkMock{},
	}
	env.notifier, _ = NewNotifier(&conf.Notify{Workers: 2, QueueSize: 64, Timeout: conf.NewDuration(time.Second)},
		env.store, env.sink, testLogger())
	t.Cleanup(env.notifier.Close)

	dataConf := &conf.Data{Cache: &conf.Data_Cache{ReviewsTtl: conf.NewDuration(time.Hour)}}
	env.reviews = NewReviewUseCase(dataConf, env.store, env.store, env.store, env.cache, env.notifier, testLogger())
	return env
}

func (e *testEnv) drain() {
	e.notifier.Close()
}

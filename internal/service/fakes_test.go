package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/spec-kit/favourites-api/internal/domain"
	"github.com/spec-kit/favourites-api/internal/limiter"
	"github.com/spec-kit/favourites-api/internal/repository"
)

type fakeUsers struct {
	mu     sync.Mutex
	byName map[string]*domain.User

	createErr error
	getErr    error
	favErr    error

	favCalls int
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]*domain.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byName[u.Username]; exists {
		return domain.ErrUsernameTaken
	}
	cpy := *u
	cpy.Favourites = []string{}
	f.byName[u.Username] = &cpy
	return nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) byID(id string) (*domain.User, error) {
	f.favCalls++
	if f.favErr != nil {
		return nil, f.favErr
	}
	for _, u := range f.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) GetFavourites(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.byID(userID)
	if err != nil {
		return nil, err
	}
	return append([]string{}, u.Favourites...), nil
}

func (f *fakeUsers) AddFavourite(_ context.Context, userID, itemID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.byID(userID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(u.Favourites, itemID) {
		u.Favourites = append(u.Favourites, itemID)
	}
	return append([]string{}, u.Favourites...), nil
}

func (f *fakeUsers) RemoveFavourite(_ context.Context, userID, itemID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.byID(userID)
	if err != nil {
		return nil, err
	}
	kept := u.Favourites[:0]
	for _, fav := range u.Favourites {
		if fav != itemID {
			kept = append(kept, fav)
		}
	}
	u.Favourites = kept
	return append([]string{}, u.Favourites...), nil
}

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool
	failErr     error

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, string) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, time.Minute, l.allowErr
}

func (l *fakeLimiter) Failure(context.Context, string, string) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, time.Minute, l.failErr
}

func (l *fakeLimiter) Success(context.Context, string, string) error {
	l.successCalls++
	return nil
}

package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"haruhi-agent-be/internal/entity"
	"haruhi-agent-be/internal/repository/contract"
	"haruhi-agent-be/internal/repository/specification"
	"haruhi-agent-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// ErrUnsupportedSpecification is returned for filters only SQL can evaluate.
var ErrUnsupportedSpecification = errors.New("specification not supported by the in-memory store")

// Store keeps preferences and bookings in process when no database is configured.
// It is lost on restart.
type Store struct {
	mu       sync.RWMutex
	prefs    map[string]entity.Preference
	bookings []entity.Booking
}

func NewStore() *Store {
	return &Store{prefs: make(map[string]entity.Preference)}
}

func prefKey(userID, key string) string {
	return userID + "\x00" + key
}

// NewRepositoryFactory hands out units of work over the shared store.
func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &repositoryFactory{store: store}
}

type repositoryFactory struct {
	store *Store
}

func (f *repositoryFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

// unitOfWork writes straight through; Begin/Commit/Rollback only track state.
type unitOfWork struct {
	store  *Store
	active bool
}

func (u *unitOfWork) Begin(_ context.Context) error {
	if u.active {
		return fmt.Errorf("transaction already started")
	}
	u.active = true
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.active {
		return fmt.Errorf("no transaction to commit")
	}
	u.active = false
	return nil
}

func (u *unitOfWork) Rollback() error {
	if !u.active {
		return fmt.Errorf("no transaction to rollback")
	}
	u.active = false
	return nil
}

func (u *unitOfWork) PreferenceRepository() contract.PreferenceRepository {
	return &preferenceRepository{store: u.store}
}

func (u *unitOfWork) BookingRepository() contract.BookingRepository {
	return &bookingRepository{store: u.store}
}

type preferenceRepository struct {
	store *Store
}

func (r *preferenceRepository) Upsert(_ context.Context, pref *entity.Preference) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	pref.UpdatedAt = time.Now()
	r.store.prefs[prefKey(pref.UserID, pref.Key)] = *pref
	return nil
}

func (r *preferenceRepository) Get(_ context.Context, userID, key string) (*entity.Preference, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.prefs[prefKey(userID, key)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *preferenceRepository) Delete(_ context.Context, userID, key string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.prefs, prefKey(userID, key))
	return nil
}

func (r *preferenceRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Preference, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*entity.Preference, 0)
	for _, p := range r.store.prefs {
		ok, err := matchPreference(p, specs)
		if err != nil {
			return nil, err
		}
		if ok {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

func matchPreference(p entity.Preference, specs []specification.Specification) (bool, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByUserID:
			if p.UserID != s.UserID {
				return false, nil
			}
		case specification.ByKeyPrefix:
			if !strings.HasPrefix(p.Key, s.Prefix) {
				return false, nil
			}
		case specification.OrderBy:
		default:
			return false, fmt.Errorf("%w: %T", ErrUnsupportedSpecification, spec)
		}
	}
	return true, nil
}

type bookingRepository struct {
	store *Store
}

func (r *bookingRepository) Create(_ context.Context, booking *entity.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if booking.Id == uuid.Nil {
		booking.Id = uuid.New()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	r.store.bookings = append(r.store.bookings, *booking)
	return nil
}

func (r *bookingRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var (
		out   = make([]*entity.Booking, 0)
		page  *specification.Pagination
		order *specification.OrderBy
	)
	for _, b := range r.store.bookings {
		ok, err := matchBooking(b, specs)
		if err != nil {
			return nil, err
		}
		if ok {
			b := b
			out = append(out, &b)
		}
	}
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.Pagination:
			page = &s
		case specification.OrderBy:
			order = &s
		}
	}

	if order != nil && order.Field == "created_at" && order.Desc {
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	if page != nil {
		if page.Offset >= len(out) {
			return []*entity.Booking{}, nil
		}
		out = out[page.Offset:]
		if page.Limit > 0 && page.Limit < len(out) {
			out = out[:page.Limit]
		}
	}
	return out, nil
}

func (r *bookingRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	filters := make([]specification.Specification, 0, len(specs))
	for _, spec := range specs {
		if _, ok := spec.(specification.Pagination); ok {
			continue
		}
		filters = append(filters, spec)
	}
	all, err := r.FindAll(ctx, filters...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func matchBooking(b entity.Booking, specs []specification.Specification) (bool, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByUserID:
			if b.UserID != s.UserID {
				return false, nil
			}
		case specification.ByKind:
			if b.Kind != s.Kind {
				return false, nil
			}
		case specification.CreatedSince:
			if b.CreatedAt.Before(s.Since) {
				return false, nil
			}
		case specification.OrderBy, specification.Pagination:
		default:
			return false, fmt.Errorf("%w: %T", ErrUnsupportedSpecification, spec)
		}
	}
	return true, nil
}

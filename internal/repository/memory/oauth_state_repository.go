package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// OAuthStateRepository maps an OAuth state parameter to the user who started
// the consent flow. Entries expire so abandoned flows do not pile up.
type OAuthStateRepository struct {
	cache *cache.Cache
}

func NewOAuthStateRepository(ttl time.Duration) *OAuthStateRepository {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &OAuthStateRepository{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *OAuthStateRepository) Save(state, userID string) {
	r.cache.Set(state, userID, cache.DefaultExpiration)
}

// Take returns the user for state and forgets it, so a state is usable once.
func (r *OAuthStateRepository) Take(state string) (string, bool) {
	x, found := r.cache.Get(state)
	if !found {
		return "", false
	}
	r.cache.Delete(state)
	return x.(string), true
}

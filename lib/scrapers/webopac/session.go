package webopac

import (
	"sync"

	"github.com/go-resty/resty/v2"
)

// CookieStore holds the cookie set of one catalogue session (anonymous or
// logged in). it is the only mutable state shared between workflows: a login
// can run while a search is paging, so every merge and snapshot takes the
// store lock.
type CookieStore struct {
	mu      sync.Mutex
	cookies map[string]string
}

func NewCookieStore() *CookieStore {
	return &CookieStore{cookies: map[string]string{}}
}

// unions the given cookies into the current set, last write wins per name.
func (s *CookieStore) Merge(cookies map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, value := range cookies {
		s.cookies[name] = value
	}
}

// merges every Set-Cookie of a response into the store.
func (s *CookieStore) MergeResponse(res *resty.Response) {
	if res == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range res.Cookies() {
		s.cookies[c.Name] = c.Value
	}
}

// read-only copy for attaching to the next request.
func (s *CookieStore) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.cookies))
	for name, value := range s.cookies {
		out[name] = value
	}
	return out
}

// drops all cookies, used on logout.
func (s *CookieStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies = map[string]string{}
}

// Package registry maps product codes to sealed trading sessions and
// supports atomic replace or merge reloads from configuration rows.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/quantfall/tradesession/internal/session"
	"github.com/quantfall/tradesession/internal/sessioncfg"
)

// Registry is safe for concurrent use: lookups share a read lock,
// loads build the replacement set off to the side and swap it in under
// the write lock, so readers never observe a partial update.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

func New() *Registry {
	return &Registry{sessions: make(map[string]*session.Session)}
}

// Get returns the session for an exact product code. An unknown
// product is not an error.
func (r *Registry) Get(product string) (*session.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[product]
	return s, ok
}

// Has reports whether a product is registered.
func (r *Registry) Has(product string) bool {
	_, ok := r.Get(product)
	return ok
}

// Count returns the number of registered products.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Keys returns a sorted snapshot of the registered product codes.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.sessions))
	for k := range r.sessions {
		keys = append(keys, k)
	}
	r.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Add registers a single session, sealing it if needed. Later loads
// with merge keep it unless the product reappears in the rows.
func (r *Registry) Add(product string, s *session.Session) {
	s.Seal()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[product] = s
}

// Load builds sealed sessions from rows and installs them. With merge
// false the whole mapping is replaced; with merge true existing
// products absent from rows are kept and reappearing products are
// fully replaced. All-or-nothing: any bad row leaves the registry
// untouched.
func (r *Registry) Load(rows []sessioncfg.Row, merge bool) error {
	next := make(map[string]*session.Session, len(rows))
	for _, row := range rows {
		if len(row.Slices) == 0 {
			return fmt.Errorf("product %q: %w: no slices", row.Product, sessioncfg.ErrSource)
		}
		s := session.New()
		for _, sl := range row.Slices {
			if err := s.AddSliceClock(sl.StartHour, sl.StartMinute, sl.StartSecond, sl.EndHour, sl.EndMinute, sl.EndSecond); err != nil {
				return fmt.Errorf("product %q: %w", row.Product, err)
			}
		}
		s.Seal()
		next[row.Product] = s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !merge {
		r.sessions = next
		return nil
	}
	for k, v := range next {
		r.sessions[k] = v
	}
	return nil
}

// LoadCSVFile parses a CSV file and loads it.
func (r *Registry) LoadCSVFile(path string, merge bool) error {
	rows, err := sessioncfg.ParseFile(path)
	if err != nil {
		return err
	}
	return r.Load(rows, merge)
}

// LoadCSVContent parses in-memory CSV content and loads it.
func (r *Registry) LoadCSVContent(content string, merge bool) error {
	rows, err := sessioncfg.ParseContent(content)
	if err != nil {
		return err
	}
	return r.Load(rows, merge)
}

// Per-product forwarders mirror the session queries; ok is false for
// unknown products.

func (r *Registry) DayBegin(product string) (time.Duration, bool) {
	s, ok := r.Get(product)
	if !ok {
		return 0, false
	}
	return s.DayBegin(), true
}

func (r *Registry) DayEnd(product string) (time.Duration, bool) {
	s, ok := r.Get(product)
	if !ok {
		return 0, false
	}
	return s.DayEnd(), true
}

func (r *Registry) MorningBegin(product string) (time.Duration, bool) {
	s, ok := r.Get(product)
	if !ok {
		return 0, false
	}
	return s.MorningBegin(), true
}

func (r *Registry) InSession(product string, t time.Time, includeBegin, includeEnd bool) (bool, bool) {
	s, ok := r.Get(product)
	if !ok {
		return false, false
	}
	return s.InSession(t, includeBegin, includeEnd), true
}

func (r *Registry) AnyInSession(product string, start, end time.Time, includeBeginEnd bool) (bool, bool) {
	s, ok := r.Get(product)
	if !ok {
		return false, false
	}
	return s.AnyInSession(start, end, includeBeginEnd), true
}

// Package memcache implementa el nivel rápido (en proceso) de la caché de
// estadísticas: un mapa protegido con RWMutex, retención física por entrada
// y borrado por patrón glob.
package memcache

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/tu-usuario/warehouse-ops/internal/application/stats"
)

var _ stats.CacheStore = (*Store)(nil)

type item struct {
	entry  stats.Entry
	dropAt time.Time // fin de la retención física (TTL lógico + gracia)
}

// Store nivel de caché en proceso.
type Store struct {
	mu    sync.RWMutex
	items map[string]item
	stop  chan struct{}
	once  sync.Once
}

// New construye el nivel y arranca el recolector de entradas cuya retención
// física venció. El recolector solo toca entradas ya inservibles incluso
// como respuesta degradada.
func New(sweepEvery time.Duration) *Store {
	s := &Store{
		items: make(map[string]item),
		stop:  make(chan struct{}),
	}
	if sweepEvery > 0 {
		go s.sweep(sweepEvery)
	}
	return s
}

// Close detiene el recolector.
func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
}

// Get devuelve la entrada, vencida o no, mientras su retención física siga
// viva; stats.ErrCacheMiss en caso contrario.
func (s *Store) Get(_ context.Context, key string) (*stats.Entry, error) {
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || time.Now().After(it.dropAt) {
		return nil, stats.ErrCacheMiss
	}
	e := it.entry
	return &e, nil
}

// Set guarda la entrada con la retención física indicada.
func (s *Store) Set(_ context.Context, key string, entry *stats.Entry, keepFor time.Duration) error {
	s.mu.Lock()
	s.items[key] = item{entry: *entry, dropAt: time.Now().Add(keepFor)}
	s.mu.Unlock()
	return nil
}

// DeletePattern borra todas las llaves que casan con el patrón glob. Un
// patrón malformado se rechaza de entrada, incluso con el store vacío.
func (s *Store) DeletePattern(_ context.Context, pattern string) (int, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.items {
		ok, err := path.Match(pattern, key)
		if err != nil {
			return n, err
		}
		if ok {
			delete(s.items, key)
			n++
		}
	}
	return n, nil
}

// Len cantidad de entradas vivas (para tests y diagnóstico).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for key, it := range s.items {
				if now.After(it.dropAt) {
					delete(s.items, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

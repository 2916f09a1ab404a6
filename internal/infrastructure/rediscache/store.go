// Package rediscache implementa el nivel compartido de la caché de
// estadísticas sobre Redis: la entrada viaja como envoltura JSON con su
// vencimiento lógico embebido y la retención física es el TTL de Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tu-usuario/warehouse-ops/internal/application/stats"
)

var _ stats.CacheStore = (*Store)(nil)

// Store nivel de caché compartido entre procesos.
type Store struct {
	client *redis.Client
	prefix string
}

// New construye el nivel sobre un cliente ya configurado. El prefijo separa
// los despliegues que comparten instancia de Redis.
func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) fullKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

// Get devuelve la entrada (vencida lógicamente o no, mientras Redis la
// retenga) o stats.ErrCacheMiss.
func (s *Store) Get(ctx context.Context, key string) (*stats.Entry, error) {
	raw, err := s.client.Get(ctx, s.fullKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, stats.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	var entry stats.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// Envoltura corrupta: tratarla como miss para que se recalcule
		return nil, stats.ErrCacheMiss
	}
	return &entry, nil
}

// Set guarda la envoltura con la retención física como TTL de Redis.
func (s *Store) Set(ctx context.Context, key string, entry *stats.Entry, keepFor time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("serializar entrada %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.fullKey(key), raw, keepFor).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// DeletePattern borra por patrón glob usando SCAN + DEL en tandas; nunca
// KEYS, que bloquea la instancia completa.
func (s *Store) DeletePattern(ctx context.Context, pattern string) (int, error) {
	deleted := 0
	iter := s.client.Scan(ctx, 0, s.fullKey(pattern), 200).Iterator()
	batch := make([]string, 0, 200)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.client.Del(ctx, batch...).Result()
		deleted += int(n)
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 200 {
			if err := flush(); err != nil {
				return deleted, fmt.Errorf("redis del %s: %w", pattern, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("redis scan %s: %w", pattern, err)
	}
	if err := flush(); err != nil {
		return deleted, fmt.Errorf("redis del %s: %w", pattern, err)
	}
	return deleted, nil
}

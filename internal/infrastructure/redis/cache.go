// Package redis fournit l'implémentation Redis du cache de rapprochement.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/msylla/tonnage-api/internal/application/reconciliation"
)

var _ reconciliation.Cache = (*Cache)(nil)

// Cache adaptateur go-redis du port reconciliation.Cache.
// Les valeurs sont sérialisées en JSON.
type Cache struct {
	client *redis.Client
}

// NewCache construit l'adaptateur sur un client déjà connecté.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get lit et désérialise la valeur de cle dans dest.
// Retourne reconciliation.ErrCacheMiss si la clé est absente ou expirée.
func (c *Cache) Get(ctx context.Context, cle string, dest any) error {
	data, err := c.client.Get(ctx, cle).Bytes()
	if err != nil {
		if err == redis.Nil {
			return reconciliation.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", cle, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal cache %s: %w", cle, err)
	}
	return nil
}

// Set sérialise et stocke valeur sous cle avec le TTL donné.
func (c *Cache) Set(ctx context.Context, cle string, valeur any, ttl time.Duration) error {
	data, err := json.Marshal(valeur)
	if err != nil {
		return fmt.Errorf("marshal cache %s: %w", cle, err)
	}
	if err := c.client.Set(ctx, cle, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", cle, err)
	}
	return nil
}

// Invalider supprime toutes les clés correspondant au motif (ex: "reconciliation:*").
// Le parcours utilise SCAN pour ne pas bloquer le serveur.
func (c *Cache) Invalider(ctx context.Context, motif string) error {
	iter := c.client.Scan(ctx, 0, motif, 100).Iterator()
	var cles []string
	for iter.Next(ctx) {
		cles = append(cles, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %s: %w", motif, err)
	}
	if len(cles) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, cles...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

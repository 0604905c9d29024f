package services

import (
	"context"
	"encoding/json"
	"time"

	"firedesk/models"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	cacheKeyAlerts    = "firedesk:snapshot:alerts"
	cacheKeyIncidents = "firedesk:snapshot:incidents"
	cacheKeyReferrals = "firedesk:snapshot:referrals"
)

// CacheService persists collection snapshots to redis so a restarted
// console can render stale lists immediately. It is best-effort
// everywhere: cache failures are logged and ignored, and a nil client
// disables the whole thing.
type CacheService struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewCacheService returns nil when no redis client is configured;
// callers treat a nil service as a disabled cache.
func NewCacheService(client *redis.Client, ttl time.Duration) *CacheService {
	if client == nil {
		return nil
	}
	return &CacheService{redis: client, ttl: ttl}
}

func (cs *CacheService) SaveSnapshot(ctx context.Context, alerts []*models.Alert, incidents []*models.Incident, referrals []*models.Referral) {
	if cs == nil {
		return
	}

	cs.saveKey(ctx, cacheKeyAlerts, alerts)
	cs.saveKey(ctx, cacheKeyIncidents, incidents)
	cs.saveKey(ctx, cacheKeyReferrals, referrals)
}

// LoadSnapshot returns the cached collections, or ok=false when the
// cache is disabled, empty or unreadable.
func (cs *CacheService) LoadSnapshot(ctx context.Context) ([]*models.Alert, []*models.Incident, []*models.Referral, bool) {
	if cs == nil {
		return nil, nil, nil, false
	}

	var alerts []*models.Alert
	if !cs.loadKey(ctx, cacheKeyAlerts, &alerts) {
		return nil, nil, nil, false
	}
	var incidents []*models.Incident
	cs.loadKey(ctx, cacheKeyIncidents, &incidents)
	var referrals []*models.Referral
	cs.loadKey(ctx, cacheKeyReferrals, &referrals)

	return alerts, incidents, referrals, true
}

func (cs *CacheService) saveKey(ctx context.Context, key string, value interface{}) {
	encoded, err := json.Marshal(value)
	if err != nil {
		logrus.Warnf("Failed to encode snapshot %s: %v", key, err)
		return
	}
	if err := cs.redis.Set(ctx, key, encoded, cs.ttl).Err(); err != nil {
		logrus.Warnf("Failed to save snapshot %s: %v", key, err)
	}
}

func (cs *CacheService) loadKey(ctx context.Context, key string, out interface{}) bool {
	encoded, err := cs.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.Warnf("Failed to load snapshot %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(encoded, out); err != nil {
		logrus.Warnf("Failed to decode snapshot %s: %v", key, err)
		return false
	}
	return true
}

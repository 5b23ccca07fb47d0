// SPDX-FileCopyrightText: 2026-present Cellplan Project <info@cellplan.io>
//
// SPDX-License-Identifier: Apache-2.0

package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/cellplan/radiosim/pkg/model"
)

// Store caches finished run statistics keyed by scenario digest, so repeated
// sweeps over the same scenario grid skip already-simulated combinations.
type Store interface {
	Save(ctx context.Context, digest string, stats *model.ScenarioStatistics) error
	Get(ctx context.Context, digest string) (*model.ScenarioStatistics, error)
	Delete(ctx context.Context, digest string) error
}

// ScenarioDigest returns a stable hexadecimal digest of a scenario's JSON
// form. Two scenarios share a digest exactly when every parameter matches.
func ScenarioDigest(sc *model.Scenario) (string, error) {
	b, err := json.Marshal(sc)
	if err != nil {
		return "", fmt.Errorf("failed to digest scenario: %v", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// RedisStore is a Store backed by a single redis database.
type RedisStore struct {
	DB *redis.Client
}

// InitClient connects to redis and verifies the connection with a bounded
// exponential-backoff ping. Returns nil when the server stays unreachable.
func InitClient(redisHost, redisPort, db string) *redis.Client {
	database, err := strconv.Atoi(db)
	if err != nil {
		log.Error(err)
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort),
		DB:   database,
	})

	ping := func() error {
		return client.Ping(context.Background()).Err()
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	if err := backoff.Retry(ping, policy); err != nil {
		log.Errorf("redis at %s:%s unreachable: %v", redisHost, redisPort, err)
		return nil
	}
	return client
}

func (s *RedisStore) Save(ctx context.Context, digest string, stats *model.ScenarioStatistics) error {
	statsBytes, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal run statistics: %v", err)
	}
	return s.DB.Set(ctx, key(digest), statsBytes, time.Duration(0)).Err()
}

func (s *RedisStore) Get(ctx context.Context, digest string) (*model.ScenarioStatistics, error) {
	statsBytes, err := s.DB.Get(ctx, key(digest)).Result()
	if err != nil {
		return nil, fmt.Errorf("error fetching run statistics for digest %s: %v", digest, err)
	}
	stats := &model.ScenarioStatistics{}
	if err := json.Unmarshal([]byte(statsBytes), stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run statistics: %v", err)
	}
	return stats, nil
}

func (s *RedisStore) Delete(ctx context.Context, digest string) error {
	return s.DB.Del(ctx, key(digest)).Err()
}

func key(digest string) string {
	return digest + "-RunStatistics"
}

package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

// SQLite backed cache for routed trips.
// Keys are expected to be consistent (e.g., already normalized)
// by the caller. Entries older than TTL are treated as misses; a zero TTL
// keeps entries forever.
type SqliteRouteCache struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

func NewSqliteRouteCache(db *sql.DB, ttl time.Duration) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db, TTL: ttl, now: time.Now}
}

// Fetch a cached route by key.
func (s *SqliteRouteCache) GetRoute(
	ctx context.Context,
	key string,
) (_ *domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.sqlite.GetRoute")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, errors.New("get route cache: key must not be empty")
	}

	q := `
	SELECT
        payload,
        created_at
    FROM route_cache
    WHERE cache_key = ?;
	`

	var payload string
	var createdAt int64
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	if s.TTL > 0 && s.now().Sub(time.Unix(createdAt, 0)) > s.TTL {
		return nil, false, nil
	}

	var route domain.Route
	if err := json.Unmarshal([]byte(payload), &route); err != nil {
		return nil, false, fmt.Errorf("get route cache: decode payload for %q: %w", key, err)
	}

	return &route, true, nil
}

// Store a route under key, replacing any previous entry.
func (s *SqliteRouteCache) PutRoute(ctx context.Context, key string, route *domain.Route) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert route cache: key must not be empty")
	}
	if route == nil {
		return errors.New("insert route cache: route is nil")
	}

	payload, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("insert route cache: encode route: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO route_cache (
        cache_key,
        payload,
        created_at
    )
    VALUES (?, ?, ?);
	`, key, string(payload), s.now().Unix())
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}

// Package cache is the tagged response store behind the remote client. Entries are
// written with one or more invalidation tags; invalidating a tag drops every entry
// carrying it so the next read refetches.
package cache

import (
	"context"
	"strings"
	"time"

	"application-admin/internal/common/metrics"
)

// Store is the tagged cache contract. Get reports ok=false on a miss.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, tags ...string) error
	Invalidate(ctx context.Context, tags ...string) error
	Close() error
}

// Tags used by the applications client.
const (
	TagApplicationList = "ApplicationList"
	tagApplicationPref = "Application:"
)

// ApplicationTag is the tag for a single application's detail entry.
func ApplicationTag(id string) string {
	return tagApplicationPref + id
}

// tagKind collapses per-id tags into one metric label value.
func tagKind(tag string) string {
	if strings.HasPrefix(tag, tagApplicationPref) {
		return "application"
	}
	if tag == TagApplicationList {
		return "list"
	}
	return "other"
}

func recordInvalidation(tags []string) {
	for _, tag := range tags {
		metrics.CacheInvalidationsTotal.WithLabelValues(tagKind(tag)).Inc()
	}
}

func recordLookup(ok bool, err error) {
	switch {
	case err != nil:
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
	case ok:
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	default:
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	}
}

// clock is swapped in tests.
type clock func() time.Time

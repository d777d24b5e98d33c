// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkdex/inkdex/internal/platform/constants"
)

// RedisRecents implements [RecentsSink] on a capped Redis list. The site
// front page reads the list newest-first to show recently indexed issues.
type RedisRecents struct {
	client *redis.Client
	size   int
}

// NewRedisRecents returns a feed sink keeping at most size entries.
func NewRedisRecents(client *redis.Client, size int) *RedisRecents {
	return &RedisRecents{client: client, size: size}
}

// recentEntry is the wire form of one feed item.
type recentEntry struct {
	IssueID   int64     `json:"issue_id"`
	IndexedAt time.Time `json:"indexed_at"`
}

/*
IssueIndexed pushes one issue onto the feed and trims the tail.

Parameters:
  - context: context.Context
  - issueID: int64
  - at: time.Time

Returns:
  - error: Redis failures
*/
func (r *RedisRecents) IssueIndexed(context context.Context, issueID int64, at time.Time) error {
	entry, err := json.Marshal(recentEntry{IssueID: issueID, IndexedAt: at.UTC()})
	if err != nil {
		return fmt.Errorf("oi: encode recents entry: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(context, constants.RedisKeyRecentsFeed, entry)
	pipe.LTrim(context, constants.RedisKeyRecentsFeed, 0, int64(r.size)-1)
	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("oi: push recents entry: %w", err)
	}
	return nil
}

/*
Recent returns the newest feed entries, most recent first.

Parameters:
  - context: context.Context

Returns:
  - []int64: Issue ids, newest first
  - error: Redis failures
*/
func (r *RedisRecents) Recent(context context.Context) ([]int64, error) {
	items, err := r.client.LRange(context, constants.RedisKeyRecentsFeed, 0, int64(r.size)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("oi: read recents feed: %w", err)
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		var entry recentEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("oi: decode recents entry: %w", err)
		}
		out = append(out, entry.IssueID)
	}
	return out, nil
}

package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix = "user:%d"
	PostKeyPrefix = "post:%d"
)

const (
	UserTTL = 5 * time.Minute
	PostTTL = 30 * time.Minute
)

func UserKey(userID int64) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID int64) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID int64) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID int64) {
	Invalidate(ctx, PostKey(postID))
}

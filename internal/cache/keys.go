package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix = "user:%d"
	PostKeyPrefix = "post:%d"
	PostsListKey  = "posts:list"
	UsersListKey  = "users:list"
)

const (
	UserTTL  = 5 * time.Minute
	PostTTL  = 30 * time.Minute
	ListTTL  = 1 * time.Minute
	UsersTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// Invalidate deletes keys, ignoring failures.
func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateUser drops the cached user and the user list.
func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID), UsersListKey)
}

// InvalidatePost drops the cached post and the post list.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID), PostsListKey)
}

// InvalidatePostsList drops only the post list.
func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, PostsListKey)
}

package util

import (
	"context"
	"fmt"

	"consultorio-api/config"
	"github.com/redis/go-redis/v9"
)

// Session tokens are tracked in a per-user Redis set so all of a
// practitioner's sessions can be invalidated at once (password change,
// lockout). Every helper is a no-op when Redis is unavailable; the DB
// user_sessions table remains the source of truth.

func userSetKey(userID uint) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}

// AddSessionToUserSet records a session token in the per-user set. The set
// has no TTL and relies on explicit cleanup.
func AddSessionToUserSet(userID uint, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	ctx := context.Background()
	if err := rdb.SAdd(ctx, userSetKey(userID), token).Err(); err != nil {
		return err
	}
	return rdb.Persist(ctx, userSetKey(userID)).Err()
}

// RemoveSessionTokenFromUserSet removes one session token from the per-user
// set, deleting the set atomically if it becomes empty.
func RemoveSessionTokenFromUserSet(userID uint, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	script := `
		local removed = redis.call('SREM', KEYS[1], ARGV[1])
		if removed > 0 then
			local count = redis.call('SCARD', KEYS[1])
			if count == 0 then
				redis.call('DEL', KEYS[1])
			end
		end
		return removed
	`
	return rdb.Eval(context.Background(), script, []string{userSetKey(userID)}, token).Err()
}

// InvalidateUserSessions deletes all session:<token> keys for the user and
// removes the per-user set. Best-effort; callers may ignore the error.
func InvalidateUserSessions(userID uint) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	ctx := context.Background()
	members, err := rdb.SMembers(ctx, userSetKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	for _, tok := range members {
		_ = rdb.Del(ctx, fmt.Sprintf("session:%s", tok)).Err()
	}
	return rdb.Del(ctx, userSetKey(userID)).Err()
}

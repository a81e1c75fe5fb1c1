package util

import (
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// userEmailCache maps user ID -> email for audit logging, so the endpoint
// logger does not hit the users table on every request.
var userEmailCache = cache.New(15*time.Minute, 5*time.Minute)

// GetUserEmail returns the email for a user ID, consulting the cache before
// the database. Unknown or zero IDs return the empty string.
func GetUserEmail(db *gorm.DB, userID uint) string {
	if userID == 0 {
		return ""
	}
	key := fmt.Sprintf("%d", userID)
	if email, ok := userEmailCache.Get(key); ok {
		return email.(string)
	}
	if db == nil {
		return ""
	}
	var u struct{ Email string }
	if err := db.Table("users").Select("email").Where("id = ?", userID).Take(&u).Error; err != nil {
		return ""
	}
	if u.Email != "" {
		userEmailCache.Set(key, u.Email, cache.DefaultExpiration)
	}
	return u.Email
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
)

const (
	// ActorKey is the context key for the acting user
	ActorKey = "actor"
	// UserIDHeader carries the acting user's ID
	UserIDHeader = "X-User-ID"
	// UserNameHeader carries the acting user's display name
	UserNameHeader = "X-User-Name"
)

// Actor resolves the acting user from the request headers and stores it in
// the context. Requests without X-User-ID act as fallback.
func Actor(fallback models.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := fallback
		if id := strings.TrimSpace(c.GetHeader(UserIDHeader)); id != "" {
			actor = models.Actor{
				UserID:      id,
				DisplayName: strings.TrimSpace(c.GetHeader(UserNameHeader)),
			}
			if actor.DisplayName == "" {
				actor.DisplayName = id
			}
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}

// GetActor retrieves the acting user from the Gin context.
// Returns models.DefaultActor if none was set.
func GetActor(c *gin.Context) models.Actor {
	if v, exists := c.Get(ActorKey); exists {
		if actor, ok := v.(models.Actor); ok {
			return actor.OrDefault()
		}
	}
	return models.DefaultActor
}

package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/trackiy/internal/observability/context"
)

const contextUserIDKey = "user_id"

// AuthRequired resolves the session cookie into a user id and rejects
// the request when no valid session exists.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		session, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, session.UserID)
		c.Request = c.Request.WithContext(
			obscontext.WithUserID(c.Request.Context(), session.UserID.String()),
		)
		c.Next()
	}
}

func currentUserID(c *gin.Context) (snowflake.ID, bool) {
	value, exists := c.Get(contextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(snowflake.ID)
	return id, ok
}

// pathID parses a snowflake path parameter. Malformed ids map to not
// found so probing with garbage looks the same as a missing row.
func pathID(c *gin.Context, name string) (snowflake.ID, error) {
	raw := c.Param(name)
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, ErrNotFound
	}
	return id, nil
}

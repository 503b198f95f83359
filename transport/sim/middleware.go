package sim

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const addressKey = "userAddress"

// AuthMiddleware creates middleware that validates bearer session tokens
func AuthMiddleware(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")

		// Check if the Authorization header is present and in correct format
		if len(auth) < 8 || auth[:7] != "Bearer " {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		address, err := issuer.Parse(auth[7:])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(addressKey, address)
		c.Next()
	}
}

// scripted counts requests and serves queued replies
func (s *Server) scripted(endpoint Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.hits[endpoint]++
		queue := s.scripts[endpoint]
		var reply *Reply
		if len(queue) > 0 {
			reply = &queue[0]
			s.scripts[endpoint] = queue[1:]
		}
		s.mu.Unlock()

		if reply == nil {
			c.Next()
			return
		}

		if reply.RetryAfter != "" {
			c.Header("Retry-After", reply.RetryAfter)
		}
		body := reply.Body
		if body == nil {
			body = gin.H{"error": http.StatusText(reply.Status)}
		}
		c.AbortWithStatusJSON(reply.Status, body)
	}
}

// recordClientID keeps every client id sent to the identity endpoint, rejected requests included
func (s *Server) recordClientID(c *gin.Context) {
	s.mu.Lock()
	s.clientIDs = append(s.clientIDs, c.Query("clientId"))
	s.mu.Unlock()
	c.Next()
}

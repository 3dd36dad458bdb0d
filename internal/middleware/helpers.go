// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetAgencyID returns the agency the request is scoped to.
func GetAgencyID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxAgencyID)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// MustGetAgencyID gets agency ID from context or panics
func MustGetAgencyID(c *gin.Context) string {
	agencyID, exists := GetAgencyID(c)
	if !exists {
		panic("agency_id not found in context")
	}
	return agencyID
}

func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

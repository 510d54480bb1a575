package handlers

import (
	"fmt"
	"time"

	"edufy-erp/config"
	"edufy-erp/models"

	"github.com/gin-gonic/gin"
)

func getUserIDFromContext(c *gin.Context) (uint, error) {
	val, ok := c.Get("user_id")
	if !ok {
		return 0, fmt.Errorf("user_id missing from context")
	}
	switch v := val.(type) {
	case uint:
		return v, nil
	case int:
		return uint(v), nil
	case int64:
		return uint(v), nil
	case float64:
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unexpected user_id type: %T", val)
	}
}

// orgIDFromContext returns the authenticated user's organization, falling
// back to the default tenant for single-academy installs.
func orgIDFromContext(c *gin.Context) *uint {
	if val, ok := c.Get("org_id"); ok {
		if id, ok := val.(*uint); ok && id != nil {
			return id
		}
	}
	id := config.DefaultOrgID
	return &id
}

// currentSession returns the academic-year tag for "now" using the org's
// configured year-start month (September when unset).
func currentSession(orgID *uint) string {
	startMonth := 9
	if orgID != nil && config.DB != nil {
		var settings models.OrganizationSettings
		if err := config.DB.Where("org_id = ?", *orgID).First(&settings).Error; err == nil && settings.AcademicYearStart != 0 {
			startMonth = settings.AcademicYearStart
		}
	}
	return models.AcademicSession(time.Now(), startMonth)
}

// parseDate parses the YYYY-MM-DD dates the clients send.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

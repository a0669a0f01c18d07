package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
)

func (s *Server) GetAdminOverview(c *gin.Context) {
	resp, err := s.reports.GetAdminOverview(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetSystemRevenueTrend(c *gin.Context) {
	points, err := s.reports.GetRevenueTrend(c.Request.Context(), reportingdomain.RevenueTrendRequest{})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"revenue_trend": points})
}

func (s *Server) GetTopPerformers(c *gin.Context) {
	resp, err := s.reports.GetTopPerformers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

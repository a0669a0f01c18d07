package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"go.uber.org/zap"
)

func (s *Server) GetCashFlowSummary(c *gin.Context) {
	landlordID, err := landlordIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reports.GetCashFlowSummary(c.Request.Context(), reportingdomain.CashFlowRequest{
		LandlordID: landlordID,
		Month:      c.Query("month"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetLandlordStats(c *gin.Context) {
	landlordID, err := landlordIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	stats, err := s.reports.GetLandlordStats(c.Request.Context(), landlordID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// stats is nil when the landlord owns no properties.
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (s *Server) GetLandlordRevenueTrend(c *gin.Context) {
	landlordID, err := landlordIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	points, err := s.reports.GetRevenueTrend(c.Request.Context(), reportingdomain.RevenueTrendRequest{LandlordID: &landlordID})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"revenue_trend": points})
}

func (s *Server) GetDashboardSummary(c *gin.Context) {
	landlordID, err := landlordIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reports.GetDashboardSummary(c.Request.Context(), landlordID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func parseRevenueReportRequest(c *gin.Context) (reportingdomain.RevenueReportRequest, error) {
	landlordID, err := landlordIDParam(c)
	if err != nil {
		return reportingdomain.RevenueReportRequest{}, err
	}
	start, end, err := dateRangeQuery(c)
	if err != nil {
		return reportingdomain.RevenueReportRequest{}, err
	}
	propertyID, err := propertyIDQuery(c)
	if err != nil {
		return reportingdomain.RevenueReportRequest{}, err
	}
	return reportingdomain.RevenueReportRequest{
		LandlordID: landlordID,
		StartDate:  start,
		EndDate:    end,
		PropertyID: propertyID,
	}, nil
}

func (s *Server) GetRevenueReport(c *gin.Context) {
	req, err := parseRevenueReportRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reports.GetLandlordRevenueReport(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetRevenueStatement(c *gin.Context) {
	if s.renderer == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	req, err := parseRevenueReportRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	report, err := s.reports.GetLandlordRevenueReport(ctx, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.renderer.RenderRevenueStatement(ctx, report)
	if err != nil {
		s.log.Error("render revenue statement", zap.String("landlord_id", req.LandlordID.String()), zap.Error(err))
		AbortWithError(c, ErrInternal)
		return
	}
	body, err := io.ReadAll(doc)
	if err != nil {
		AbortWithError(c, ErrInternal)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="revenue-%s.pdf"`, req.LandlordID.String()))
	c.Data(http.StatusOK, "application/pdf", body)
}

func (s *Server) GetPropertyPerformance(c *gin.Context) {
	landlordID, err := landlordIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	months, err := parseOptionalInt(c.Query("months"))
	if err != nil || (months != nil && *months < 0) {
		AbortWithError(c, reportingdomain.ErrInvalidMonths)
		return
	}

	req := reportingdomain.PropertyPerformanceRequest{LandlordID: landlordID}
	if months != nil {
		req.Months = *months
	}

	resp, err := s.reports.GetPropertyPerformance(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetTenantBehavior(c *gin.Context) {
	landlordID, err := landlordIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	propertyID, err := propertyIDQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reports.GetTenantBehavior(c.Request.Context(), reportingdomain.TenantBehaviorRequest{
		LandlordID: landlordID,
		PropertyID: propertyID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetExpenseReport(c *gin.Context) {
	landlordID, err := landlordIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	start, end, err := dateRangeQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reports.GetExpenseReport(c.Request.Context(), reportingdomain.ExpenseReportRequest{
		LandlordID: landlordID,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

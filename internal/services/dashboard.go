package services

import (
	"context"
	"sort"

	"back2u-backend/internal/models"
	"back2u-backend/internal/query"

	"golang.org/x/sync/errgroup"
)

const dashboardReportLimit = 4

// Dashboard is the home screen summary of one user
type Dashboard struct {
	Reports     []*models.Report `json:"reports"`
	Returns     []*models.Return `json:"returns"`
	ReportCount int              `json:"report_count"`
	ReturnCount int              `json:"return_count"`
}

// DashboardService assembles dashboards
type DashboardService struct {
	reportService *ReportService
	returnService *ReturnService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(reportService *ReportService, returnService *ReturnService) *DashboardService {
	return &DashboardService{
		reportService: reportService,
		returnService: returnService,
	}
}

// GetDashboard returns uid's newest reports and all of uid's returns,
// newest first. Both collections are fetched concurrently.
func (s *DashboardService) GetDashboard(ctx context.Context, uid string) (*Dashboard, error) {
	var (
		reports []*models.Report
		returns []*models.Return
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reports, err = s.reportService.ListReports(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		returns, err = s.returnService.ListReturns(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reports = query.FilterByOwner(reports, uid)
	returns = query.FilterByOwner(returns, uid)
	sort.SliceStable(reports, func(i, j int) bool { return reports[i].CreatedAt.After(reports[j].CreatedAt) })
	sort.SliceStable(returns, func(i, j int) bool { return returns[i].CreatedAt.After(returns[j].CreatedAt) })

	d := &Dashboard{
		Reports:     reports,
		Returns:     returns,
		ReportCount: len(reports),
		ReturnCount: len(returns),
	}
	if len(d.Reports) > dashboardReportLimit {
		d.Reports = d.Reports[:dashboardReportLimit]
	}
	return d, nil
}

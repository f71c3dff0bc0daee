package service

import (
	"context"
	"sync"

	"github.com/transparentprocure/oversight-service/client"
	"github.com/transparentprocure/oversight-service/risk"
	"github.com/transparentprocure/oversight-service/view"
	"golang.org/x/sync/errgroup"

	log "github.com/sirupsen/logrus"
)

type DashboardService interface {
	GetDashboard(ctx context.Context) (*view.DashboardView, error)
}

func NewDashboardService(procurementClient client.ProcurementClient, evaluator risk.Evaluator, highRiskLimit int) DashboardService {
	if highRiskLimit <= 0 {
		highRiskLimit = risk.DefaultHighRiskLimit
	}
	return &dashboardServiceImpl{procurementClient: procurementClient, evaluator: evaluator, highRiskLimit: highRiskLimit}
}

type dashboardServiceImpl struct {
	procurementClient client.ProcurementClient
	evaluator         risk.Evaluator
	highRiskLimit     int
}

// GetDashboard fetches tenders, contractors and posts concurrently. A failed section is reported
// in Errors and rendered empty; a rejected session aborts the whole dashboard. Once joined, citizen
// delay reports flag their tenders and contractors sent without a score get a derived one.
func (d dashboardServiceImpl) GetDashboard(ctx context.Context) (*view.DashboardView, error) {
	var tenders []view.Tender
	var contractors []view.Contractor
	var posts []view.Post

	var errorsMutex sync.Mutex
	sectionErrors := make([]view.SectionError, 0)
	fail := func(ctx context.Context, section string, err error) error {
		msg, err := sectionFailure(ctx, section, err)
		if err != nil {
			return err
		}
		errorsMutex.Lock()
		sectionErrors = append(sectionErrors, view.SectionError{Section: section, Message: msg})
		errorsMutex.Unlock()
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if tenders, err = d.procurementClient.GetTenders(gctx, ""); err != nil {
			return fail(gctx, "tenders", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if contractors, err = d.procurementClient.GetContractors(gctx); err != nil {
			return fail(gctx, "contractors", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if posts, err = d.procurementClient.GetPosts(gctx, ""); err != nil {
			return fail(gctx, "posts", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tenders = risk.CitizenFlags(tenders, posts)
	contractors = risk.DeriveMissingScores(contractors, tenders, posts)

	counties := make(map[string]struct{})
	for _, t := range tenders {
		counties[t.County] = struct{}{}
	}
	result := &view.DashboardView{
		ActiveTenders:       len(tenders),
		Anomalies:           d.evaluator.Aggregate(tenders),
		HighRiskContractors: risk.ContractorRows(risk.TopRisk(contractors, d.highRiskLimit)),
		RecentPosts:         RecentPosts(posts, recentPostsCount),
		Counties:            len(counties),
	}
	if len(sectionErrors) > 0 {
		result.Errors = sectionErrors
		log.Debugf("Dashboard rendered with %d failed sections", len(sectionErrors))
	}
	return result, nil
}

package service

import (
	"context"

	"github.com/transparentprocure/oversight-service/client"
	"github.com/transparentprocure/oversight-service/risk"
	"github.com/transparentprocure/oversight-service/view"
)

type TenderService interface {
	GetTendersView(ctx context.Context, county string) (*view.TendersView, error)
	GetRankedAnomalies(ctx context.Context, county string, limit int) (*view.RankedAnomaliesView, error)
	GetCountyBreakdown(ctx context.Context) (*view.CountiesView, error)
}

func NewTenderService(procurementClient client.ProcurementClient, evaluator risk.Evaluator) TenderService {
	return &tenderServiceImpl{procurementClient: procurementClient, evaluator: evaluator}
}

type tenderServiceImpl struct {
	procurementClient client.ProcurementClient
	evaluator         risk.Evaluator
}

func (t tenderServiceImpl) GetTendersView(ctx context.Context, county string) (*view.TendersView, error) {
	result := &view.TendersView{
		County:    county,
		Threshold: t.evaluator.Threshold(),
		Tenders:   []view.TenderRow{},
	}
	tenders, err := t.procurementClient.GetTenders(ctx, county)
	if err != nil {
		msg, err := sectionFailure(ctx, "tenders", err)
		if err != nil {
			return nil, err
		}
		result.Error = msg
		result.Summary = t.evaluator.Aggregate(nil)
		return result, nil
	}
	result.Total = len(tenders)
	result.Summary = t.evaluator.Aggregate(tenders)
	result.Tenders = t.evaluator.Rows(tenders)
	return result, nil
}

func (t tenderServiceImpl) GetRankedAnomalies(ctx context.Context, county string, limit int) (*view.RankedAnomaliesView, error) {
	result := &view.RankedAnomaliesView{
		Threshold: t.evaluator.Threshold(),
		Anomalies: []view.TenderRow{},
	}
	tenders, err := t.procurementClient.GetTenders(ctx, county)
	if err != nil {
		msg, err := sectionFailure(ctx, "tenders", err)
		if err != nil {
			return nil, err
		}
		result.Error = msg
		return result, nil
	}
	ranked := t.evaluator.Rank(tenders)
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	result.Anomalies = t.evaluator.Rows(ranked)
	return result, nil
}

func (t tenderServiceImpl) GetCountyBreakdown(ctx context.Context) (*view.CountiesView, error) {
	result := &view.CountiesView{Counties: []view.CountyBreakdown{}}
	tenders, err := t.procurementClient.GetTenders(ctx, "")
	if err != nil {
		msg, err := sectionFailure(ctx, "tenders", err)
		if err != nil {
			return nil, err
		}
		result.Error = msg
		return result, nil
	}
	result.Counties = t.evaluator.CountyBreakdown(tenders)
	return result, nil
}

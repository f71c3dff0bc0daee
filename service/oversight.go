package service

import (
	"context"

	"github.com/transparentprocure/oversight-service/client"
	"github.com/transparentprocure/oversight-service/view"
)

type OversightService interface {
	GetFraudAlerts(ctx context.Context) (*view.FraudAlertsView, error)
	GetAudits(ctx context.Context) (*view.AuditsView, error)
}

func NewOversightService(procurementClient client.ProcurementClient) OversightService {
	return &oversightServiceImpl{procurementClient: procurementClient}
}

type oversightServiceImpl struct {
	procurementClient client.ProcurementClient
}

func (o oversightServiceImpl) GetFraudAlerts(ctx context.Context) (*view.FraudAlertsView, error) {
	result := &view.FraudAlertsView{Alerts: []view.FraudAlert{}}
	alerts, err := o.procurementClient.GetFraudAlerts(ctx)
	if err != nil {
		msg, err := sectionFailure(ctx, "fraud alerts", err)
		if err != nil {
			return nil, err
		}
		result.Error = msg
		return result, nil
	}
	result.Alerts = alerts
	result.Total = len(alerts)
	for _, alert := range alerts {
		switch alert.Status {
		case view.AlertOpen:
			result.Open++
		case view.AlertInvestigating:
			result.Investigating++
		case view.AlertResolved:
			result.Resolved++
		}
	}
	return result, nil
}

func (o oversightServiceImpl) GetAudits(ctx context.Context) (*view.AuditsView, error) {
	result := &view.AuditsView{Audits: []view.Audit{}}
	audits, err := o.procurementClient.GetAudits(ctx)
	if err != nil {
		msg, err := sectionFailure(ctx, "audits", err)
		if err != nil {
			return nil, err
		}
		result.Error = msg
		return result, nil
	}
	result.Audits = audits
	result.Total = len(audits)
	for _, audit := range audits {
		switch audit.Status {
		case view.AuditInProgress:
			result.InProgress++
		case view.AuditCompleted:
			result.Completed++
		}
		result.TotalFindings += len(audit.Findings)
	}
	return result, nil
}

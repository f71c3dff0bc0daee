package service

import (
	"context"

	"github.com/transparentprocure/oversight-service/client"
	"github.com/transparentprocure/oversight-service/risk"
	"github.com/transparentprocure/oversight-service/view"

	log "github.com/sirupsen/logrus"
)

const RegistrySource = "registry"

type ContractorService interface {
	GetContractorsView(ctx context.Context, source string) (*view.ContractorsView, error)
	GetHighRisk(ctx context.Context, limit int) (*view.HighRiskView, error)
	GetBlacklistReport(ctx context.Context) (*view.BlacklistReportView, error)
}

func NewContractorService(procurementClient client.ProcurementClient, defaultLimit int) ContractorService {
	if defaultLimit <= 0 {
		defaultLimit = risk.DefaultHighRiskLimit
	}
	return &contractorServiceImpl{procurementClient: procurementClient, defaultLimit: defaultLimit}
}

type contractorServiceImpl struct {
	procurementClient client.ProcurementClient
	defaultLimit      int
}

func (c contractorServiceImpl) GetContractorsView(ctx context.Context, source string) (*view.ContractorsView, error) {
	var contractors []view.Contractor
	var err error
	if source == RegistrySource {
		contractors, err = c.procurementClient.GetRegistryContractors(ctx)
	} else {
		source = "contractors"
		contractors, err = c.procurementClient.GetContractors(ctx)
	}
	result := &view.ContractorsView{Source: source, Contractors: []view.ContractorRow{}}
	if err != nil {
		msg, err := sectionFailure(ctx, "contractors", err)
		if err != nil {
			return nil, err
		}
		result.Error = msg
		return result, nil
	}
	result.Total = len(contractors)
	result.Contractors = risk.ContractorRows(c.deriveMissingScores(ctx, contractors))
	return result, nil
}

func (c contractorServiceImpl) GetHighRisk(ctx context.Context, limit int) (*view.HighRiskView, error) {
	if limit <= 0 {
		limit = c.defaultLimit
	}
	result := &view.HighRiskView{Limit: limit, Contractors: []view.ContractorRow{}}
	contractors, err := c.procurementClient.GetContractors(ctx)
	if err != nil {
		msg, err := sectionFailure(ctx, "contractors", err)
		if err != nil {
			return nil, err
		}
		result.Error = msg
		return result, nil
	}
	result.Contractors = risk.ContractorRows(risk.TopRisk(c.deriveMissingScores(ctx, contractors), limit))
	return result, nil
}

func (c contractorServiceImpl) GetBlacklistReport(ctx context.Context) (*view.BlacklistReportView, error) {
	result := &view.BlacklistReportView{Contractors: []view.ContractorRow{}}
	contractors, err := c.procurementClient.GetBlacklisted(ctx)
	if err != nil {
		msg, err := sectionFailure(ctx, "blacklisted contractors", err)
		if err != nil {
			return nil, err
		}
		result.Error = msg
		return result, nil
	}
	result.Total = len(contractors)
	result.Contractors = risk.ContractorRows(contractors)
	return result, nil
}

// deriveMissingScores scores contractors the backend sent without a trust score from their tenders
// and the citizen feed. When either fetch fails the records keep a score of 0.
func (c contractorServiceImpl) deriveMissingScores(ctx context.Context, contractors []view.Contractor) []view.Contractor {
	if !risk.HasMissingScores(contractors) {
		return contractors
	}
	tenders, err := c.procurementClient.GetTenders(ctx, "")
	if err != nil {
		log.Warnf("Cannot derive missing contractor scores, tenders unavailable: %v", err)
		return contractors
	}
	posts, err := c.procurementClient.GetPosts(ctx, "")
	if err != nil {
		log.Warnf("Cannot derive missing contractor scores, posts unavailable: %v", err)
		return contractors
	}
	return risk.DeriveMissingScores(contractors, tenders, posts)
}

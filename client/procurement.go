package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/transparentprocure/oversight-service/exception"
	"github.com/transparentprocure/oversight-service/normalizer"
	"github.com/transparentprocure/oversight-service/secctx"
	"github.com/transparentprocure/oversight-service/view"

	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

const DefaultTimeout = 10 * time.Second

// Entity names as the backend nests them in paginated envelopes.
const (
	tendersEntity     = "tenders"
	contractorsEntity = "contractors"
	postsEntity       = "posts"
	alertsEntity      = "alerts"
	auditsEntity      = "audits"
)

type ProcurementClient interface {
	GetTenders(ctx context.Context, county string) ([]view.Tender, error)
	GetContractors(ctx context.Context) ([]view.Contractor, error)
	GetRegistryContractors(ctx context.Context) ([]view.Contractor, error)
	GetBlacklisted(ctx context.Context) ([]view.Contractor, error)
	GetPosts(ctx context.Context, wardId string) ([]view.Post, error)
	GetWardFeed(ctx context.Context, wardId string) ([]view.Post, error)
	GetFraudAlerts(ctx context.Context) ([]view.FraudAlert, error)
	GetAudits(ctx context.Context) ([]view.Audit, error)

	Login(ctx context.Context, credentials view.Credentials) (*view.LoginResult, error)
	Logout(ctx context.Context) error
	GetCurrentUser(ctx context.Context) (*view.User, error)

	// OnUnauthorized registers a hook run with the request context whenever the backend answers 401.
	OnUnauthorized(hook func(ctx context.Context))
}

func NewProcurementClient(baseUrl, accessToken string, timeout time.Duration) ProcurementClient {
	baseUrl = strings.TrimRight(baseUrl, "/")
	parsedUrl, err := url.Parse(baseUrl)
	host := ""
	if err != nil {
		log.Errorf("Can't parse procurement api url: %v", err)
	} else {
		host = parsedUrl.Hostname()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cl := http.Client{Timeout: timeout}
	client := resty.NewWithClient(&cl)
	if host != "" {
		client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(host))
	}

	return &procurementClientImpl{baseUrl: baseUrl, accessToken: accessToken, client: client}
}

type procurementClientImpl struct {
	baseUrl     string
	accessToken string
	client      *resty.Client

	hooksMutex sync.RWMutex
	hooks      []func(ctx context.Context)
}

func (p *procurementClientImpl) OnUnauthorized(hook func(ctx context.Context)) {
	p.hooksMutex.Lock()
	defer p.hooksMutex.Unlock()
	p.hooks = append(p.hooks, hook)
}

func (p *procurementClientImpl) GetTenders(ctx context.Context, county string) ([]view.Tender, error) {
	query := map[string]string{}
	if county != "" {
		query["county"] = county
	}
	records, err := p.getCollection(ctx, "/tenders", query, tendersEntity)
	if err != nil {
		return []view.Tender{}, err
	}
	return normalizer.DecodeTenders(records), nil
}

func (p *procurementClientImpl) GetContractors(ctx context.Context) ([]view.Contractor, error) {
	records, err := p.getCollection(ctx, "/contractors", nil, contractorsEntity)
	if err != nil {
		return []view.Contractor{}, err
	}
	return normalizer.DecodeContractors(records), nil
}

func (p *procurementClientImpl) GetRegistryContractors(ctx context.Context) ([]view.Contractor, error) {
	records, err := p.getCollection(ctx, "/registry/contractors", nil, contractorsEntity)
	if err != nil {
		return []view.Contractor{}, err
	}
	return normalizer.DecodeContractors(records), nil
}

func (p *procurementClientImpl) GetBlacklisted(ctx context.Context) ([]view.Contractor, error) {
	records, err := p.getCollection(ctx, "/registry/blacklisted", nil, contractorsEntity)
	if err != nil {
		return []view.Contractor{}, err
	}
	contractors := normalizer.DecodeContractors(records)
	for i := range contractors {
		contractors[i].Blacklisted = true
	}
	return contractors, nil
}

func (p *procurementClientImpl) GetPosts(ctx context.Context, wardId string) ([]view.Post, error) {
	query := map[string]string{}
	if wardId != "" && wardId != view.AllActivities {
		query["wardId"] = wardId
	}
	records, err := p.getCollection(ctx, "/posts", query, postsEntity)
	if err != nil {
		return []view.Post{}, err
	}
	return normalizer.DecodePosts(records), nil
}

func (p *procurementClientImpl) GetWardFeed(ctx context.Context, wardId string) ([]view.Post, error) {
	records, err := p.getCollection(ctx, "/feed/ward/"+url.PathEscape(wardId), nil, postsEntity)
	if err != nil {
		return []view.Post{}, err
	}
	return normalizer.DecodePosts(records), nil
}

func (p *procurementClientImpl) GetFraudAlerts(ctx context.Context) ([]view.FraudAlert, error) {
	records, err := p.getCollection(ctx, "/fraud/alerts", nil, alertsEntity)
	if err != nil {
		return []view.FraudAlert{}, err
	}
	return normalizer.DecodeFraudAlerts(records), nil
}

func (p *procurementClientImpl) GetAudits(ctx context.Context) ([]view.Audit, error) {
	records, err := p.getCollection(ctx, "/audit/audits", nil, auditsEntity)
	if err != nil {
		return []view.Audit{}, err
	}
	return normalizer.DecodeAudits(records), nil
}

func (p *procurementClientImpl) Login(ctx context.Context, credentials view.Credentials) (*view.LoginResult, error) {
	req := p.client.R()
	req.SetContext(ctx)
	req.SetHeader("Content-Type", "application/json")
	req.SetBody(credentials)

	resp, err := req.Post(p.baseUrl + "/auth/login")
	if err != nil {
		return nil, fmt.Errorf("failed to login user %s: %w", credentials.UserId, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusBadRequest {
		return nil, &exception.CustomError{
			Status:  http.StatusUnauthorized,
			Code:    exception.InvalidCredentials,
			Message: exception.InvalidCredentialsMsg,
			Debug:   envelopeMessage(resp.Body()),
		}
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("failed to login user %s: status code %d %s", credentials.UserId, resp.StatusCode(), envelopeMessage(resp.Body()))
	}

	data := envelopeData(resp.Body())
	token := normalizer.CoerceField(data, []string{"token", "accessToken", "access_token"}, "")
	if token == "" {
		return nil, &exception.CustomError{
			Status:  http.StatusBadGateway,
			Code:    exception.MalformedResponse,
			Message: exception.MalformedResponseMsg,
			Params:  map[string]interface{}{"entity": "login"},
			Debug:   "no token in login response",
		}
	}
	return &view.LoginResult{User: decodeUser(data.Get("user")), Token: token}, nil
}

func (p *procurementClientImpl) Logout(ctx context.Context) error {
	resp, err := p.makeRequest(ctx).Post(p.baseUrl + "/auth/logout")
	if err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	if resp.StatusCode() >= http.StatusMultipleChoices {
		if authErr := p.checkUnauthorized(ctx, resp); authErr != nil {
			return authErr
		}
		return fmt.Errorf("failed to logout: status code %d %s", resp.StatusCode(), envelopeMessage(resp.Body()))
	}
	return nil
}

func (p *procurementClientImpl) GetCurrentUser(ctx context.Context) (*view.User, error) {
	resp, err := p.makeRequest(ctx).Get(p.baseUrl + "/auth/me")
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		if authErr := p.checkUnauthorized(ctx, resp); authErr != nil {
			return nil, authErr
		}
		return nil, fmt.Errorf("failed to get current user: status code %d %s", resp.StatusCode(), envelopeMessage(resp.Body()))
	}
	data := envelopeData(resp.Body())
	if user := data.Get("user"); user.IsObject() {
		data = user
	}
	u := decodeUser(data)
	return &u, nil
}

// getCollection fetches path and unwraps whatever envelope the backend used into raw records.
func (p *procurementClientImpl) getCollection(ctx context.Context, path string, query map[string]string, entityName string) ([]gjson.Result, error) {
	req := p.makeRequest(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(p.baseUrl + path)
	if err != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusBadGateway,
			Code:    exception.BackendUnavailable,
			Message: exception.BackendUnavailableMsg,
			Params:  map[string]interface{}{"entity": entityName},
			Debug:   err.Error(),
		}
	}
	if resp.StatusCode() != http.StatusOK {
		if authErr := p.checkUnauthorized(ctx, resp); authErr != nil {
			return nil, authErr
		}
		return nil, &exception.CustomError{
			Status:  http.StatusBadGateway,
			Code:    exception.BackendUnavailable,
			Message: exception.BackendUnavailableMsg,
			Params:  map[string]interface{}{"entity": entityName},
			Debug:   fmt.Sprintf("GET %s: status code %d %s", path, resp.StatusCode(), envelopeMessage(resp.Body())),
		}
	}
	records, err := normalizer.Unwrap(resp.Body(), entityName)
	if err != nil {
		log.Warnf("Unexpected response shape for GET %s: %v", path, err)
		return nil, err
	}
	log.Debugf("GET %s returned %d %s", path, len(records), entityName)
	return records, nil
}

func (p *procurementClientImpl) checkUnauthorized(ctx context.Context, resp *resty.Response) error {
	if resp == nil || resp.StatusCode() != http.StatusUnauthorized {
		return nil
	}
	log.Debugf("Procurement backend rejected session %s", secctx.GetSessionId(ctx))
	p.hooksMutex.RLock()
	hooks := p.hooks
	p.hooksMutex.RUnlock()
	for _, hook := range hooks {
		hook(ctx)
	}
	return &exception.CustomError{
		Status:  http.StatusUnauthorized,
		Code:    exception.SessionExpired,
		Message: exception.SessionExpiredMsg,
		Debug:   envelopeMessage(resp.Body()),
	}
}

func (p *procurementClientImpl) makeRequest(ctx context.Context) *resty.Request {
	req := p.client.R()
	req.SetContext(ctx)

	token := secctx.GetBackendToken(ctx)
	if secctx.IsSystem(ctx) {
		token = p.accessToken
	}
	if token != "" {
		req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	return req
}

func envelopeData(body []byte) gjson.Result {
	root := gjson.ParseBytes(body)
	if data := root.Get("data"); data.IsObject() {
		return data
	}
	return root
}

func envelopeMessage(body []byte) string {
	msg := gjson.GetBytes(body, "message")
	if msg.Exists() {
		return msg.String()
	}
	if len(body) > 256 {
		return string(body[:256])
	}
	return string(body)
}

func decodeUser(record gjson.Result) view.User {
	return view.User{
		Id:    normalizer.CoerceField(record, []string{"userId", "id", "user_id"}, ""),
		Email: normalizer.CoerceField(record, []string{"email"}, ""),
		Name:  normalizer.CoerceField(record, []string{"name", "fullName"}, ""),
		Role:  normalizer.CoerceField(record, []string{"role"}, ""),
	}
}

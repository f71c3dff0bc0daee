package service

import (
	"context"
	"net/http"
	"sync"

	"github.com/transparentprocure/oversight-service/exception"
	"github.com/transparentprocure/oversight-service/view"
)

var errUnauthorized = &exception.CustomError{Status: http.StatusUnauthorized, Code: exception.SessionExpired, Message: exception.SessionExpiredMsg}

var errBackendDown = &exception.CustomError{
	Status:  http.StatusBadGateway,
	Code:    exception.BackendUnavailable,
	Message: exception.BackendUnavailableMsg,
	Params:  map[string]interface{}{"entity": "test"},
}

type fakeProcurementClient struct {
	mutex sync.Mutex

	tenders     []view.Tender
	contractors []view.Contractor
	registry    []view.Contractor
	blacklisted []view.Contractor
	posts       []view.Post
	alerts      []view.FraudAlert
	audits      []view.Audit
	user        *view.User
	login       *view.LoginResult

	errs map[string]error

	lastCounty string
	lastWard   string
	logouts    int
	hooks      []func(ctx context.Context)
}

func (f *fakeProcurementClient) fail(name string, ctx context.Context) error {
	f.mutex.Lock()
	err := f.errs[name]
	f.mutex.Unlock()
	if exception.IsUnauthorized(err) {
		for _, hook := range f.hooks {
			hook(ctx)
		}
	}
	return err
}

func (f *fakeProcurementClient) GetTenders(ctx context.Context, county string) ([]view.Tender, error) {
	f.mutex.Lock()
	f.lastCounty = county
	f.mutex.Unlock()
	if err := f.fail("tenders", ctx); err != nil {
		return []view.Tender{}, err
	}
	return f.tenders, nil
}

func (f *fakeProcurementClient) GetContractors(ctx context.Context) ([]view.Contractor, error) {
	if err := f.fail("contractors", ctx); err != nil {
		return []view.Contractor{}, err
	}
	return f.contractors, nil
}

func (f *fakeProcurementClient) GetRegistryContractors(ctx context.Context) ([]view.Contractor, error) {
	if err := f.fail("registry", ctx); err != nil {
		return []view.Contractor{}, err
	}
	return f.registry, nil
}

func (f *fakeProcurementClient) GetBlacklisted(ctx context.Context) ([]view.Contractor, error) {
	if err := f.fail("blacklisted", ctx); err != nil {
		return []view.Contractor{}, err
	}
	return f.blacklisted, nil
}

func (f *fakeProcurementClient) GetPosts(ctx context.Context, wardId string) ([]view.Post, error) {
	f.mutex.Lock()
	f.lastWard = wardId
	f.mutex.Unlock()
	if err := f.fail("posts", ctx); err != nil {
		return []view.Post{}, err
	}
	return f.posts, nil
}

func (f *fakeProcurementClient) GetWardFeed(ctx context.Context, wardId string) ([]view.Post, error) {
	f.mutex.Lock()
	f.lastWard = wardId
	f.mutex.Unlock()
	if err := f.fail("posts", ctx); err != nil {
		return []view.Post{}, err
	}
	return f.posts, nil
}

func (f *fakeProcurementClient) GetFraudAlerts(ctx context.Context) ([]view.FraudAlert, error) {
	if err := f.fail("alerts", ctx); err != nil {
		return []view.FraudAlert{}, err
	}
	return f.alerts, nil
}

func (f *fakeProcurementClient) GetAudits(ctx context.Context) ([]view.Audit, error) {
	if err := f.fail("audits", ctx); err != nil {
		return []view.Audit{}, err
	}
	return f.audits, nil
}

func (f *fakeProcurementClient) Login(ctx context.Context, credentials view.Credentials) (*view.LoginResult, error) {
	if err := f.fail("login", ctx); err != nil {
		return nil, err
	}
	return f.login, nil
}

func (f *fakeProcurementClient) Logout(ctx context.Context) error {
	f.mutex.Lock()
	f.logouts++
	f.mutex.Unlock()
	return f.fail("logout", ctx)
}

func (f *fakeProcurementClient) GetCurrentUser(ctx context.Context) (*view.User, error) {
	if err := f.fail("me", ctx); err != nil {
		return nil, err
	}
	return f.user, nil
}

func (f *fakeProcurementClient) OnUnauthorized(hook func(ctx context.Context)) {
	f.hooks = append(f.hooks, hook)
}

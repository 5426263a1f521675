package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apexhub/api"
	"github.com/dmitrymomot/apexhub/apps/leadagent"
	"github.com/dmitrymomot/apexhub/apps/reportagent"
	"github.com/dmitrymomot/apexhub/core/authz"
	"github.com/dmitrymomot/apexhub/core/cache"
	"github.com/dmitrymomot/apexhub/core/scheduler"
	"github.com/dmitrymomot/apexhub/core/tma"
	"github.com/dmitrymomot/apexhub/middleware"
	"github.com/dmitrymomot/apexhub/storage/postgres"
)

const testBotToken = "12345:api-test-token"

// operatorID is the Telegram identity allowlisted for operational
// endpoints in the test environment.
const operatorID int64 = 990001

// fakeRepo is an in-memory stand-in for the postgres repository covering
// every store interface the API stack consumes.
type fakeRepo struct {
	mu          sync.Mutex
	accounts    map[int64]*authz.Account
	orgs        map[uuid.UUID]*postgres.Org
	memberships map[string]*authz.Membership
	joined      map[string]time.Time
	prospects   map[uuid.UUID]*postgres.Prospect
	reports     []postgres.Report
	sentCount   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		accounts:    make(map[int64]*authz.Account),
		orgs:        make(map[uuid.UUID]*postgres.Org),
		memberships: make(map[string]*authz.Membership),
		joined:      make(map[string]time.Time),
		prospects:   make(map[uuid.UUID]*postgres.Prospect),
	}
}

func memberKey(accountID, orgID uuid.UUID) string {
	return accountID.String() + ":" + orgID.String()
}

func (f *fakeRepo) UpsertAccount(ctx context.Context, acc authz.Account) (*authz.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.accounts[acc.TelegramID]
	if ok {
		existing.FullName = acc.FullName
		existing.Username = acc.Username
		existing.PhotoURL = acc.PhotoURL
		cp := *existing
		return &cp, nil
	}
	acc.ID = uuid.New()
	f.accounts[acc.TelegramID] = &acc
	cp := acc
	return &cp, nil
}

func (f *fakeRepo) FindAccountByTelegramID(ctx context.Context, telegramID int64) (*authz.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[telegramID]
	if !ok {
		return nil, nil
	}
	cp := *acc
	return &cp, nil
}

func (f *fakeRepo) CreateOrg(ctx context.Context, name string, creator uuid.UUID) (*postgres.Org, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	org := &postgres.Org{
		ID:         uuid.New(),
		Name:       name,
		Plan:       "free",
		InviteCode: "code-" + strconv.Itoa(len(f.orgs)+1),
		CreatedAt:  time.Now(),
	}
	f.orgs[org.ID] = org
	f.memberships[memberKey(creator, org.ID)] = &authz.Membership{
		AccountID: creator, OrgID: org.ID, Role: authz.RoleAdmin,
	}
	f.joined[memberKey(creator, org.ID)] = time.Now()
	cp := *org
	return &cp, nil
}

func (f *fakeRepo) GetOrg(ctx context.Context, orgID uuid.UUID) (*postgres.Org, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	org, ok := f.orgs[orgID]
	if !ok {
		return nil, nil
	}
	cp := *org
	return &cp, nil
}

func (f *fakeRepo) GetOrgByInviteCode(ctx context.Context, code string) (*postgres.Org, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, org := range f.orgs {
		if org.InviteCode == code {
			cp := *org
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindMembership(ctx context.Context, accountID, orgID uuid.UUID) (*authz.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.memberships[memberKey(accountID, orgID)]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeRepo) AddMember(ctx context.Context, accountID, orgID uuid.UUID, role authz.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := memberKey(accountID, orgID)
	if _, exists := f.memberships[key]; exists {
		return postgres.ErrDuplicate
	}
	f.memberships[key] = &authz.Membership{AccountID: accountID, OrgID: orgID, Role: role}
	f.joined[key] = time.Now()
	return nil
}

func (f *fakeRepo) UpdateMemberRole(ctx context.Context, accountID, orgID uuid.UUID, role authz.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.memberships[memberKey(accountID, orgID)]
	if !ok {
		return pgx.ErrNoRows
	}
	m.Role = role
	return nil
}

func (f *fakeRepo) RemoveMember(ctx context.Context, accountID, orgID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.memberships, memberKey(accountID, orgID))
	return nil
}

func (f *fakeRepo) ListMembers(ctx context.Context, orgID uuid.UUID) ([]postgres.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []postgres.Member
	for key, m := range f.memberships {
		if m.OrgID != orgID {
			continue
		}
		var acc authz.Account
		for _, a := range f.accounts {
			if a.ID == m.AccountID {
				acc = *a
			}
		}
		out = append(out, postgres.Member{Account: acc, Role: m.Role, Joined: f.joined[key]})
	}
	return out, nil
}

func (f *fakeRepo) UpdateOrgContactEmail(ctx context.Context, orgID uuid.UUID, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	org, ok := f.orgs[orgID]
	if !ok {
		return pgx.ErrNoRows
	}
	org.Email = email
	return nil
}

func (f *fakeRepo) CreateProspect(ctx context.Context, p postgres.Prospect) (*postgres.Prospect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = postgres.ProspectStatusNew
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.prospects[p.ID] = &p
	cp := p
	return &cp, nil
}

func (f *fakeRepo) GetProspect(ctx context.Context, orgID, prospectID uuid.UUID) (*postgres.Prospect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.prospects[prospectID]
	if !ok || p.OrgID != orgID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) ListProspects(ctx context.Context, orgID uuid.UUID, limit int) ([]postgres.Prospect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []postgres.Prospect
	for _, p := range f.prospects {
		if p.OrgID == orgID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateProspectStatus(ctx context.Context, orgID, prospectID uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.prospects[prospectID]
	if !ok || p.OrgID != orgID {
		return pgx.ErrNoRows
	}
	p.Status = status
	return nil
}

func (f *fakeRepo) SaveProspectInsight(ctx context.Context, orgID, prospectID uuid.UUID, insight string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.prospects[prospectID]
	if !ok || p.OrgID != orgID {
		return pgx.ErrNoRows
	}
	p.Insight = insight
	return nil
}

func (f *fakeRepo) FindReport(ctx context.Context, orgID uuid.UUID, kind string, periodStart time.Time) (*postgres.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.reports {
		r := f.reports[i]
		if r.OrgID == orgID && r.Kind == kind && r.PeriodStart.Equal(periodStart) {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) InsertReport(ctx context.Context, rep postgres.Report) (*postgres.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rep.ID = uuid.New()
	f.reports = append(f.reports, rep)
	return &rep, nil
}

func (f *fakeRepo) ListReports(ctx context.Context, orgID uuid.UUID, kind string, limit int) ([]postgres.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []postgres.Report
	for _, r := range f.reports {
		if r.OrgID == orgID && r.Kind == kind {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListOrgs(ctx context.Context) ([]postgres.Org, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []postgres.Org
	for _, org := range f.orgs {
		out = append(out, *org)
	}
	return out, nil
}

func (f *fakeRepo) CountProspectsInPeriod(ctx context.Context, orgID uuid.UUID, from, to time.Time) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, p := range f.prospects {
		if p.OrgID == orgID {
			counts[p.Status]++
		}
	}
	return counts, nil
}

func (f *fakeRepo) CountNotificationsSentInPeriod(ctx context.Context, orgID uuid.UUID, from, to time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sentCount, nil
}

type testEnv struct {
	handler http.Handler
	repo    *fakeRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newFakeRepo()

	pools := cache.New()
	require.NoError(t, pools.RegisterMany(
		cache.PoolConfig{Name: authz.PoolName, MaxSize: 512, TTL: time.Minute},
		cache.PoolConfig{Name: api.OrgPool, MaxSize: 256, TTL: 2 * time.Minute},
		cache.PoolConfig{Name: leadagent.CatalogPool, MaxSize: 256, TTL: 2 * time.Minute},
		cache.PoolConfig{Name: api.PlansPool, MaxSize: 32, TTL: 10 * time.Minute},
		cache.PoolConfig{Name: api.AnalyticsPool, MaxSize: 256, TTL: 30 * time.Second},
		cache.PoolConfig{Name: reportagent.ReportsPool, MaxSize: 128, TTL: time.Minute},
	))

	auth, err := authz.New(pools, repo, repo)
	require.NoError(t, err)

	leads, err := leadagent.NewService(repo, pools, nil)
	require.NoError(t, err)

	reports, err := reportagent.NewService(repo, repo, repo, pools, nil)
	require.NoError(t, err)

	registry := scheduler.NewRegistry()
	require.NoError(t, registry.Add(scheduler.Task{
		Name:     "test:noop",
		Interval: time.Hour,
		Run:      func(ctx context.Context) error { return nil },
	}))
	sched, err := scheduler.New(registry)
	require.NoError(t, err)

	srv := api.New(api.Config{
		Directory:  repo,
		Activity:   repo,
		Authorizer: auth,
		Leads:      leads,
		Reports:    reports,
		Scheduler:  sched,
		Pools:      pools,
		BotName:    "apexhub_bot",
		Operators:  []int64{operatorID},
	})

	handler := middleware.TelegramAuth(middleware.TelegramAuthConfig{
		BotToken: testBotToken,
		Skip: func(r *http.Request) bool {
			return r.URL.Path == "/healthz"
		},
	})(srv.Handler())

	return &testEnv{handler: handler, repo: repo}
}

// initData builds signed Mini App init data for a test user.
func initData(t *testing.T, telegramID int64, firstName string) string {
	t.Helper()

	fields := url.Values{}
	fields.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))
	fields.Set("user", fmt.Sprintf(`{"id":%d,"first_name":%q}`, telegramID, firstName))
	return tma.Sign(fields, testBotToken)
}

func (e *testEnv) do(t *testing.T, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	if auth != "" {
		r.Header.Set("Authorization", "tma "+auth)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

// establishSession registers the user and returns their account id.
func (e *testEnv) establishSession(t *testing.T, auth string) uuid.UUID {
	t.Helper()

	w := e.do(t, http.MethodPost, "/v1/auth/session", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccountID uuid.UUID `json:"account_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEqual(t, uuid.Nil, resp.AccountID)
	return resp.AccountID
}

func (e *testEnv) createOrg(t *testing.T, auth, name string) postgres.Org {
	t.Helper()

	w := e.do(t, http.MethodPost, "/v1/orgs", auth, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, w.Code)

	var org postgres.Org
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &org))
	return org
}

func TestSessionAndWorkspaceLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	admin := initData(t, 1001, "Alice")
	member := initData(t, 1002, "Bob")

	adminID := env.establishSession(t, admin)
	memberID := env.establishSession(t, member)
	require.NotEqual(t, adminID, memberID)

	org := env.createOrg(t, admin, "Acme Sales")
	assert.Equal(t, "Acme Sales", org.Name)
	assert.Equal(t, "free", org.Plan)
	assert.NotEmpty(t, org.InviteCode)

	t.Run("creator can read the workspace", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/v1/orgs/"+org.ID.String(), admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/v1/orgs/"+org.ID.String(), member, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("join by invite code grants access", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/v1/orgs/join", member,
			map[string]string{"invite_code": org.InviteCode})
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodGet, "/v1/orgs/"+org.ID.String(), member, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodPost, "/v1/orgs/join", member,
			map[string]string{"invite_code": org.InviteCode})
		assert.Equal(t, http.StatusConflict, w.Code, "double join must conflict")
	})

	t.Run("member list includes both", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/v1/orgs/"+org.ID.String()+"/members", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var members []postgres.Member
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &members))
		assert.Len(t, members, 2)
	})

	t.Run("member cannot administer", func(t *testing.T) {
		w := env.do(t, http.MethodPatch,
			"/v1/orgs/"+org.ID.String()+"/members/"+adminID.String(), member,
			map[string]string{"role": "member"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin promotes then removes the member", func(t *testing.T) {
		w := env.do(t, http.MethodPatch,
			"/v1/orgs/"+org.ID.String()+"/members/"+memberID.String(), admin,
			map[string]string{"role": "admin"})
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodPatch,
			"/v1/orgs/"+org.ID.String()+"/members/"+memberID.String(), admin,
			map[string]string{"role": "member"})
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodDelete,
			"/v1/orgs/"+org.ID.String()+"/members/"+memberID.String(), admin, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		// Removal must take effect immediately despite the auth cache.
		w = env.do(t, http.MethodGet, "/v1/orgs/"+org.ID.String(), member, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin cannot demote self", func(t *testing.T) {
		w := env.do(t, http.MethodPatch,
			"/v1/orgs/"+org.ID.String()+"/members/"+adminID.String(), admin,
			map[string]string{"role": "member"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("contact email requires admin", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, "/v1/orgs/"+org.ID.String(), admin,
			map[string]string{"contact_email": "team@acme.test"})
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodPatch, "/v1/orgs/"+org.ID.String(), admin,
			map[string]string{"contact_email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/orgs", "", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	t.Run("unknown identity without session", func(t *testing.T) {
		stranger := initData(t, 9999, "Nobody")
		w := env.do(t, http.MethodPost, "/v1/orgs", stranger, map[string]string{"name": "x"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("healthz skips auth", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/healthz", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestProspectEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := initData(t, 2001, "Carol")
	env.establishSession(t, user)
	org := env.createOrg(t, user, "Pipeline")

	base := "/v1/orgs/" + org.ID.String() + "/prospects"

	w := env.do(t, http.MethodPost, base, user, map[string]string{
		"business_name": "Blue Bottle Coffee",
		"contact_notes": "intro via Dan",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created postgres.Prospect
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, postgres.ProspectStatusNew, created.Status)

	t.Run("empty name rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, base, user, map[string]string{"business_name": "  "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list returns the lead", func(t *testing.T) {
		w := env.do(t, http.MethodGet, base, user, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var prospects []postgres.Prospect
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prospects))
		require.Len(t, prospects, 1)
		assert.Equal(t, "Blue Bottle Coffee", prospects[0].BusinessName)
	})

	t.Run("status transitions", func(t *testing.T) {
		statusPath := base + "/" + created.ID.String() + "/status"

		w := env.do(t, http.MethodPatch, statusPath, user, map[string]string{"status": "contacted"})
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodPatch, statusPath, user, map[string]string{"status": "bogus"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		missing := base + "/" + uuid.New().String() + "/status"
		w = env.do(t, http.MethodPatch, missing, user, map[string]string{"status": "won"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("insight without generator fails closed", func(t *testing.T) {
		w := env.do(t, http.MethodPost, base+"/"+created.ID.String()+"/insight", user, nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestReportAndAnalyticsEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := initData(t, 3001, "Dave")
	env.establishSession(t, user)
	org := env.createOrg(t, user, "Metrics")

	env.repo.mu.Lock()
	env.repo.reports = append(env.repo.reports, postgres.Report{
		ID: uuid.New(), OrgID: org.ID, Kind: postgres.ReportDaily,
		PeriodStart: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Summary:     "1 new prospects, 0 won, 0 lost, 0 notifications delivered.",
	})
	env.repo.sentCount = 7
	env.repo.mu.Unlock()

	t.Run("list reports by kind", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/v1/orgs/"+org.ID.String()+"/reports/daily", user, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var reports []postgres.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reports))
		require.Len(t, reports, 1)
		assert.Contains(t, reports[0].Summary, "1 new prospects")
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/v1/orgs/"+org.ID.String()+"/reports/hourly", user, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("analytics snapshot", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/v1/orgs/"+org.ID.String()+"/analytics", user, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var snap struct {
			NotificationsSent int `json:"notifications_sent"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		assert.Equal(t, 7, snap.NotificationsSent)
	})
}

func TestPlansAndSystemEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := initData(t, 4001, "Eve")
	env.establishSession(t, user)

	t.Run("plan catalog", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/v1/plans", user, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var plans []api.Plan
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plans))
		require.Len(t, plans, 2)
		assert.Equal(t, "free", plans[0].Code)
		assert.True(t, plans[1].AgentAccess)
	})

	t.Run("scheduler status hidden from regular users", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/v1/system/scheduler", user, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("scheduler status for operators", func(t *testing.T) {
		operator := initData(t, operatorID, "Ops")
		env.establishSession(t, operator)

		w := env.do(t, http.MethodGet, "/v1/system/scheduler", operator, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Tasks []struct {
				Name  string `json:"name"`
				State string `json:"state"`
			} `json:"tasks"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Tasks, 1)
		assert.Equal(t, "test:noop", resp.Tasks[0].Name)
	})
}

func TestInviteQR(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := initData(t, 5001, "Frank")
	env.establishSession(t, user)
	org := env.createOrg(t, user, "QR Team")

	w := env.do(t, http.MethodGet, "/v1/orgs/"+org.ID.String()+"/invite.png", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}

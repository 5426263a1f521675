package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/apexhub/apps/leadagent"
	"github.com/dmitrymomot/apexhub/apps/reportagent"
	"github.com/dmitrymomot/apexhub/core/authz"
	"github.com/dmitrymomot/apexhub/core/cache"
	"github.com/dmitrymomot/apexhub/core/scheduler"
	"github.com/dmitrymomot/apexhub/storage/postgres"
)

// OrgPool is the cache pool holding org details and member lists.
const OrgPool = "org"

// Directory is the repository subset the API reads and writes for accounts,
// workspaces, and memberships.
type Directory interface {
	UpsertAccount(ctx context.Context, acc authz.Account) (*authz.Account, error)
	CreateOrg(ctx context.Context, name string, creator uuid.UUID) (*postgres.Org, error)
	GetOrg(ctx context.Context, orgID uuid.UUID) (*postgres.Org, error)
	GetOrgByInviteCode(ctx context.Context, code string) (*postgres.Org, error)
	ListMembers(ctx context.Context, orgID uuid.UUID) ([]postgres.Member, error)
	AddMember(ctx context.Context, accountID, orgID uuid.UUID, role authz.Role) error
	UpdateMemberRole(ctx context.Context, accountID, orgID uuid.UUID, role authz.Role) error
	RemoveMember(ctx context.Context, accountID, orgID uuid.UUID) error
	UpdateOrgContactEmail(ctx context.Context, orgID uuid.UUID, email string) error
}

// Server routes API requests to the platform services.
type Server struct {
	dir       Directory
	activity  ActivityCounter
	auth      *authz.Authorizer
	leads     *leadagent.Service
	reports   *reportagent.Service
	sched     *scheduler.Scheduler
	pools     *cache.Pools
	health    func(context.Context) error
	botName   string
	operators map[int64]struct{}
	log       *slog.Logger
}

// Config wires the Server's collaborators.
type Config struct {
	Directory  Directory
	Activity   ActivityCounter
	Authorizer *authz.Authorizer
	Leads      *leadagent.Service
	Reports    *reportagent.Service
	Scheduler  *scheduler.Scheduler
	Pools      *cache.Pools
	// Health verifies backing services for the health endpoint. Optional.
	Health func(context.Context) error
	// BotName is the bot username used to build invite links.
	BotName string
	// Operators lists Telegram IDs allowed to read operational
	// endpoints. An empty list leaves them unreachable.
	Operators []int64
	// Logger defaults to a no-op logger.
	Logger *slog.Logger
}

// New creates the API server.
func New(cfg Config) *Server {
	s := &Server{
		dir:      cfg.Directory,
		activity: cfg.Activity,
		auth:     cfg.Authorizer,
		leads:    cfg.Leads,
		reports:  cfg.Reports,
		sched:    cfg.Scheduler,
		pools:    cfg.Pools,
		health:   cfg.Health,
		botName:  cfg.BotName,
		log:      cfg.Logger,
	}
	if len(cfg.Operators) > 0 {
		s.operators = make(map[int64]struct{}, len(cfg.Operators))
		for _, id := range cfg.Operators {
			s.operators[id] = struct{}{}
		}
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Handler returns the API route table. Authentication and the rest of the
// middleware chain wrap this handler in the server entrypoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/system/scheduler", s.handleSchedulerStatus)

	mux.HandleFunc("POST /v1/auth/session", s.handleSession)

	mux.HandleFunc("GET /v1/plans", s.handleListPlans)

	mux.HandleFunc("POST /v1/orgs", s.handleCreateOrg)
	mux.HandleFunc("POST /v1/orgs/join", s.handleJoinOrg)
	mux.HandleFunc("GET /v1/orgs/{orgID}", s.handleGetOrg)
	mux.HandleFunc("PATCH /v1/orgs/{orgID}", s.handleUpdateOrg)
	mux.HandleFunc("GET /v1/orgs/{orgID}/invite.png", s.handleInviteQR)
	mux.HandleFunc("GET /v1/orgs/{orgID}/members", s.handleListMembers)
	mux.HandleFunc("PATCH /v1/orgs/{orgID}/members/{accountID}", s.handleUpdateMemberRole)
	mux.HandleFunc("DELETE /v1/orgs/{orgID}/members/{accountID}", s.handleRemoveMember)

	mux.HandleFunc("GET /v1/orgs/{orgID}/prospects", s.handleListProspects)
	mux.HandleFunc("POST /v1/orgs/{orgID}/prospects", s.handleCreateProspect)
	mux.HandleFunc("PATCH /v1/orgs/{orgID}/prospects/{prospectID}/status", s.handleUpdateProspectStatus)
	mux.HandleFunc("POST /v1/orgs/{orgID}/prospects/{prospectID}/insight", s.handleGenerateInsight)

	mux.HandleFunc("GET /v1/orgs/{orgID}/reports/{kind}", s.handleListReports)
	mux.HandleFunc("GET /v1/orgs/{orgID}/analytics", s.handleAnalytics)

	return mux
}

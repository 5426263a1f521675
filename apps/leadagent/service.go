package leadagent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/apexhub/core/cache"
	"github.com/dmitrymomot/apexhub/pkg/aigen"
	"github.com/dmitrymomot/apexhub/storage/postgres"
)

// CatalogPool is the cache pool holding prospect list snapshots.
const CatalogPool = "catalog"

var (
	// ErrProspectNotFound indicates the lead does not exist in the workspace.
	ErrProspectNotFound = errors.New("prospect not found")

	// ErrInvalidStatus indicates an unknown funnel status.
	ErrInvalidStatus = errors.New("invalid prospect status")

	// ErrInvalidProspect indicates missing required prospect fields.
	ErrInvalidProspect = errors.New("invalid prospect")
)

// ProspectStore is the repository subset the lead agent reads and writes.
type ProspectStore interface {
	CreateProspect(ctx context.Context, p postgres.Prospect) (*postgres.Prospect, error)
	GetProspect(ctx context.Context, orgID, prospectID uuid.UUID) (*postgres.Prospect, error)
	ListProspects(ctx context.Context, orgID uuid.UUID, limit int) ([]postgres.Prospect, error)
	UpdateProspectStatus(ctx context.Context, orgID, prospectID uuid.UUID, status string) error
	SaveProspectInsight(ctx context.Context, orgID, prospectID uuid.UUID, insight string) error
}

// Service exposes prospect CRM operations backed by postgres with a
// read-through list cache.
type Service struct {
	store   ProspectStore
	pools   *cache.Pools
	insight aigen.Generator
	log     *slog.Logger
}

// Option is a functional option for configuring the Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates the lead agent service. The insight generator may be
// nil, in which case GenerateInsight returns an error.
func NewService(store ProspectStore, pools *cache.Pools, insight aigen.Generator, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("leadagent: prospect store is required")
	}
	if pools == nil {
		return nil, errors.New("leadagent: cache pools are required")
	}

	s := &Service{
		store:   store,
		pools:   pools,
		insight: insight,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func prospectsKey(orgID uuid.UUID) string {
	return "prospects:" + orgID.String()
}

// ListProspects returns the workspace's leads, serving repeat reads from the
// catalog pool.
func (s *Service) ListProspects(ctx context.Context, orgID uuid.UUID) ([]postgres.Prospect, error) {
	if cached, ok := s.pools.Get(CatalogPool, prospectsKey(orgID)); ok {
		if prospects, ok := cached.([]postgres.Prospect); ok {
			return prospects, nil
		}
	}

	prospects, err := s.store.ListProspects(ctx, orgID, 0)
	if err != nil {
		return nil, err
	}

	s.pools.Set(CatalogPool, prospectsKey(orgID), prospects)
	return prospects, nil
}

// CreateProspect adds a lead and drops the workspace's cached list.
func (s *Service) CreateProspect(ctx context.Context, orgID, createdBy uuid.UUID, businessName, notes string) (*postgres.Prospect, error) {
	businessName = strings.TrimSpace(businessName)
	if businessName == "" {
		return nil, fmt.Errorf("%w: business name is required", ErrInvalidProspect)
	}

	p, err := s.store.CreateProspect(ctx, postgres.Prospect{
		OrgID:        orgID,
		BusinessName: businessName,
		ContactNotes: notes,
		CreatedBy:    createdBy,
	})
	if err != nil {
		return nil, err
	}

	s.pools.Delete(CatalogPool, prospectsKey(orgID))
	return p, nil
}

// UpdateStatus moves a lead along the funnel and drops the cached list.
func (s *Service) UpdateStatus(ctx context.Context, orgID, prospectID uuid.UUID, status string) error {
	if !postgres.ValidProspectStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if err := s.store.UpdateProspectStatus(ctx, orgID, prospectID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProspectNotFound
		}
		return err
	}

	s.pools.Delete(CatalogPool, prospectsKey(orgID))
	return nil
}

// GenerateInsight asks the AI generator for an outreach angle on a lead and
// stores the result on the row.
func (s *Service) GenerateInsight(ctx context.Context, orgID, prospectID uuid.UUID) (string, error) {
	if s.insight == nil {
		return "", errors.New("leadagent: insight generator is not configured")
	}

	p, err := s.store.GetProspect(ctx, orgID, prospectID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", ErrProspectNotFound
	}

	start := time.Now()
	text, err := s.insight.Generate(ctx, aigen.Request{
		System: "You are a concise B2B sales analyst. Answer in under 120 words.",
		Prompt: insightPrompt(p),
	})
	if err != nil {
		return "", err
	}

	if err := s.store.SaveProspectInsight(ctx, orgID, prospectID, text); err != nil {
		return "", err
	}

	s.pools.Delete(CatalogPool, prospectsKey(orgID))
	s.log.InfoContext(ctx, "prospect insight generated",
		slog.String("prospect_id", prospectID.String()),
		slog.String("model", s.insight.Model()),
		slog.Duration("elapsed", time.Since(start)))

	return text, nil
}

func insightPrompt(p *postgres.Prospect) string {
	var b strings.Builder
	b.WriteString("Suggest the best outreach angle for this lead.\n")
	fmt.Fprintf(&b, "Business: %s\n", p.BusinessName)
	fmt.Fprintf(&b, "Funnel status: %s\n", p.Status)
	if p.ContactNotes != "" {
		fmt.Fprintf(&b, "Contact notes: %s\n", p.ContactNotes)
	}
	return b.String()
}

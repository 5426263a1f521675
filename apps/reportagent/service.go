package reportagent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/apexhub/core/cache"
	"github.com/dmitrymomot/apexhub/core/email"
	"github.com/dmitrymomot/apexhub/pkg/aigen"
	"github.com/dmitrymomot/apexhub/storage/postgres"
)

// ReportsPool is the cache pool holding report list snapshots.
const ReportsPool = "reports"

// ReportStore is the repository subset the report agent reads and writes.
type ReportStore interface {
	FindReport(ctx context.Context, orgID uuid.UUID, kind string, periodStart time.Time) (*postgres.Report, error)
	InsertReport(ctx context.Context, rep postgres.Report) (*postgres.Report, error)
	ListReports(ctx context.Context, orgID uuid.UUID, kind string, limit int) ([]postgres.Report, error)
}

// ActivitySource supplies the per-period counts a summary is built from.
type ActivitySource interface {
	CountProspectsInPeriod(ctx context.Context, orgID uuid.UUID, from, to time.Time) (map[string]int, error)
	CountNotificationsSentInPeriod(ctx context.Context, orgID uuid.UUID, from, to time.Time) (int, error)
}

// OrgLister enumerates workspaces to generate reports for.
type OrgLister interface {
	ListOrgs(ctx context.Context) ([]postgres.Org, error)
}

// Service generates and serves activity reports.
type Service struct {
	reports  ReportStore
	activity ActivitySource
	orgs     OrgLister
	pools    *cache.Pools
	narrator aigen.Generator
	mailer   email.EmailSender
	log      *slog.Logger
	now      func() time.Time
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

// WithMailer enables weekly report email delivery.
func WithMailer(mailer email.EmailSender) Option {
	return func(s *Service) {
		s.mailer = mailer
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the report agent service. The narrator may be nil, in
// which case summaries fall back to a plain stats line.
func NewService(reports ReportStore, activity ActivitySource, orgs OrgLister, pools *cache.Pools, narrator aigen.Generator, opts ...Option) (*Service, error) {
	if reports == nil || activity == nil || orgs == nil {
		return nil, errors.New("reportagent: report store, activity source, and org lister are required")
	}
	if pools == nil {
		return nil, errors.New("reportagent: cache pools are required")
	}

	s := &Service{
		reports:  reports,
		activity: activity,
		orgs:     orgs,
		pools:    pools,
		narrator: narrator,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func reportsKey(orgID uuid.UUID, kind string) string {
	return fmt.Sprintf("reports:%s:%s", orgID, kind)
}

// ListReports returns a workspace's reports of one kind, serving repeat
// reads from the reports pool.
func (s *Service) ListReports(ctx context.Context, orgID uuid.UUID, kind string) ([]postgres.Report, error) {
	if cached, ok := s.pools.Get(ReportsPool, reportsKey(orgID, kind)); ok {
		if reports, ok := cached.([]postgres.Report); ok {
			return reports, nil
		}
	}

	reports, err := s.reports.ListReports(ctx, orgID, kind, 0)
	if err != nil {
		return nil, err
	}

	s.pools.Set(ReportsPool, reportsKey(orgID, kind), reports)
	return reports, nil
}

// GenerateMissing produces every report whose period has closed and whose
// grace hour has passed, across all workspaces and kinds. One workspace
// failing does not stop the others.
func (s *Service) GenerateMissing(ctx context.Context) error {
	orgs, err := s.orgs.ListOrgs(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	var failures int
	for _, org := range orgs {
		for _, kind := range []string{postgres.ReportDaily, postgres.ReportWeekly, postgres.ReportMonthly} {
			if err := s.generateOne(ctx, org, kind, now); err != nil {
				failures++
				s.log.ErrorContext(ctx, "report generation failed",
					slog.String("org_id", org.ID.String()),
					slog.String("kind", kind),
					slog.Any("error", err))
			}
		}
	}

	if failures > 0 {
		return fmt.Errorf("report generation: %d periods failed", failures)
	}
	return nil
}

func (s *Service) generateOne(ctx context.Context, org postgres.Org, kind string, now time.Time) error {
	start, end, ready := periodFor(kind, now)
	if !ready {
		return nil
	}

	existing, err := s.reports.FindReport(ctx, org.ID, kind, start)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	prospects, err := s.activity.CountProspectsInPeriod(ctx, org.ID, start, end)
	if err != nil {
		return err
	}
	sent, err := s.activity.CountNotificationsSentInPeriod(ctx, org.ID, start, end)
	if err != nil {
		return err
	}

	summary := s.summarize(ctx, org.Name, kind, start, end, prospects, sent)

	rep, err := s.reports.InsertReport(ctx, postgres.Report{
		OrgID:       org.ID,
		Kind:        kind,
		PeriodStart: start,
		PeriodEnd:   end,
		Summary:     summary,
	})
	if errors.Is(err, postgres.ErrDuplicate) {
		return nil
	}
	if err != nil {
		return err
	}

	s.pools.Delete(ReportsPool, reportsKey(org.ID, kind))
	s.log.InfoContext(ctx, "report generated",
		slog.String("org_id", org.ID.String()),
		slog.String("kind", kind),
		slog.Time("period_start", start))

	if kind == postgres.ReportWeekly && s.mailer != nil && org.Email != "" {
		if err := s.emailWeekly(ctx, org, rep); err != nil {
			s.log.ErrorContext(ctx, "weekly report email failed",
				slog.String("org_id", org.ID.String()),
				slog.Any("error", err))
		}
	}

	return nil
}

// summarize builds the report text, preferring an AI narrative and falling
// back to a plain stats line when the generator is unavailable or fails.
func (s *Service) summarize(ctx context.Context, orgName, kind string, start, end time.Time, prospects map[string]int, sent int) string {
	stats := statsLine(prospects, sent)

	if s.narrator == nil {
		return stats
	}

	text, err := s.narrator.Generate(ctx, aigen.Request{
		System: "You are a concise business analyst writing team activity summaries. Answer in under 100 words, plain text.",
		Prompt: fmt.Sprintf("Write the %s activity summary for team %q covering %s to %s.\nRaw numbers: %s",
			kind, orgName,
			start.Format("2006-01-02"), end.Format("2006-01-02"),
			stats),
	})
	if err != nil {
		s.log.WarnContext(ctx, "narrative generation failed, using stats line", slog.Any("error", err))
		return stats
	}
	return text
}

func statsLine(prospects map[string]int, sent int) string {
	total := 0
	for _, n := range prospects {
		total += n
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d new prospects", total)
	if won := prospects[postgres.ProspectStatusWon]; won > 0 {
		fmt.Fprintf(&b, ", %d won", won)
	}
	if lost := prospects[postgres.ProspectStatusLost]; lost > 0 {
		fmt.Fprintf(&b, ", %d lost", lost)
	}
	fmt.Fprintf(&b, ", %d notifications delivered.", sent)
	return b.String()
}

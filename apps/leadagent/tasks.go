package leadagent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/apexhub/core/scheduler"
	"github.com/dmitrymomot/apexhub/integration/telegram"
	"github.com/dmitrymomot/apexhub/pkg/aigen"
	"github.com/dmitrymomot/apexhub/storage/postgres"
)

// OrgLister is the repository subset discovery iterates over.
type OrgLister interface {
	ListOrgs(ctx context.Context) ([]postgres.Org, error)
	HasPaidOrg(ctx context.Context) (bool, error)
}

// NotificationStore is the repository subset the notifier drains.
type NotificationStore interface {
	HasDueNotifications(ctx context.Context, now time.Time) (bool, error)
	ListDueNotifications(ctx context.Context, now time.Time, limit int) ([]postgres.Notification, error)
	MarkNotificationSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkNotificationFailed(ctx context.Context, id uuid.UUID, cause string) error
}

// MessageSender delivers a Telegram message to a chat.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

var _ MessageSender = (*telegram.Client)(nil)

// notifierBatchSize caps how many messages one tick drains.
const notifierBatchSize = 100

// DiscoveryTask returns the scheduled task that asks the AI generator for
// new lead suggestions in every paid workspace. The precondition keeps the
// task idle while nobody pays for the lead agent.
func DiscoveryTask(orgs OrgLister, store ProspectStore, discovery aigen.Generator, log *slog.Logger) scheduler.Task {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return scheduler.Task{
		Name:     "lead_discovery",
		Interval: 6 * time.Hour,
		Precondition: func(ctx context.Context) (bool, error) {
			return orgs.HasPaidOrg(ctx)
		},
		Run: func(ctx context.Context) error {
			all, err := orgs.ListOrgs(ctx)
			if err != nil {
				return err
			}

			for _, org := range all {
				if org.Plan == "free" {
					continue
				}
				if err := discoverForOrg(ctx, store, discovery, org); err != nil {
					log.ErrorContext(ctx, "lead discovery failed for org",
						slog.String("org_id", org.ID.String()),
						slog.Any("error", err))
					continue
				}
			}
			return nil
		},
	}
}

// discoverForOrg asks for candidate businesses and records them as new
// prospects. The generator is instructed to answer one name per line.
func discoverForOrg(ctx context.Context, store ProspectStore, discovery aigen.Generator, org postgres.Org) error {
	existing, err := store.ListProspects(ctx, org.ID, 50)
	if err != nil {
		return err
	}

	known := make([]string, 0, len(existing))
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		known = append(known, p.BusinessName)
		seen[strings.ToLower(p.BusinessName)] = true
	}

	text, err := discovery.Generate(ctx, aigen.Request{
		System: "You are a lead research assistant. Answer with business names only, one per line, no numbering.",
		Prompt: discoveryPrompt(org.Name, known),
	})
	if err != nil {
		return err
	}

	for _, line := range strings.Split(text, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		if _, err := store.CreateProspect(ctx, postgres.Prospect{
			OrgID:        org.ID,
			BusinessName: name,
			ContactNotes: "Suggested by lead discovery",
		}); err != nil {
			return err
		}
		seen[strings.ToLower(name)] = true
	}
	return nil
}

func discoveryPrompt(orgName string, known []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest up to 5 businesses that could be sales leads for the team %q.\n", orgName)
	if len(known) > 0 {
		b.WriteString("Do not repeat these businesses already in the pipeline:\n")
		for _, name := range known {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}
	return b.String()
}

// NotifierTask returns the scheduled task that drains due notifications and
// delivers them to Telegram chats. The precondition is a single EXISTS query
// so idle ticks stay cheap.
func NotifierTask(store NotificationStore, sender MessageSender, log *slog.Logger) scheduler.Task {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return scheduler.Task{
		Name:     "notification_dispatch",
		Interval: time.Minute,
		Precondition: func(ctx context.Context) (bool, error) {
			return store.HasDueNotifications(ctx, time.Now())
		},
		Run: func(ctx context.Context) error {
			due, err := store.ListDueNotifications(ctx, time.Now(), notifierBatchSize)
			if err != nil {
				return err
			}

			var failed int
			for _, n := range due {
				if err := sender.SendMessage(ctx, n.ChatID, n.Body); err != nil {
					failed++
					if markErr := store.MarkNotificationFailed(ctx, n.ID, err.Error()); markErr != nil {
						log.ErrorContext(ctx, "failed to record notification failure",
							slog.String("notification_id", n.ID.String()),
							slog.Any("error", markErr))
					}
					continue
				}
				if err := store.MarkNotificationSent(ctx, n.ID, time.Now()); err != nil {
					log.ErrorContext(ctx, "failed to record notification delivery",
						slog.String("notification_id", n.ID.String()),
						slog.Any("error", err))
				}
			}

			if failed > 0 {
				return fmt.Errorf("notification dispatch: %d of %d deliveries failed", failed, len(due))
			}
			return nil
		},
	}
}

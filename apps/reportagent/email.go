package reportagent

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/dmitrymomot/apexhub/core/email"
	"github.com/dmitrymomot/apexhub/storage/postgres"
)

var weeklyEmailTmpl = template.Must(template.New("weekly_report").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
	<h2>Weekly report for {{.OrgName}}</h2>
	<p style="color: #666;">{{.PeriodStart}} to {{.PeriodEnd}}</p>
	<p>{{.Summary}}</p>
	<p style="color: #999; font-size: 12px;">Open the Mini App for the full picture.</p>
</body>
</html>`))

// emailWeekly renders and sends the weekly summary to the workspace contact
// address.
func (s *Service) emailWeekly(ctx context.Context, org postgres.Org, rep *postgres.Report) error {
	var body strings.Builder
	err := weeklyEmailTmpl.Execute(&body, map[string]string{
		"OrgName":     org.Name,
		"PeriodStart": rep.PeriodStart.Format("Jan 2, 2006"),
		"PeriodEnd":   rep.PeriodEnd.AddDate(0, 0, -1).Format("Jan 2, 2006"),
		"Summary":     rep.Summary,
	})
	if err != nil {
		return fmt.Errorf("render weekly report email: %w", err)
	}

	return s.mailer.SendEmail(ctx, email.SendEmailParams{
		SendTo:   org.Email,
		Subject:  fmt.Sprintf("Weekly report: %s", org.Name),
		BodyHTML: body.String(),
		Tag:      "weekly_report",
	})
}

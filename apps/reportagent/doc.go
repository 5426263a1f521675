// Package reportagent implements the activity report agent: scheduled
// generation of daily, weekly, and monthly team summaries with AI narrative
// text, plus weekly email delivery to the workspace contact address.
//
// Reports cover the previous complete period and are generated once a grace
// hour has passed, so late events still land in their period. Generated
// rows are immutable; the unique (org, kind, period) constraint keeps
// concurrent generators idempotent.
package reportagent

// Package leadagent implements the lead management agent: a prospect CRM
// with AI-generated insights, AI lead discovery, and journal reminder
// notifications delivered over Telegram.
//
// The service caches prospect lists in the "catalog" pool and invalidates
// the workspace's entries on every mutation. Scheduled work is exposed as
// scheduler.Task values wired into the platform scheduler by the server
// entrypoint.
package leadagent

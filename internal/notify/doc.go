// Package notify mails a summary of each run.
//
// The SMTP implementation sends an HTML digest of the books added, grouped by
// category, through an implicit-TLS submission port with an app password.
// When no credentials are configured a no-op implementation is returned so
// the workflow never has to check.
package notify

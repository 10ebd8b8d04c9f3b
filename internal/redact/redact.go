// Package redact scrubs credentials, connection strings, SQL, personal data
// and file paths from error text before it is logged or sent to a client.
package redact

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Placeholders substituted for redacted fragments.
const (
	RedactionPlaceholder = "[REDACTED]"
	DSNPlaceholder       = "[REDACTED_DSN]"
	JWTPlaceholder       = "[REDACTED_JWT]"
	TokenPlaceholder     = "[REDACTED_TOKEN]"
	EmailPlaceholder     = "[REDACTED_EMAIL]"
	SQLPlaceholder       = "[REDACTED_SQL]"
	PathPlaceholder      = "[REDACTED_PATH]"
	StackPlaceholder     = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order; earlier rules consume text that later ones would
// only partially match.
var rules = []rule{
	{regexp.MustCompile(`(?s)(?:panic:|goroutine \d+ \[).*`), StackPlaceholder},
	{regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|mysql|redis|amqp)://\S+`), DSNPlaceholder},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), JWTPlaceholder},
	{regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]+`), "Bearer " + TokenPlaceholder},
	{regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|jwt_secret)\s*[=:]\s*\S+`), "${1}=" + RedactionPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), EmailPlaceholder},
	{regexp.MustCompile(`\b(SELECT|INSERT INTO|UPDATE|DELETE FROM|WITH)\s[^\n]*`), "${1} " + SQLPlaceholder},
	{regexp.MustCompile(`(?:/[\w.-]+){2,}`), PathPlaceholder},
}

// String redacts sensitive fragments of s.
func String(s string) string {
	if s == "" {
		return s
	}
	for _, r := range rules {
		s = r.pattern.ReplaceAllString(s, r.replacement)
	}
	return s
}

// Error redacts err's message. A Postgres error in the chain is reduced to
// its SQLSTATE code and constraint name, since its message and detail echo
// row values.
func Error(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		msg = strings.Replace(msg, pgErr.Error(), pgSummary(pgErr), 1)
	}
	return String(msg)
}

func pgSummary(pgErr *pgconn.PgError) string {
	summary := "postgres error " + pgErr.Code
	if pgErr.ConstraintName != "" {
		summary += " on " + pgErr.ConstraintName
	}
	return summary
}

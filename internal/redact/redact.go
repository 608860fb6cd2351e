// Package redact removes credentials, connection strings, file paths, SQL and
// stack traces from text before it is logged or returned to a client.
package redact

import (
	"net/url"
	"regexp"
)

// Placeholders substituted for redacted content.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	re   *regexp.Regexp
	repl string
}

// Rules run in order; connection strings go first so the password rule does
// not see half of a URL.
var rules = []rule{
	{
		re:   regexp.MustCompile(`(?i)\b(postgres(?:ql)?|redis|rediss)://[^@\s/]*@`),
		repl: "${1}://" + RedactedCredentialPlaceholder + "@",
	},
	{
		re:   regexp.MustCompile(`(?i)\b(password|passwd|pwd)(\s*[=:]\s*)['"]?[^'"&\s]+['"]?`),
		repl: "${1}${2}" + RedactionPlaceholder,
	},
	{
		re:   regexp.MustCompile(`(?s)(?:goroutine \d+ \[|panic:).*`),
		repl: RedactedStackPlaceholder,
	},
	{
		re:   regexp.MustCompile(`\b(?:SELECT|INSERT INTO|UPDATE|DELETE FROM)\s[^;]*`),
		repl: RedactedSQLPlaceholder,
	},
	{
		re:   regexp.MustCompile(`(?:/[\w.-]+){3,}`),
		repl: RedactedPathPlaceholder,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.repl)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// URL masks the password of a connection URL, keeping host and database
// visible for diagnostics.
func URL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return RedactionPlaceholder
	}
	return u.Redacted()
}

package tools

import (
	"fmt"
	"regexp"
	"strings"
)

// deniedKeywords are statement types the assistant must never run.
// Order matters only for which keyword is reported when several appear.
var deniedKeywords = []string{
	"DROP", "DELETE", "TRUNCATE", "ALTER", "CREATE", "INSERT", "UPDATE",
	"REPLACE", "RENAME", "GRANT", "REVOKE", "COMMIT", "ROLLBACK", "PRAGMA",
}

// deniedPattern matches any denied keyword as a whole word. Punctuation
// counts as a boundary, so ";DELETE" and "IN(DROP" are caught while
// "updated_at" is not.
var deniedPattern = regexp.MustCompile(`\b(` + strings.Join(deniedKeywords, "|") + `)\b`)

const (
	reasonNotSelect      = "Query must start with SELECT"
	reasonMultiStatement = "One query at a time please"
	reasonOK             = "OK"
)

// Validate applies the read-only policy to a model-supplied SQL string and
// returns whether it may run, plus a human-readable reason.
//
// This is a token heuristic, not a SQL parser. It rejects anything not
// starting with SELECT, any denied keyword appearing as a whole word, and
// more than one chained statement. It over-rejects (a string literal
// containing "DELETE") and cannot see through every obfuscation, which is
// why the executor also opens the store read-only.
func Validate(raw string) (bool, string) {
	q := strings.ToUpper(strings.TrimSpace(raw))

	if !strings.HasPrefix(q, "SELECT") {
		return false, reasonNotSelect
	}

	if kw := firstDeniedKeyword(" " + q + " "); kw != "" {
		return false, fmt.Sprintf("Dangerous keyword found: %s", kw)
	}

	if strings.Contains(raw, ";") && len(strings.Split(raw, ";")) > 2 {
		return false, reasonMultiStatement
	}

	return true, reasonOK
}

// firstDeniedKeyword returns the earliest-listed denied keyword present in
// q, or "" when there is none.
func firstDeniedKeyword(q string) string {
	found := deniedPattern.FindAllString(q, -1)
	if len(found) == 0 {
		return ""
	}
	for _, kw := range deniedKeywords {
		for _, f := range found {
			if f == kw {
				return kw
			}
		}
	}
	return ""
}

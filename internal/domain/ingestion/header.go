package ingestion

import (
	"strings"
)

// Column names of the customer CSV layout.
const (
	ColumnFirstName          = "firstName"
	ColumnLastName           = "lastName"
	ColumnEmailID            = "emailId"
	ColumnAddress            = "address"
	ColumnMaxCreditLimit     = "maxCreditLimit"
	ColumnCurrentCreditLimit = "currentCreditLimit"
	ColumnStatus             = "status"
)

var ExpectedColumns = []string{
	ColumnFirstName,
	ColumnLastName,
	ColumnEmailID,
	ColumnAddress,
	ColumnMaxCreditLimit,
	ColumnCurrentCreditLimit,
	ColumnStatus,
}

var expectedColumnSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ExpectedColumns))
	for _, c := range ExpectedColumns {
		set[strings.ToLower(c)] = struct{}{}
	}
	return set
}()

// headerIndex maps a lowercased column name to its position in the row.
type headerIndex map[string]int

func makeHeaderIndex(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	return idx
}

// ValidateHeader returns one entry per offending input column, keyed by the
// trimmed column name. Unknown columns and repeated columns are reported;
// expected columns that are absent are not. An empty result means the header
// is acceptable.
func ValidateHeader(header []string) map[string]string {
	problems := make(map[string]string)
	seen := make(map[string]struct{}, len(header))

	for _, raw := range header {
		name := strings.TrimSpace(raw)
		key := strings.ToLower(name)

		if _, ok := expectedColumnSet[key]; !ok {
			problems[name] = name + " not defined"
			continue
		}
		if _, dup := seen[key]; dup {
			problems[name] = name + " defined more than once"
			continue
		}
		seen[key] = struct{}{}
	}

	return problems
}

// Package questions parses question-bank files. Two formats are supported:
// the original spreadsheet TSV export and a curated TOML file. Both produce
// db.Question rows; malformed entries are skipped, not fatal.
package questions

import "fmt"

// optionValues are the only legal values for the rule columns.
var optionValues = map[string]struct{}{
	"A":   {},
	"B":   {},
	"A,B": {},
}

func validOption(value *string) bool {
	if value == nil {
		return true
	}
	_, ok := optionValues[*value]
	return ok
}

func checkOptions(id uint, options ...*string) error {
	for _, option := range options {
		if !validOption(option) {
			return fmt.Errorf("question %d: option %q is not one of A, B, A,B", id, *option)
		}
	}
	return nil
}

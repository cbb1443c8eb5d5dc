package model

import "strings"

// AccountType selects which completions-per-hour column applies.
type AccountType string

const (
	AccountNormal  AccountType = "NORMAL"
	AccountIronman AccountType = "IRONMAN"
)

// ParseAccountType maps a log snapshot's accountType to an AccountType.
// Anything other than IRONMAN is treated as a normal account.
func ParseAccountType(s string) AccountType {
	if strings.EqualFold(strings.TrimSpace(s), string(AccountIronman)) {
		return AccountIronman
	}
	return AccountNormal
}

// IsIron reports whether iron rates apply.
func (a AccountType) IsIron() bool {
	return a == AccountIronman
}

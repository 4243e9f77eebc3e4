package domain

import (
	"strings"
	"time"
)

// AccountSeparator delimits levels of the account hierarchy, e.g. "Expenses:Food".
const AccountSeparator = ":"

// Account is a named bucket in a user's ledger. Ancestry is implied by the name only.
type Account struct {
	ID        string
	Owner     string
	Name      string
	CreatedAt time.Time
}

// NormalizeAccountName trims the name and rejects empty ones.
func NormalizeAccountName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidAccountName
	}

	if len(name) > MaxAccountNameLength {
		return "", ErrInvalidAccountName
	}

	return name, nil
}

// Subtree selects an account and every account whose name extends it with
// ":<suffix>". It is the only place that knows the hierarchy convention.
type Subtree struct {
	// Name matches the root account exactly.
	Name string
	// LikePattern matches descendants with LIKE ... ESCAPE '\'.
	LikePattern string
}

// SubtreeOf builds the membership predicate for name.
func SubtreeOf(name string) Subtree {
	return Subtree{
		Name:        name,
		LikePattern: escapeLike(name) + AccountSeparator + "%",
	}
}

// Contains reports whether accountName belongs to the subtree.
func (s Subtree) Contains(accountName string) bool {
	return accountName == s.Name || strings.HasPrefix(accountName, s.Name+AccountSeparator)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ContainsPattern builds an ILIKE pattern matching names that contain search literally.
func ContainsPattern(search string) string {
	return "%" + escapeLike(search) + "%"
}

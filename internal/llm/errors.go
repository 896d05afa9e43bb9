package llm

import "strings"

// Category buckets a backend failure for user-facing messaging.
type Category int

const (
	// CategoryGeneric is any failure not matched below.
	CategoryGeneric Category = iota
	// CategoryAuth covers invalid or expired API keys.
	CategoryAuth
	// CategoryQuota covers rate and usage limit failures.
	CategoryQuota
	// CategorySafety covers content blocked by safety filters.
	CategorySafety
	// CategoryNetwork covers connectivity failures.
	CategoryNetwork
)

func (c Category) String() string {
	switch c {
	case CategoryAuth:
		return "auth"
	case CategoryQuota:
		return "quota"
	case CategorySafety:
		return "safety"
	case CategoryNetwork:
		return "network"
	default:
		return "generic"
	}
}

// Classify maps an error to a [Category] by case-insensitive
// substring match over its message. Match order matters: auth beats
// quota beats safety beats network.
func Classify(err error) Category {
	if err == nil {
		return CategoryGeneric
	}
	msg := strings.ToUpper(err.Error())

	switch {
	case strings.Contains(msg, "API_KEY") || strings.Contains(msg, "API KEY") ||
		strings.Contains(msg, "AUTHENTICATION") || strings.Contains(msg, "UNAUTHENTICATED"):
		return CategoryAuth
	case strings.Contains(msg, "QUOTA") || strings.Contains(msg, "LIMIT") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return CategoryQuota
	case strings.Contains(msg, "BLOCKED") || strings.Contains(msg, "SAFETY"):
		return CategorySafety
	case strings.Contains(msg, "NETWORK") || strings.Contains(msg, "CONNECTION") ||
		strings.Contains(msg, "NO SUCH HOST") || strings.Contains(msg, "TIMEOUT"):
		return CategoryNetwork
	default:
		return CategoryGeneric
	}
}

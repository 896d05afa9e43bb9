package router

import (
	"regexp"
	"strings"
)

// topicPatterns are tried in order; the first capture wins.
var topicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)tell me about (.+)`),
	regexp.MustCompile(`(?i)what is (.+)`),
	regexp.MustCompile(`(?i)explain (.+)`),
	regexp.MustCompile(`(?i)describe (.+)`),
	regexp.MustCompile(`(?i)information about (.+)`),
	regexp.MustCompile(`(?i)write about (.+)`),
}

var topicTriggers = []string{
	"tell me about", "what is", "explain", "describe",
	"information about", "write about", "generate information about",
}

// matchesTopicRequest reports whether q asks for topic information.
func matchesTopicRequest(q string) bool {
	return containsAny(q, topicTriggers...)
}

// extractTopic pulls the topic out of an information request, or ""
// when no pattern captures anything.
func extractTopic(q string) string {
	for _, p := range topicPatterns {
		if m := p.FindStringSubmatch(q); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// extractCity scans for the literal token "in"; everything after it
// is the city. Without one the configured default applies.
func extractCity(q, defaultCity string) string {
	words := strings.Fields(q)
	for i, w := range words {
		if w == "in" && i+1 < len(words) {
			return strings.Join(words[i+1:], " ")
		}
	}
	return defaultCity
}

// stripAll removes each keyword from q. Keywords of one or two runes
// are removed as whole tokens only, so "on" never mangles "python".
// Whitespace is normalized and the result trimmed.
func stripAll(q string, keywords ...string) string {
	for _, kw := range keywords {
		if len(kw) > 2 {
			q = strings.ReplaceAll(q, kw, " ")
		}
	}
	words := strings.Fields(q)
	out := words[:0]
	for _, w := range words {
		short := false
		for _, kw := range keywords {
			if len(kw) <= 2 && w == kw {
				short = true
				break
			}
		}
		if !short {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}

// detectPlatform resolves a generic search to its target platform and
// cleaned query. Branch order is significant: youtube outranks amazon
// outranks github; anything else defaults to google.
func detectPlatform(q string) (platform, query string) {
	switch {
	case containsAny(q, "youtube", "video"):
		return "youtube", stripAll(q, "search", "youtube", "video", "on")
	case containsAny(q, "amazon", "buy", "shop"):
		return "amazon", stripAll(q, "search", "amazon", "buy", "shop", "on")
	case containsAny(q, "github", "code"):
		return "github", stripAll(q, "search", "github", "code", "on")
	default:
		return "google", stripAll(q, "search", "on")
	}
}

// extractName takes the tokens after "is" (for "my name is") or "me"
// (for "call me") and title-cases them.
func extractName(q string) string {
	words := strings.Fields(q)
	idx := -1
	marker := ""
	if strings.Contains(q, "my name is") {
		marker = "is"
	} else if strings.Contains(q, "call me") {
		marker = "me"
	}
	for i, w := range words {
		if w == marker {
			idx = i + 1
			break
		}
	}
	if idx < 0 || idx >= len(words) {
		return ""
	}
	name := words[idx:]
	for i, w := range name {
		name[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(name, " ")
}

package actions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/go-github/v69/github"
)

// browserOpener is the slice of launcher behavior search needs.
type browserOpener interface {
	OpenSearch(platform, query string) error
}

// repoSearcher matches the go-github repository search surface.
type repoSearcher interface {
	Repositories(ctx context.Context, query string, opts *github.SearchOptions) (*github.RepositoriesSearchResult, *github.Response, error)
}

// SearchService dispatches web searches to the browser and enriches
// GitHub searches with the top matching repository.
type SearchService struct {
	opener  browserOpener
	gh      repoSearcher
	logger  *slog.Logger
	timeout time.Duration
}

// NewSearchService builds a search service using the unauthenticated
// GitHub API for repo lookups.
func NewSearchService(opener browserOpener, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		opener:  opener,
		gh:      github.NewClient(nil).Search,
		logger:  logger.With("component", "search"),
		timeout: 5 * time.Second,
	}
}

// Smart opens the platform's results page for query and returns the
// user-facing status line.
func (s *SearchService) Smart(ctx context.Context, query, platform string) string {
	if err := s.opener.OpenSearch(platform, query); err != nil {
		s.logger.Warn("browser open failed", "platform", platform, "error", err)
		return fmt.Sprintf("Could not open %s. Please check your default browser settings.", platform)
	}

	reply := fmt.Sprintf("Opening %s and searching for %s", platform, query)
	if platform == "github" {
		if top := s.topRepo(ctx, query); top != "" {
			reply += ". " + top
		}
	}
	return reply
}

// topRepo returns a one-liner about the most-starred repo matching
// query, or "" when the lookup fails. Best-effort only.
func (s *SearchService) topRepo(ctx context.Context, query string) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := &github.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: 1},
	}
	result, _, err := s.gh.Repositories(ctx, query, opts)
	if err != nil {
		s.logger.Debug("github lookup failed", "query", query, "error", err)
		return ""
	}
	if result == nil || len(result.Repositories) == 0 {
		return ""
	}

	repo := result.Repositories[0]
	return fmt.Sprintf("Top repository: %s with %d stars", repo.GetFullName(), repo.GetStargazersCount())
}

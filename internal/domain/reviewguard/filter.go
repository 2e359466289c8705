package reviewguard

import (
	"strings"

	"coderr/internal/domain/offerquery"
	"coderr/internal/domain/repository"
)

// ParseFilter validates review listing parameters. Malformed ids fail loudly;
// an unknown ordering falls back to newest first.
func ParseFilter(businessUserID, reviewerID, ordering string) (repository.ReviewFilter, error) {
	business, err := offerquery.ParseID("business_user_id", businessUserID)
	if err != nil {
		return repository.ReviewFilter{}, err
	}
	reviewer, err := offerquery.ParseID("reviewer_id", reviewerID)
	if err != nil {
		return repository.ReviewFilter{}, err
	}

	return repository.ReviewFilter{
		BusinessUserID: business,
		ReviewerID:     reviewer,
		Ordering:       parseOrdering(ordering),
	}, nil
}

func parseOrdering(raw string) repository.ReviewOrdering {
	switch o := repository.ReviewOrdering(strings.TrimSpace(raw)); o {
	case repository.ReviewOrderingUpdatedAtDesc, repository.ReviewOrderingUpdatedAtAsc,
		repository.ReviewOrderingRatingDesc, repository.ReviewOrderingRatingAsc:
		return o
	default:
		return repository.ReviewOrderingUpdatedAtDesc
	}
}

package offer

import (
	"strings"
	"time"

	"github.com/jonathan/planmyjob/internal/types"
)

// Defaults for a freshly drafted application.
const (
	DraftSource         = "other"
	DraftRating         = 3
	DraftFollowUpStatus = "in_progress"
	DraftStatus         = "to_apply"
)

// ToDraft pre-fills a new application from an extracted offer. today sets the
// application date, as a UTC calendar day.
func ToDraft(o types.ExtractedOffer, today time.Time) types.ApplicationDraft {
	return types.ApplicationDraft{
		Company:         o.Company,
		Position:        o.Title,
		OfferURL:        o.ApplicationURL,
		Location:        o.Location,
		ContractType:    o.ContractType,
		RemotePolicy:    o.RemotePolicy,
		ApplicationDate: today.UTC().Format(time.DateOnly),
		Source:          DraftSource,
		PersonalRating:  DraftRating,
		FollowUpStatus:  DraftFollowUpStatus,
		Status:          DraftStatus,
		SalaryRange:     o.SalaryRange,
		Notes:           strings.Join(o.KeyPoints, "\n• "),
		Skills:          strings.Join(o.Skills, ", "),
	}
}

// Package types provides the records exchanged between the offer analyzer,
// the letter generator and their callers (CLI, HTTP API, exports).
package types

// ContractType is the contract kind detected in an offer.
type ContractType string

const (
	ContractCDI            ContractType = "cdi"
	ContractCDD            ContractType = "cdd"
	ContractApprenticeship ContractType = "apprenticeship"
	ContractInternship     ContractType = "internship"
	ContractFreelance      ContractType = "freelance"
	ContractOther          ContractType = "other"
)

// RemotePolicy is the remote-work policy detected in an offer.
type RemotePolicy string

const (
	RemoteYes     RemotePolicy = "yes"
	RemoteNo      RemotePolicy = "no"
	RemoteHybrid  RemotePolicy = "hybrid"
	RemoteUnknown RemotePolicy = "unknown"
)

// ExtractedOffer is the best-effort structured view of a pasted job offer.
// An empty string means "not found"; enums fall back to other/unknown.
type ExtractedOffer struct {
	Title           string       `json:"title"`
	Company         string       `json:"company"`
	ContractType    ContractType `json:"contract_type"`
	RemotePolicy    RemotePolicy `json:"remote_policy"`
	Location        string       `json:"location"`
	ExperienceYears string       `json:"experience_years"`
	Skills          []string     `json:"skills"`
	KeyPoints       []string     `json:"key_points"`
	SalaryRange     string       `json:"salary_range"`
	ApplicationURL  string       `json:"application_url"`
}

// ApplicationDraft pre-fills the "new application" form from an extracted offer.
type ApplicationDraft struct {
	Company         string       `json:"company"`
	Position        string       `json:"position"`
	OfferURL        string       `json:"offer_url"`
	Location        string       `json:"location"`
	ContractType    ContractType `json:"contract_type"`
	RemotePolicy    RemotePolicy `json:"remote_policy"`
	ApplicationDate string       `json:"application_date"` // YYYY-MM-DD
	Source          string       `json:"source"`
	PersonalRating  int          `json:"personal_rating"`
	FollowUpStatus  string       `json:"follow_up_status"`
	Status          string       `json:"status"`
	SalaryRange     string       `json:"salary_range"`
	Notes           string       `json:"notes"`
	Skills          string       `json:"skills"`
}

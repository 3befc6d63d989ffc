package models

import "time"

// LeadStatus is the stored pipeline state of a lead.
type LeadStatus string

const (
	LeadStatusNew           LeadStatus = "new"
	LeadStatusConnected     LeadStatus = "connected"
	LeadStatusNotPicked     LeadStatus = "not_picked"
	LeadStatusFollowup      LeadStatus = "followup"
	LeadStatusQuotationSent LeadStatus = "quotation_sent"
	LeadStatusDQSent        LeadStatus = "dq_sent"
	LeadStatusAppClient     LeadStatus = "app_client"
	LeadStatusWeb           LeadStatus = "web"
	LeadStatusConverted     LeadStatus = "converted"
	LeadStatusLost          LeadStatus = "lost"
	LeadStatusNotInterested LeadStatus = "not_interested"
	LeadStatusHot           LeadStatus = "hot"
	LeadStatusDemoRequested LeadStatus = "demo_requested"
)

// statusByAPIKey is the single translation table between the key API clients
// send and the stored status. Most keys match the stored value; the
// exceptions ("contacted", "demo") exist for compatibility with older
// frontend builds and live only here.
var statusByAPIKey = map[string]LeadStatus{
	"new":            LeadStatusNew,
	"connected":      LeadStatusConnected,
	"contacted":      LeadStatusConnected,
	"not_picked":     LeadStatusNotPicked,
	"followup":       LeadStatusFollowup,
	"quotation_sent": LeadStatusQuotationSent,
	"dq_sent":        LeadStatusDQSent,
	"app_client":     LeadStatusAppClient,
	"web":            LeadStatusWeb,
	"converted":      LeadStatusConverted,
	"lost":           LeadStatusLost,
	"not_interested": LeadStatusNotInterested,
	"hot":            LeadStatusHot,
	"demo_requested": LeadStatusDemoRequested,
	"demo":           LeadStatusDemoRequested,
}

// ParseLeadStatus maps an API key to a stored status. Unknown keys are
// rejected instead of being passed through as raw strings.
func ParseLeadStatus(key string) (LeadStatus, bool) {
	s, ok := statusByAPIKey[key]
	return s, ok
}

// APIKey returns the canonical key exposed to API clients.
func (s LeadStatus) APIKey() string { return string(s) }

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusConnected, LeadStatusNotPicked, LeadStatusFollowup,
		LeadStatusQuotationSent, LeadStatusDQSent, LeadStatusAppClient, LeadStatusWeb,
		LeadStatusConverted, LeadStatusLost, LeadStatusNotInterested, LeadStatusHot,
		LeadStatusDemoRequested:
		return true
	}
	return false
}

type LeadPriority string

const (
	PriorityLow    LeadPriority = "low"
	PriorityMedium LeadPriority = "medium"
	PriorityHigh   LeadPriority = "high"
)

func (p LeadPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type LeadSource string

const (
	SourceManual LeadSource = "manual"
	SourceBulk   LeadSource = "bulk"
	SourceAPI    LeadSource = "api"
)

// Lead is a prospective customer contact record. Phone holds the canonical
// digits-only key and is unique across the table. AssignedTo is nil while
// the lead sits in the unassigned pool.
type Lead struct {
	ID          int          `json:"id"`
	Phone       string       `json:"phone"`
	CategoryID  int          `json:"category_id"`
	Status      LeadStatus   `json:"status"`
	Priority    LeadPriority `json:"priority"`
	Value       float64      `json:"value"`
	AssignedTo  *int         `json:"assigned_to,omitempty"`
	Source      LeadSource   `json:"source"`
	CreatedAt   time.Time    `json:"created_at"`
	LastContact *time.Time   `json:"last_contact,omitempty"`
}

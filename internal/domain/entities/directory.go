package entities

// SentinelAudience is the scheme audience that applies regardless of state
const SentinelAudience = "All India"

// Logical sheets exposed by the directory source
const (
	SheetHospitals = "Hospitals"
	SheetSchemes   = "Schemes"
	SheetFAQ       = "Medical_FAQ"
)

// DirectoryRecord is one raw row from the directory source. Field names are
// whatever the sheet author used; see the directory adapters for aliases.
type DirectoryRecord map[string]interface{}

// Hospital is a normalized row of the Hospitals sheet
type Hospital struct {
	Name     string `json:"name"`
	State    string `json:"state"`
	District string `json:"district"`
}

// Scheme is a normalized government scheme. The JSON keys are ones the
// scheme aliases accept, so a served list can be read back as directory rows.
type Scheme struct {
	TargetAudience string `json:"state"`
	Title          string `json:"title"`
	Description    string `json:"description"`
}

// FAQ is a normalized question/answer pair
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

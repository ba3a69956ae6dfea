package entities

// SelectorPhase is the state of one dependent choice control
type SelectorPhase string

const (
	SelectorPhaseEmpty     SelectorPhase = "empty"
	SelectorPhaseLoading   SelectorPhase = "loading"
	SelectorPhasePopulated SelectorPhase = "populated"
)

// Selector levels
const (
	SelectorLevelState    = "state"
	SelectorLevelDistrict = "district"
	SelectorLevelHospital = "hospital"
)

// SelectorState is one control of a cascading selector triple
type SelectorState struct {
	Phase       SelectorPhase `json:"phase"`
	Placeholder string        `json:"placeholder"`
	Options     []string      `json:"options"`
	Selected    string        `json:"selected"`
	Disabled    bool          `json:"disabled"`
}

// SelectorGroup is a snapshot of a state/district/hospital triple
type SelectorGroup struct {
	Name     string        `json:"name"`
	State    SelectorState `json:"state"`
	District SelectorState `json:"district"`
	Hospital SelectorState `json:"hospital"`
}

package domain

// PlanGroup is the mutable per-location selection within a session. The
// label is kept exactly as the intent gave it; groups are matched during
// refinement by normalized-label equality, never deleted, and an empty room
// list is a valid terminal state.
type PlanGroup struct {
	Location       string         `json:"localisation"`
	RequestedRooms int            `json:"nombre_salles_demandees"`
	Rooms          []SelectedRoom `json:"resultats"`
}

// Intent is one structured instruction from the upstream parser: where to
// look, how many viewers to reach, and optionally how many screenings.
// Audience is informational; it never constrains room choice.
type Intent struct {
	Location  string
	Audience  int
	RoomCount int // 0 means "not given"; callers default to 1
}

// Instruction actions, as emitted by the upstream refinement parser.
const (
	ActionAdd          = "ajouter"
	ActionRemove       = "supprimer"
	ActionModify       = "modifier"
	ActionUnrecognized = "incompris"
)

// Removal criteria and operators.
const (
	CriterionCapacityMin = "capacite_min"
	CriterionCapacityMax = "capacite_max"
	CriterionDistanceMax = "distance_max"

	OpLess    = "inferieur"
	OpGreater = "superieur"
	OpEqual   = "egal"
)

// Instruction is one structured refinement command.
type Instruction struct {
	Action    string
	Location  string
	Count     int
	Criterion string
	Value     *float64
	Operator  string
	Message   string // parser explanation for incompris
}

package model

type CompanyCount struct {
	CompanyName string `json:"company_name"`
	Count       int64  `json:"count"`
}

type InitialStateCount struct {
	InitialState string `json:"initial_state"`
	Count        int64  `json:"count"`
}

type ActionCount struct {
	Action string `json:"action"`
	Count  int64  `json:"count"`
}

// Stats is the dashboard summary over every intervention.
type Stats struct {
	Ongoing        int64               `json:"ongoing"`
	Total          int64               `json:"total"`
	StillDown      int64               `json:"still_down"`
	ByCompany      []CompanyCount      `json:"by_company"`
	ByInitialState []InitialStateCount `json:"by_initial_state"`
	ByAction       []ActionCount       `json:"by_action"`
	ResolutionRate float64             `json:"resolution_rate"`
	Companies      []string            `json:"companies"`
}

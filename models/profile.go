package models

// Profile holds the display attributes owned by the alumni directory.
type Profile struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Image          string       `json:"image"`
	Email          string       `json:"email,omitempty"`
	GraduationYear int          `json:"graduation_year,omitempty"`
	Program        string       `json:"program,omitempty"`
	Company        string       `json:"company,omitempty"`
	Position       string       `json:"position,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	Skills         []string     `json:"skills,omitempty"`
	Education      string       `json:"education,omitempty"`
	LinkedIn       string       `json:"linkedin,omitempty"`
	Twitter        string       `json:"twitter,omitempty"`
	Website        string       `json:"website,omitempty"`
	Experiences    []Experience `json:"experiences,omitempty"`
}

// Experience is one entry of a profile's work history.
type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Duration    string `json:"duration"`
	Description string `json:"description,omitempty"`
}

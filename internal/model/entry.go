package model

// NewEntryForm is the add-candidate/lead form as submitted by the console UI.
type NewEntryForm struct {
	Name                string   `json:"name" validate:"required,person_name"`
	Email               string   `json:"email" validate:"required,email"`
	Phone               string   `json:"phone" validate:"required,phone_number"`
	CountryCode         string   `json:"countryCode" validate:"required"`
	LinkedinProfileLink string   `json:"linkedinProfileLink" validate:"omitempty,linkedin_url"`
	JobFunction         string   `json:"jobFunction" validate:"required"`
	Tags                []string `json:"tags"`
	Comment             string   `json:"comment"`
}

// EntryName wraps the first name the way the upstream creation endpoint
// expects it.
type EntryName struct {
	First string `json:"first"`
}

// EntryPayload is the wire body for the upstream new-entry endpoint. The
// note is assembled from the selected tags plus the free-text comment.
type EntryPayload struct {
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	CountryCode         string    `json:"countryCode"`
	LinkedinProfileLink string    `json:"linkedinProfileLink,omitempty"`
	Name                EntryName `json:"name"`
	JobFunction         string    `json:"_jobFunction,omitempty"`
	Note                string    `json:"note,omitempty"`
}

package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hireloop-labs/hireloop-console/internal/apiclient"
	"github.com/hireloop-labs/hireloop-console/internal/model"
)

var (
	personNameRe  = regexp.MustCompile(`^[A-Za-z\s.'-]+$`)
	phoneNumberRe = regexp.MustCompile(`^\+?[0-9\s\-()]{7,20}$`)
	linkedinRe    = regexp.MustCompile(`(?i)^(https?://)?(www\.)?linkedin\.com/.*$`)
)

// ValidationError carries field-level messages for a rejected form. Nothing
// is sent upstream when validation fails.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("form validation failed for %d field(s)", len(e.Fields))
}

// EntryService validates new candidate/lead forms and submits them to the
// upstream creation endpoint.
type EntryService struct {
	api      *apiclient.Client
	validate *validator.Validate
}

// NewEntryService builds EntryService with the form validation rules
// registered.
func NewEntryService(api *apiclient.Client) *EntryService {
	v := validator.New()
	mustRegister(v, "person_name", personNameRe)
	mustRegister(v, "phone_number", phoneNumberRe)
	mustRegister(v, "linkedin_url", linkedinRe)
	return &EntryService{api: api, validate: v}
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// Submit validates the form and creates the entry upstream. A
// *ValidationError is returned for invalid input; other errors come from
// the wire.
func (s *EntryService) Submit(ctx context.Context, token string, form model.NewEntryForm) error {
	form = trimForm(form)
	if err := s.validate.Struct(form); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			return &ValidationError{Fields: fieldMessages(invalid)}
		}
		return err
	}
	return s.api.CreateEntry(ctx, token, buildPayload(form))
}

func trimForm(form model.NewEntryForm) model.NewEntryForm {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	form.CountryCode = strings.TrimSpace(form.CountryCode)
	form.LinkedinProfileLink = strings.TrimSpace(form.LinkedinProfileLink)
	form.JobFunction = strings.TrimSpace(form.JobFunction)
	form.Comment = strings.TrimSpace(form.Comment)
	return form
}

func fieldMessages(errs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		switch e.StructField() {
		case "Name":
			if e.Tag() == "required" {
				fields["name"] = "Name is required."
			} else {
				fields["name"] = "Name can only contain letters, spaces, dots, apostrophes, and hyphens."
			}
		case "Email":
			if e.Tag() == "required" {
				fields["email"] = "Email is required."
			} else {
				fields["email"] = "Please enter a valid email address."
			}
		case "Phone":
			if e.Tag() == "required" {
				fields["phone"] = "Phone is required."
			} else {
				fields["phone"] = "Please enter a valid phone number."
			}
		case "CountryCode":
			fields["countryCode"] = "Country Code is required."
		case "LinkedinProfileLink":
			fields["linkedinProfileLink"] = "Please enter a valid LinkedIn profile URL."
		case "JobFunction":
			fields["jobFunction"] = "Job Function is required."
		}
	}
	return fields
}

// buildPayload assembles the upstream creation body. The note is the
// selected tag labels joined with ", ", followed by the free-text comment
// when present.
func buildPayload(form model.NewEntryForm) model.EntryPayload {
	return model.EntryPayload{
		Email:               form.Email,
		Phone:               form.Phone,
		CountryCode:         form.CountryCode,
		LinkedinProfileLink: form.LinkedinProfileLink,
		Name:                model.EntryName{First: form.Name},
		JobFunction:         form.JobFunction,
		Note:                assembleNote(form.Tags, form.Comment),
	}
}

func assembleNote(tags []string, comment string) string {
	if len(tags) == 0 {
		return comment
	}
	joined := strings.Join(tags, ", ")
	if comment == "" {
		return joined
	}
	return joined + ". " + comment
}

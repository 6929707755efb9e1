package models

import (
	"regexp"
	"strings"
)

// FieldKind is the input kind of an enrollment field definition.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldTel      FieldKind = "tel"
	FieldEmail    FieldKind = "email"
	FieldURL      FieldKind = "url"
	FieldDate     FieldKind = "date"
	FieldSelect   FieldKind = "select"
	FieldTextarea FieldKind = "textarea"
)

// FieldDefinition describes one entry of the fixed enrollment-field catalog.
// Locked fields cannot be removed from a course's configuration.
type FieldDefinition struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Kind        FieldKind `json:"kind"`
	Locked      bool      `json:"locked"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"`
}

// FieldConfig is a course's reference to a catalog field.
type FieldConfig struct {
	FieldID  string `json:"field_id"`
	Required bool   `json:"required"`
}

const (
	FieldFullName = "fullName"
	FieldPhone    = "phone"
)

// EnrollmentFieldCatalog is the fixed set of fields an instructor can pick
// from when configuring a course's enrollment form.
var EnrollmentFieldCatalog = []FieldDefinition{
	{ID: FieldFullName, Label: "Full Name", Kind: FieldText, Locked: true, Placeholder: "e.g. Mohammed Ahmed Abdallah"},
	{ID: FieldPhone, Label: "Phone Number", Kind: FieldTel, Locked: true, Placeholder: "09xxxxxxxx"},
	{ID: "email", Label: "Email Address", Kind: FieldEmail, Placeholder: "you@example.com"},
	{ID: "nationalId", Label: "National ID", Kind: FieldText, Placeholder: "Enter your national ID number"},
	{ID: "dateOfBirth", Label: "Date of Birth", Kind: FieldDate},
	{ID: "gender", Label: "Gender", Kind: FieldSelect, Options: []string{"Male", "Female", "Prefer not to say"}},
	{ID: "city", Label: "City / Location", Kind: FieldText, Placeholder: "e.g. Khartoum, Omdurman"},
	{ID: "university", Label: "University / School", Kind: FieldText, Placeholder: "e.g. University of Khartoum"},
	{ID: "specialization", Label: "Specialization / Major", Kind: FieldText, Placeholder: "e.g. Computer Science, Engineering"},
	{ID: "educationLevel", Label: "Education Level", Kind: FieldSelect, Options: []string{"High School", "Diploma", "Bachelor's", "Master's", "PhD", "Other"}},
	{ID: "occupation", Label: "Occupation / Job Title", Kind: FieldText, Placeholder: "e.g. Software Engineer, Student"},
	{ID: "experience", Label: "Years of Experience", Kind: FieldSelect, Options: []string{"No experience", "Less than 1 year", "1–2 years", "3–5 years", "5+ years"}},
	{ID: "linkedin", Label: "LinkedIn Profile", Kind: FieldURL, Placeholder: "https://linkedin.com/in/yourprofile"},
	{ID: "motivation", Label: "Why do you want to join?", Kind: FieldTextarea, Placeholder: "Tell us why you're interested in this course..."},
	{ID: "referral", Label: "How did you hear about us?", Kind: FieldText, Placeholder: "e.g. Friend, social media, Google"},
	{ID: "note", Label: "Additional Notes", Kind: FieldTextarea, Placeholder: "Any questions or special requests..."},
}

// FieldByID resolves a field id against the catalog.
func FieldByID(id string) (FieldDefinition, bool) {
	for _, def := range EnrollmentFieldCatalog {
		if def.ID == id {
			return def, true
		}
	}
	return FieldDefinition{}, false
}

// DefaultFieldConfigs is used for courses created without an explicit
// enrollment-field configuration.
func DefaultFieldConfigs() []FieldConfig {
	return []FieldConfig{
		{FieldID: FieldFullName, Required: true},
		{FieldID: FieldPhone, Required: true},
		{FieldID: "email", Required: false},
	}
}

// EffectiveFieldConfigs forces full name and phone into the configuration as
// required fields, whatever the instructor configured. Field ids unknown to
// the catalog are dropped.
func EffectiveFieldConfigs(configs []FieldConfig) []FieldConfig {
	if len(configs) == 0 {
		configs = DefaultFieldConfigs()
	}

	out := make([]FieldConfig, 0, len(configs)+2)
	seen := map[string]bool{}
	for _, fc := range configs {
		if _, ok := FieldByID(fc.FieldID); !ok {
			continue
		}
		if fc.FieldID == FieldFullName || fc.FieldID == FieldPhone {
			fc.Required = true
		}
		if !seen[fc.FieldID] {
			out = append(out, fc)
			seen[fc.FieldID] = true
		}
	}
	if !seen[FieldPhone] {
		out = append([]FieldConfig{{FieldID: FieldPhone, Required: true}}, out...)
	}
	if !seen[FieldFullName] {
		out = append([]FieldConfig{{FieldID: FieldFullName, Required: true}}, out...)
	}
	return out
}

var (
	phonePattern = regexp.MustCompile(`^09\d{8}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NormalizePhone strips separator hyphens before format validation.
func NormalizePhone(v string) string {
	return strings.ReplaceAll(v, "-", "")
}

// ValidEnrollmentPhone reports whether v is a valid local mobile number
// (09 followed by exactly 8 digits) after stripping hyphens.
func ValidEnrollmentPhone(v string) bool {
	return phonePattern.MatchString(NormalizePhone(v))
}

// ValidateEnrollmentValues checks learner-supplied values against a course's
// effective field configuration. It returns one message per offending field;
// an empty map means the submission is valid. Format checks for phone and
// email apply whenever a value is present, independent of the required flag.
func ValidateEnrollmentValues(configs []FieldConfig, values map[string]string) map[string]string {
	errs := map[string]string{}

	for _, fc := range EffectiveFieldConfigs(configs) {
		def, ok := FieldByID(fc.FieldID)
		if !ok {
			continue
		}
		val := strings.TrimSpace(values[fc.FieldID])

		if fc.Required && val == "" {
			errs[fc.FieldID] = def.Label + " is required"
			continue
		}
		if fc.FieldID == FieldPhone && val != "" && !ValidEnrollmentPhone(val) {
			errs[FieldPhone] = "Enter a valid Sudanese number (09xxxxxxxx)"
		}
		if fc.FieldID == "email" && val != "" && !emailPattern.MatchString(val) {
			errs["email"] = "Enter a valid email address"
		}
	}
	return errs
}

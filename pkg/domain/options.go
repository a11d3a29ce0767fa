package domain

// Option is an id/label pair for enumerated user attributes.
type Option struct {
	Value int
	Label string
}

// Gender, IC type and record status choices offered by the backend.
var (
	GenderOptions = []Option{
		{1, "Male"},
		{2, "Female"},
		{3, "Other"},
	}

	ICTypeOptions = []Option{
		{1, "NRIC"},
		{2, "Passport"},
		{3, "Other"},
	}

	RecordStatusOptions = []Option{
		{1, "Active"},
		{2, "Inactive"},
		{3, "Suspended"},
	}
)

// GenderLabel returns the label for a gender id, or "Unknown".
func GenderLabel(id int) string { return optionLabel(GenderOptions, id) }

// ICTypeLabel returns the label for an IC type id, or "Unknown".
func ICTypeLabel(id int) string { return optionLabel(ICTypeOptions, id) }

// RecordStatusLabel returns the label for a record status id, or "Unknown".
func RecordStatusLabel(id int) string { return optionLabel(RecordStatusOptions, id) }

func optionLabel(opts []Option, id int) string {
	for _, o := range opts {
		if o.Value == id {
			return o.Label
		}
	}
	return "Unknown"
}

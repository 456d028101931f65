package engine

// Field names of the salary dataset.
const (
	FieldWorkYear          = "work_year"
	FieldExperienceLevel   = "experience_level"
	FieldEmploymentType    = "employment_type"
	FieldJobTitle          = "job_title"
	FieldSalaryInUSD       = "salary_in_usd"
	FieldEmployeeResidence = "employee_residence"
	FieldRemoteRatio       = "remote_ratio"
	FieldCompanyLocation   = "company_location"
	FieldCompanySize       = "company_size"
)

// fieldSpec describes how a required column is parsed and validated.
type fieldSpec struct {
	name     string
	kind     Kind
	integer  bool // numeric column that must hold whole numbers
	required bool // cell may not be empty
	allowed  map[string]bool
}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// requiredFields lists every column a dataset must carry, in canonical order.
var requiredFields = []fieldSpec{
	{name: FieldWorkYear, kind: Numeric, integer: true, required: true},
	{name: FieldExperienceLevel, kind: Categorical, allowed: set("EN", "MI", "SE", "EX")},
	{name: FieldEmploymentType, kind: Categorical, allowed: set("FT", "PT", "CT", "FL")},
	{name: FieldJobTitle, kind: Categorical},
	{name: FieldSalaryInUSD, kind: Numeric},
	{name: FieldEmployeeResidence, kind: Categorical},
	{name: FieldRemoteRatio, kind: Numeric, integer: true, required: true, allowed: set("0", "50", "100")},
	{name: FieldCompanyLocation, kind: Categorical},
	{name: FieldCompanySize, kind: Categorical, allowed: set("S", "M", "L")},
}

func lookupField(name string) (fieldSpec, bool) {
	for _, f := range requiredFields {
		if f.name == name {
			return f, true
		}
	}
	return fieldSpec{}, false
}

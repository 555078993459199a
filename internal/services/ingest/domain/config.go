package domain

// FieldKind is the canonical type a coerced field carries
type FieldKind int

// Field kinds
const (
	KindString FieldKind = iota
	KindDate
	KindPhone
	KindBool
	KindFloat
)

// FieldSpec declares one canonical field of a record type
type FieldSpec struct {
	Name     string
	Kind     FieldKind
	Required bool
	Enum     []string // closed value set, case-insensitive; nil means open
	Email    bool     // format check, runs only when non-empty
}

// RecordTypeConfig is the static description of one supported record type.
// Loaded at process start, immutable afterwards.
type RecordTypeConfig struct {
	Type       string
	Collection string
	Fields     []FieldSpec

	// Aliases maps normalized raw headers to canonical field names
	Aliases map[string]string

	// Identity is the key precedence list, walked in order
	Identity []string

	// KeyedByIdentity types upsert by identity with merge; others always
	// create new documents so history is preserved
	KeyedByIdentity bool

	// DirectShare applies to labor reports only: the fraction of reported
	// hours booked as direct. Zero means DefaultDirectShare.
	DirectShare float64
}

// DefaultDirectShare is the assumed direct/indirect hour split for labor
// report rows when the source carries only a combined total. A business
// heuristic carried over from the manual process; override per config when
// a site reports real splits.
const DefaultDirectShare = 0.80

// Field returns the FieldSpec for a canonical field name, if declared
func (c RecordTypeConfig) Field(name string) (FieldSpec, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Registry holds the active record type configs keyed by type name
type Registry map[string]RecordTypeConfig

// Lookup returns the config for a record type name
func (r Registry) Lookup(name string) (RecordTypeConfig, bool) {
	c, ok := r[name]
	return c, ok
}

// DefaultRegistry builds the built-in record type configs
func DefaultRegistry() Registry {
	types := []RecordTypeConfig{
		{
			Type:       "applicant",
			Collection: "applicants",
			Identity:   []string{"eid", "crmNumber"},
			Fields: []FieldSpec{
				{Name: "eid", Kind: KindString},
				{Name: "crmNumber", Kind: KindString},
				{Name: "name", Kind: KindString, Required: true},
				{Name: "status", Kind: KindString, Required: true, Enum: []string{
					"Applied", "Interviewed", "Offered", "Hired", "Declined", "Withdrawn",
				}},
				{Name: "email", Kind: KindString, Email: true},
				{Name: "phone", Kind: KindPhone},
				{Name: "appliedDate", Kind: KindDate},
			},
			Aliases: map[string]string{
				"eid": "eid", "employeeid": "eid", "employee": "eid",
				"crmnumber": "crmNumber", "crm": "crmNumber", "crmno": "crmNumber",
				"name": "name", "fullname": "name", "applicantname": "name", "candidatename": "name",
				"status": "status", "applicationstatus": "status",
				"email": "email", "emailaddress": "email",
				"phone": "phone", "phonenumber": "phone", "cellphone": "phone",
				"applieddate": "appliedDate", "dateapplied": "appliedDate", "applicationdate": "appliedDate",
			},
		},
		{
			Type:            "associate",
			Collection:      "associates",
			Identity:        []string{"eid", "crmNumber"},
			KeyedByIdentity: true,
			Fields: []FieldSpec{
				{Name: "eid", Kind: KindString},
				{Name: "crmNumber", Kind: KindString},
				{Name: "name", Kind: KindString, Required: true},
				{Name: "status", Kind: KindString, Required: true, Enum: []string{
					"Active", "Inactive", "Terminated", "Leave",
				}},
				{Name: "shift", Kind: KindString, Enum: []string{"1st", "2nd", "3rd", "Weekend"}},
				{Name: "department", Kind: KindString},
				{Name: "phone", Kind: KindPhone},
				{Name: "startDate", Kind: KindDate},
			},
			Aliases: map[string]string{
				"eid": "eid", "employeeid": "eid", "employee": "eid", "associateid": "eid",
				"crmnumber": "crmNumber", "crm": "crmNumber",
				"name": "name", "fullname": "name", "associatename": "name", "employeename": "name",
				"status": "status", "employmentstatus": "status",
				"shift": "shift", "shiftcode": "shift",
				"department": "department", "dept": "department",
				"phone": "phone", "phonenumber": "phone",
				"startdate": "startDate", "hiredate": "startDate", "datestarted": "startDate",
			},
		},
		{
			Type:       "early_leave",
			Collection: "early_leaves",
			Identity:   []string{"eid", "crmNumber"},
			Fields: []FieldSpec{
				{Name: "eid", Kind: KindString},
				{Name: "crmNumber", Kind: KindString},
				{Name: "name", Kind: KindString, Required: true},
				{Name: "leaveDate", Kind: KindDate, Required: true},
				{Name: "reason", Kind: KindString},
				{Name: "excused", Kind: KindBool},
			},
			Aliases: map[string]string{
				"eid": "eid", "employeeid": "eid",
				"crmnumber": "crmNumber", "crm": "crmNumber",
				"name": "name", "fullname": "name", "employeename": "name",
				"leavedate": "leaveDate", "date": "leaveDate", "dateleft": "leaveDate",
				"reason": "reason", "leavereason": "reason",
				"excused": "excused",
			},
		},
		{
			Type:       "dnr",
			Collection: "dnr",
			Identity:   []string{"eid", "crmNumber"},
			Fields: []FieldSpec{
				{Name: "eid", Kind: KindString},
				{Name: "crmNumber", Kind: KindString},
				{Name: "name", Kind: KindString, Required: true},
				{Name: "reason", Kind: KindString, Required: true},
				{Name: "addedDate", Kind: KindDate},
			},
			Aliases: map[string]string{
				"eid": "eid", "employeeid": "eid",
				"crmnumber": "crmNumber", "crm": "crmNumber",
				"name": "name", "fullname": "name", "employeename": "name",
				"reason": "reason", "dnrreason": "reason",
				"addeddate": "addedDate", "date": "addedDate", "dateadded": "addedDate",
			},
		},
		{
			Type:            "badge",
			Collection:      "badges",
			Identity:        []string{"eid"},
			KeyedByIdentity: true,
			Fields: []FieldSpec{
				{Name: "eid", Kind: KindString},
				{Name: "badgeNumber", Kind: KindString, Required: true},
				{Name: "name", Kind: KindString},
				{Name: "issuedDate", Kind: KindDate},
				{Name: "active", Kind: KindBool},
			},
			Aliases: map[string]string{
				"eid": "eid", "employeeid": "eid",
				"badgenumber": "badgeNumber", "badge": "badgeNumber", "badgeno": "badgeNumber", "badgeid": "badgeNumber",
				"name": "name", "fullname": "name", "employeename": "name",
				"issueddate": "issuedDate", "dateissued": "issuedDate",
				"active": "active",
			},
		},
		{
			Type:       "labor_report",
			Collection: "labor_reports",
			Identity:   []string{"eid"},
			Fields: []FieldSpec{
				{Name: "eid", Kind: KindString},
				{Name: "name", Kind: KindString},
				{Name: "workDate", Kind: KindDate, Required: true},
				{Name: "totalHours", Kind: KindFloat, Required: true},
				{Name: "department", Kind: KindString},
			},
			Aliases: map[string]string{
				"eid": "eid", "employeeid": "eid", "employee": "eid", "id": "eid",
				"name": "name", "fullname": "name", "employeename": "name",
				"workdate": "workDate", "date": "workDate", "shiftdate": "workDate",
				"totalhours": "totalHours", "hours": "totalHours", "hoursworked": "totalHours",
				"department": "department", "dept": "department",
			},
		},
	}

	reg := make(Registry, len(types))
	for _, t := range types {
		reg[t.Type] = t
	}
	return reg
}

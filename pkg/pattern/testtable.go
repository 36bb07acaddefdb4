package pattern

// Item statuses.
const (
	StatusPass = "pass"
	StatusFail = "fail"
	StatusWarn = "warn"
	StatusSkip = "skip"
)

// TestTable is a titled list of findings or test outcomes.
type TestTable struct {
	Label   string
	Source  string // section key, e.g. "compile", "style", "tests"
	Results []TestTableItem
}

// TestTableItem is a single finding or test result.
type TestTableItem struct {
	Name     string // finding text or test id
	Status   string // one of the Status constants
	Duration string // formatted duration
	Count    int    // number of tests (suite-level)
	Details  string // error message, remediation or snippet
}

func (t *TestTable) Type() PatternType { return PatternTypeTestTable }

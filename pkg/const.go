package pkg

const HeaderTraceId string = "X-Trace-Id"

const (
	TraceId  string = "trace_id"
	RecordId string = "record_id"
)

// Verdict is the binary classifier output.
type Verdict int

const (
	VerdictLegitimate Verdict = 0
	VerdictFraud      Verdict = 1
)

func (v Verdict) IsFraud() bool { return v == VerdictFraud }

func (v Verdict) String() string {
	if v.IsFraud() {
		return "fraud"
	}
	return "legitimate"
}

// Database drivers supported by the flagged transaction store.
const (
	DriverSQLite   string = "sqlite"
	DriverPostgres string = "postgres"
)

// Model sources supported by the classifier loader.
const (
	ModelSourceFile   string = "file"
	ModelSourceRemote string = "remote"
)

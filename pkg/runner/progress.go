package runner

type ProgressEventType string

const (
	EventSuiteStart     ProgressEventType = "suiteStart"
	EventCaseStart      ProgressEventType = "caseStart"
	EventCaseSimulating ProgressEventType = "caseSimulating"
	EventCaseEvaluating ProgressEventType = "caseEvaluating"
	EventCaseError      ProgressEventType = "caseError"
	EventCaseComplete   ProgressEventType = "caseComplete"
	EventSuiteComplete  ProgressEventType = "suiteComplete"
)

// ProgressEvent is delivered to the callback as a run moves through its
// phases. Case is set for all case-scoped events.
type ProgressEvent struct {
	Type    ProgressEventType
	Message string
	Case    *RunResult
}

type ProgressCallback func(event ProgressEvent)

func NoopProgressCallback(ProgressEvent) {}

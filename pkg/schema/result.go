package schema

// Level is the severity of a validation message.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	default:
		return "INFO"
	}
}

// Result collects the messages of one validation pass.
// Valid is false exactly when Errors is non-empty; append through Add to keep it so.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Info     []string `json:"info"`
}

// NewResult returns an empty, valid result.
func NewResult() *Result {
	return &Result{Valid: true, Errors: []string{}, Warnings: []string{}, Info: []string{}}
}

// Add appends msg at the given level.
func (r *Result) Add(level Level, msg string) {
	switch level {
	case LevelError:
		r.Errors = append(r.Errors, msg)
		r.Valid = false
	case LevelWarning:
		r.Warnings = append(r.Warnings, msg)
	default:
		r.Info = append(r.Info, msg)
	}
}

// Messages returns every message prefixed with its level,
// errors first, then warnings, then info.
func (r *Result) Messages() []string {
	msgs := make([]string, 0, len(r.Errors)+len(r.Warnings)+len(r.Info))
	for _, m := range r.Errors {
		msgs = append(msgs, LevelError.String()+": "+m)
	}
	for _, m := range r.Warnings {
		msgs = append(msgs, LevelWarning.String()+": "+m)
	}
	for _, m := range r.Info {
		msgs = append(msgs, LevelInfo.String()+": "+m)
	}
	return msgs
}

// Err returns the errors as an *AggregateError, or nil when the result is valid.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, msg := range r.Errors {
		errs[i] = newValidationError(msg)
	}
	return &AggregateError{Errors: errs}
}

// Merge appends the errors and warnings of other, each prefixed with prefix.
// Info lines of other are dropped.
func (r *Result) Merge(other *Result, prefix string) {
	for _, msg := range other.Errors {
		r.Add(LevelError, prefix+msg)
	}
	for _, msg := range other.Warnings {
		r.Add(LevelWarning, prefix+msg)
	}
}

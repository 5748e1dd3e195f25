package batch

import "time"

// Outcome is the result of one record.
type Outcome struct {
	RecordID string
	Title    string

	// Stage is the state the record failed in, or closing_up once it was saved.
	Stage string
	Err   error

	// Path of the saved file; empty unless the record was saved.
	Path     string
	Duration time.Duration
}

// OK reports whether the record was typed and saved.
func (o Outcome) OK() bool { return o.Err == nil }

// Report summarizes a run.
type Report struct {
	OutputDir string
	Outcomes  []Outcome
	Succeeded int
	Failed    int

	// Sweeps counts kill-by-name cleanups, including the pre and post run sweeps.
	Sweeps   int
	Duration time.Duration
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.OK() {
		r.Succeeded++
	} else {
		r.Failed++
	}
}

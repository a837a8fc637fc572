package importers

import "fmt"

// RowState is a step in a row's life cycle:
// pending -> normalizing -> resolving -> persisting -> succeeded, with
// rejected reachable from normalizing and persisting.
type RowState string

const (
	RowPending     RowState = "pending"
	RowNormalizing RowState = "normalizing"
	RowResolving   RowState = "resolving"
	RowPersisting  RowState = "persisting"
	RowSucceeded   RowState = "succeeded"
	RowRejected    RowState = "rejected"
)

// RowOutcome is the result of one row: either Item or Err is set.
type RowOutcome struct {
	Row      int
	Line     int
	State    RowState
	FailedAt RowState
	Title    string
	Item     *ReportItem
	Err      error
}

func (o RowOutcome) Succeeded() bool {
	return o.State == RowSucceeded
}

type ReportItem struct {
	ID    uint    `json:"id"`
	Slug  *string `json:"slug"`
	Title string  `json:"title"`
}

type ReportError struct {
	Row   int     `json:"row"`
	Line  int     `json:"line,omitempty"`
	Error string  `json:"error"`
	Title *string `json:"title"`
	Kind  string  `json:"kind"`
}

// Report lists one entry per input row, in spreadsheet order.
type Report struct {
	Imported int           `json:"imported"`
	Total    int           `json:"total"`
	Items    []ReportItem  `json:"items"`
	Errors   []ReportError `json:"errors"`
}

func NewReport() *Report {
	return &Report{
		Items:  []ReportItem{},
		Errors: []ReportError{},
	}
}

func (r *Report) Add(o RowOutcome) {
	r.Total++
	if o.Succeeded() && o.Item != nil {
		r.Imported++
		r.Items = append(r.Items, *o.Item)
		return
	}

	entry := ReportError{Row: o.Row, Line: o.Line, Kind: Kind(o.Err)}
	if o.Err != nil {
		entry.Error = o.Err.Error()
	} else {
		entry.Error = "row was not imported"
	}
	if o.Title != "" {
		title := o.Title
		entry.Title = &title
	}
	r.Errors = append(r.Errors, entry)
}

func (r *Report) Failed() int {
	return len(r.Errors)
}

// Summary is a one-line description of a report for audit logs.
func (r *Report) Summary() string {
	return fmt.Sprintf("imported %d of %d rows (%d failed)", r.Imported, r.Total, r.Failed())
}

package search

// Recorder is the unit of work handed to the synchronizer after a commit. It
// captures the searchable entities a transaction added, updated and deleted.
// Entities are tracked by instance, not by id: a newly added row has no id at
// capture time and only receives one when the insert runs.
type Recorder struct {
	added   []Searchable
	updated []Searchable
	deleted []Searchable
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Added records a newly inserted entity.
func (r *Recorder) Added(e Searchable) {
	r.added = append(r.added, e)
}

// Updated records a modified entity.
func (r *Recorder) Updated(e Searchable) {
	r.updated = append(r.updated, e)
}

// Deleted records a removed entity.
func (r *Recorder) Deleted(e Searchable) {
	r.deleted = append(r.deleted, e)
}

// Empty reports whether the recorder captured no changes.
func (r *Recorder) Empty() bool {
	return len(r.added) == 0 && len(r.updated) == 0 && len(r.deleted) == 0
}

package cleaner

// Progress represents the progress of a cleaning run.
type Progress struct {
	File        string
	Ordinal     int
	TotalFiles  int
	CurrentItem int // images fetched so far for this file
	TotalItems  int // remote images referenced by this file
	Status      string // "cleaning", "downloading", "complete", "error"
	Err         error
}

package syncengine

import "fmt"

// Report summarises an upload pass.
type Report struct {
	Offline   bool
	Attempted int
	Synced    int
	Failed    int
}

func (r Report) String() string {
	if r.Offline {
		return "upload skipped: offline"
	}
	return fmt.Sprintf("upload: %d attempted, %d synced, %d failed", r.Attempted, r.Synced, r.Failed)
}

// MergeReport summarises a download-and-merge pass.
type MergeReport struct {
	Offline   bool
	Fetched   int
	Inserted  int
	Updated   int
	Pushed    int
	Unchanged int
	Failed    int
}

func (r MergeReport) String() string {
	if r.Offline {
		return "download skipped: offline"
	}
	return fmt.Sprintf("download: %d fetched, %d inserted, %d updated, %d pushed, %d unchanged, %d failed",
		r.Fetched, r.Inserted, r.Updated, r.Pushed, r.Unchanged, r.Failed)
}

type FullReport struct {
	Upload   Report
	Download MergeReport
}

func (r FullReport) String() string {
	return r.Upload.String() + "; " + r.Download.String()
}

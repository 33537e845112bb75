package application

import "github.com/ericfisherdev/cistatus/internal/domain/model"

// MergeStatuses normalizes the two feed shapes into one sequence, native
// statuses first. A check run counts as pending until it completes, then it
// contributes its conclusion. Order only matters for display; the overall
// state is order-independent.
func MergeStatuses(statuses []model.CommitStatus, runs []model.CheckRun) []model.Status {
	merged := make([]model.Status, 0, len(statuses)+len(runs))
	for _, s := range statuses {
		merged = append(merged, model.Status{
			State:     s.State,
			Context:   s.Context,
			TargetURL: s.TargetURL,
		})
	}
	for _, r := range runs {
		state := string(model.StatePending)
		if r.Status == "completed" {
			state = r.Conclusion
		}
		merged = append(merged, model.Status{
			State:     state,
			Context:   r.Name,
			TargetURL: r.DetailsURL,
		})
	}
	return merged
}

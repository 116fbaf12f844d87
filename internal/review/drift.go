package review

// DriftReport lists disagreements between the checkpoint's index sets and the
// export collections. Loading never reconciles these; the report only makes
// them visible.
type DriftReport struct {
	// ReviewedUnlabeled are reviewed indices whose text is in neither export.
	ReviewedUnlabeled []int `json:"reviewed_unlabeled"`
	// LabeledUnreviewed are indices labeled through a shared text but never
	// reviewed themselves.
	LabeledUnreviewed []int `json:"labeled_unreviewed"`
	// StaleIndices are reviewed or deleted indices beyond the record list.
	StaleIndices []int `json:"stale_indices"`
	// OrphanTexts are export entries that match no input record.
	OrphanTexts []string `json:"orphan_texts"`
}

// Clean reports whether no drift was found.
func (r DriftReport) Clean() bool {
	return len(r.ReviewedUnlabeled) == 0 &&
		len(r.LabeledUnreviewed) == 0 &&
		len(r.StaleIndices) == 0 &&
		len(r.OrphanTexts) == 0
}

// Drift compares the session's index sets with its export collections.
func (s *Session) Drift() DriftReport {
	report := DriftReport{
		ReviewedUnlabeled: []int{},
		LabeledUnreviewed: []int{},
		StaleIndices:      []int{},
		OrphanTexts:       []string{},
	}

	inputTexts := make(map[string]struct{}, s.store.Len())
	for i := 0; i < s.store.Len(); i++ {
		rec, _ := s.store.At(i)
		inputTexts[rec.Text] = struct{}{}

		status := s.ledger.Status(i)
		reviewed := s.ledger.IsReviewed(i)
		switch {
		case reviewed && status == Pending:
			report.ReviewedUnlabeled = append(report.ReviewedUnlabeled, i)
		case !reviewed && (status == Accepted || status == Rejected):
			report.LabeledUnreviewed = append(report.LabeledUnreviewed, i)
		}
	}

	stale := map[int]struct{}{}
	for _, set := range [][]int{s.ledger.Reviewed(), s.ledger.Deleted()} {
		for _, i := range set {
			if !s.store.Valid(i) {
				stale[i] = struct{}{}
			}
		}
	}
	report.StaleIndices = sortedKeys(stale)

	for _, coll := range [][]string{texts(s.ledger.Accepted()), texts(s.ledger.Rejected())} {
		for _, text := range coll {
			if _, ok := inputTexts[text]; !ok {
				report.OrphanTexts = append(report.OrphanTexts, text)
			}
		}
	}
	return report
}

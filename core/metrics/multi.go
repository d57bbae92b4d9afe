package metrics

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTrial forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordTrial(rec TrialRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordTrial(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordRanking forwards rankings to sinks that support them.
func (m *MultiSink) RecordRanking(recs []RankingRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(RankingRecorder); ok {
			if err := r.RecordRanking(recs); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordRunSummary forwards run summaries.
func (m *MultiSink) RecordRunSummary(sum RunSummary) error {
	for _, s := range m.Sinks {
		if r, ok := s.(RunSummaryRecorder); ok {
			if err := r.RecordRunSummary(sum); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordTick forwards live progress.
func (m *MultiSink) RecordTick(rec TickRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(TickRecorder); ok {
			if err := r.RecordTick(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordGroupResult forwards live group results.
func (m *MultiSink) RecordGroupResult(res GroupResult) error {
	for _, s := range m.Sinks {
		if r, ok := s.(GroupResultRecorder); ok {
			if err := r.RecordGroupResult(res); err != nil {
				return err
			}
		}
	}
	return nil
}

// Package stats records runtime statistics about chains of TableOperations.
package stats

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/go-sif/tabula"
)

// StageStatistics describes the execution of one operation in a chain
type StageStatistics struct {
	Runtime time.Duration
	RowsIn  int
	RowsOut int
}

// RunStatistics contains statistics about a chain of TableOperations
type RunStatistics struct {
	started      bool
	finished     bool
	startTime    time.Time
	totalRuntime time.Duration
	stages       []StageStatistics

	// temp vars
	currentStageStartTime time.Time
}

// Start triggers statistics tracking, if it hasn't been started already
func (rs *RunStatistics) Start(numStages int) {
	if !rs.started {
		rs.started = true
		rs.startTime = time.Now()
		rs.stages = make([]StageStatistics, numStages)
	}
}

// Finish completes statistics tracking
func (rs *RunStatistics) Finish() {
	rs.totalRuntime = time.Since(rs.startTime)
	rs.finished = true
}

// StartStage tracks the beginning of an operation
func (rs *RunStatistics) StartStage() {
	rs.currentStageStartTime = time.Now()
}

// EndStage tracks the end of an operation
func (rs *RunStatistics) EndStage(sidx int, rowsIn int, rowsOut int) {
	rs.stages[sidx] = StageStatistics{
		Runtime: time.Since(rs.currentStageStartTime),
		RowsIn:  rowsIn,
		RowsOut: rowsOut,
	}
}

// GetStartTime returns the time at which the chain started running
func (rs *RunStatistics) GetStartTime() time.Time {
	return rs.startTime
}

// GetRuntime returns the running time of the chain
func (rs *RunStatistics) GetRuntime() time.Duration {
	if rs.finished {
		return rs.totalRuntime
	}
	return time.Since(rs.startTime)
}

// GetStageRuntimes returns the runtime of each operation, zero for operations which have not run
func (rs *RunStatistics) GetStageRuntimes() []time.Duration {
	res := make([]time.Duration, len(rs.stages))
	for i, s := range rs.stages {
		res[i] = s.Runtime
	}
	return res
}

// GetNumRowsProcessed returns the number of input Rows of each operation
func (rs *RunStatistics) GetNumRowsProcessed() []int {
	res := make([]int, len(rs.stages))
	for i, s := range rs.stages {
		res[i] = s.RowsIn
	}
	return res
}

// Stages returns the statistics of every operation, in order
func (rs *RunStatistics) Stages() []StageStatistics {
	return append([]StageStatistics{}, rs.stages...)
}

// LogValue summarizes these statistics for structured logging
func (rs *RunStatistics) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Duration("runtime", rs.GetRuntime()),
		slog.Int("stages", len(rs.stages)),
	}
	for i, s := range rs.stages {
		attrs = append(attrs, slog.Group(
			"stage"+strconv.Itoa(i),
			slog.Duration("runtime", s.Runtime),
			slog.Int("rows_in", s.RowsIn),
			slog.Int("rows_out", s.RowsOut),
		))
	}
	return slog.GroupValue(attrs...)
}

// Run applies ops to t in order, as t.To does, recording statistics about each
// operation. When an operation fails, the statistics of the operations which
// completed are returned alongside the error.
func Run(t tabula.Table, ops ...tabula.TableOperation) (tabula.Table, *RunStatistics, error) {
	rs := &RunStatistics{}
	rs.Start(len(ops))
	defer rs.Finish()
	next := t
	for sidx, op := range ops {
		rs.StartStage()
		result, err := next.To(op)
		if err != nil {
			return nil, rs, err
		}
		rs.EndStage(sidx, next.NumRows(), result.NumRows())
		next = result
	}
	return next, rs, nil
}

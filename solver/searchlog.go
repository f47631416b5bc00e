package solver

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/onlyoneleft/board"
	"github.com/domino14/onlyoneleft/stats"
)

const (
	LogKindMeeting = "meeting"
	LogKindSummary = "summary"
)

// LogEntry is one YAML document in a search log. Meeting entries are written
// as meeting points are stitched, in the order their solutions were added;
// one summary entry closes the log.
type LogEntry struct {
	Kind string `yaml:"kind"`

	Seq          int      `yaml:"seq,omitempty"`
	Meeting      string   `yaml:"meeting,omitempty"`
	BackwardPath []string `yaml:"backward_path,omitempty"`
	ForwardPaths int      `yaml:"forward_paths,omitempty"`
	Stitched     int      `yaml:"stitched,omitempty"`
	Total        int      `yaml:"total_solutions"`

	Initial          string         `yaml:"initial,omitempty"`
	Final            string         `yaml:"final,omitempty"`
	PathCount        int            `yaml:"path_count,omitempty"`
	MaxSolutions     int            `yaml:"max_solutions,omitempty"`
	Threads          int            `yaml:"threads,omitempty"`
	MiddleStates     int            `yaml:"middle_states,omitempty"`
	Meetings         int            `yaml:"meetings,omitempty"`
	ForwardNodes     []int          `yaml:"forward_nodes,omitempty"`
	BackwardNodes    []int          `yaml:"backward_nodes,omitempty"`
	ForwardBranching *stats.Summary `yaml:"forward_branching,omitempty"`
	ElapsedMs        int64          `yaml:"elapsed_ms,omitempty"`
	Fingerprint      string         `yaml:"fingerprint,omitempty"`
}

func (s *Solver) writeLog(entry LogEntry) {
	if s.logStream == nil {
		return
	}
	out, err := yaml.Marshal(entry)
	if err != nil {
		log.Err(err).Msg("error-marshaling-search-log")
		return
	}
	if _, err := s.logStream.Write(append([]byte("---\n"), out...)); err != nil {
		log.Err(err).Msg("error-writing-search-log")
	}
}

func (s *Solver) logMeeting(seq int, meeting board.Board, back []board.Board, forward, stitched int) {
	if s.logStream == nil {
		return
	}
	bp := make([]string, len(back))
	for i, b := range back {
		bp[i] = b.Notation()
	}
	s.writeLog(LogEntry{
		Kind:         LogKindMeeting,
		Seq:          seq,
		Meeting:      meeting.Notation(),
		BackwardPath: bp,
		ForwardPaths: forward,
		Stitched:     stitched,
		Total:        len(s.solutions),
	})
}

func (s *Solver) writeSummary(elapsed time.Duration) {
	if s.logStream == nil {
		return
	}
	fwd := s.fwdProfile.Sample().Summarize()
	s.writeLog(LogEntry{
		Kind:             LogKindSummary,
		Total:            len(s.solutions),
		Initial:          s.initial.Notation(),
		Final:            s.final.Notation(),
		PathCount:        s.pathCnt,
		MaxSolutions:     s.maxSolutions,
		Threads:          s.threads,
		MiddleStates:     len(s.middleStates),
		Meetings:         s.meetings,
		ForwardNodes:     s.fwdProfile.Nodes,
		BackwardNodes:    s.bwdProfile.Nodes,
		ForwardBranching: &fwd,
		ElapsedMs:        elapsed.Milliseconds(),
		Fingerprint:      fmt.Sprintf("%016x", Fingerprint(s.solutions)),
	})
}

// ReadLog parses a search log written by a solver.
func ReadLog(r io.Reader) ([]LogEntry, error) {
	dec := yaml.NewDecoder(r)
	var entries []LogEntry
	for {
		var e LogEntry
		err := dec.Decode(&e)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, errors.New("no log entries found")
	}
	return entries, nil
}

package query

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/chazu/merle/expr"
	"github.com/chazu/merle/state"
)

// handshakeCommand is the first command every session issues; the
// solver must acknowledge it with the literal "success".
const (
	handshakeCommand = "(set-option :print-success true)"
	handshakeWant    = "success"
)

// HandshakeError reports a failed session handshake: the protocol
// diagnostic names the command sent, the expected response, and what
// came back.
type HandshakeError struct {
	Command string
	Want    string
	Got     string
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("query: handshake failed: sent %q, expected %q, got %q",
		e.Command, e.Want, e.Got)
}

// Session is one interactive solving session over a channel. Rounds
// are synchronous request/response exchanges; the session survives
// across rounds together with its construction context.
type Session struct {
	ID  uuid.UUID
	st  *state.State
	ch  Channel
	cfg *Config
	log commonlog.Logger
}

// Open starts a session: it performs the fixed handshake, applies the
// solver-side time budget, and marks the context so that mutations
// outside the interactive allow-list fail from here on.
func Open(st *state.State, ch Channel, cfg *Config) (*Session, error) {
	s := &Session{
		ID:  uuid.New(),
		st:  st,
		ch:  ch,
		cfg: cfg,
		log: commonlog.GetLogger("merle.query"),
	}
	if err := s.checkCapabilities(); err != nil {
		return nil, err
	}
	got, err := ch.Ask(handshakeCommand)
	if err != nil {
		return nil, fmt.Errorf("query: handshake exchange: %w", err)
	}
	if got != handshakeWant {
		return nil, &HandshakeError{Command: handshakeCommand, Want: handshakeWant, Got: got}
	}
	if err := st.BeginSession(); err != nil {
		return nil, err
	}
	if cfg.Solver.TimeoutSeconds > 0 {
		budget := fmt.Sprintf("(set-option :timeout %d)", cfg.Solver.TimeoutSeconds*1000)
		got, err = ch.Ask(budget)
		if err != nil {
			return nil, fmt.Errorf("query: setting time budget: %w", err)
		}
		if got != handshakeWant {
			return nil, &HandshakeError{Command: budget, Want: handshakeWant, Got: got}
		}
	}
	s.log.Infof("session %s opened against %s", s.ID, cfg.Solver.Name)
	return s, nil
}

// checkCapabilities rejects constructions that need features the
// configured solver does not advertise.
func (s *Session) checkCapabilities() error {
	snap := s.st.Extract()
	if len(snap.Objectives) > 0 && !s.cfg.Capabilities.Optimization {
		return fmt.Errorf("query: solver %s does not support optimization objectives",
			s.cfg.Solver.Name)
	}
	if !s.cfg.Capabilities.UninterpretedSorts {
		for _, k := range snap.UsedKinds {
			if uk, ok := k.(expr.UserKind); ok {
				return fmt.Errorf("query: solver %s does not support uninterpreted sort %s",
					s.cfg.Solver.Name, uk.Sort)
			}
		}
	}
	return nil
}

// Delta drains the context's incremental sub-state for this round.
func (s *Session) Delta() *state.SubState {
	return s.st.TakeDelta()
}

// Round issues the given pre-rendered commands one at a time and
// classifies the solver's answers into the outcome taxonomy. Each
// command blocks for exactly one response.
func (s *Session) Round(commands []string) ([]Outcome, error) {
	var outcomes []Outcome
	for _, cmd := range commands {
		resp, err := s.ch.Ask(cmd)
		if err != nil {
			return outcomes, fmt.Errorf("query: round exchange: %w", err)
		}
		if o, ok := classify(resp, outcomes); ok {
			outcomes = o
		}
	}
	s.log.Debugf("session %s round: %d commands, %d outcomes",
		s.ID, len(commands), len(outcomes))
	return outcomes, nil
}

// classify folds one response into the round's outcome list. "success"
// acknowledgments carry no outcome. A parenthesized response directly
// after a sat answer is treated as its model text.
func classify(resp string, acc []Outcome) ([]Outcome, bool) {
	switch {
	case resp == "success":
		return acc, false
	case resp == "sat":
		return append(acc, Outcome{Kind: Satisfiable}), true
	case resp == "unsat":
		return append(acc, Outcome{Kind: Unsatisfiable}), true
	case resp == "unknown":
		return append(acc, Outcome{Kind: Unknown}), true
	case resp == "timeout":
		return append(acc, Outcome{Kind: TimeOut}), true
	case strings.HasPrefix(resp, "(error"):
		return append(acc, Outcome{Kind: ProofError, Message: resp}), true
	case strings.HasPrefix(resp, "("):
		if n := len(acc); n > 0 {
			switch acc[n-1].Kind {
			case Satisfiable:
				acc[n-1].Kind = SatisfiableExtended
				acc[n-1].Model = resp
				return acc, true
			case Unknown:
				acc[n-1].Model = resp
				return acc, true
			case Unsatisfiable:
				acc[n-1].Core = parseCore(resp)
				return acc, true
			}
		}
		return acc, false
	default:
		return append(acc, Outcome{Kind: ProofError, Message: resp}), true
	}
}

// parseCore splits an "(a b c)" unsat-core response into labels.
func parseCore(resp string) []string {
	trimmed := strings.Trim(resp, "()\n ")
	if trimmed == "" {
		return nil
	}
	return strings.Fields(trimmed)
}

// SplitBranches snapshots the context once per branch of a parallel
// case split. Branches never share a mutable context after the split
// point; aggregation of their outcomes is the caller's policy.
func (s *Session) SplitBranches(cs *state.CaseSplit) []*state.State {
	branches := make([]*state.State, len(cs.Branches))
	for i := range cs.Branches {
		branches[i] = s.st.Clone()
	}
	return branches
}

// Close ends the session and its channel.
func (s *Session) Close() error {
	s.log.Infof("session %s closed", s.ID)
	return s.ch.Close()
}

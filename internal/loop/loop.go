// Package loop implements the bounded research/critique revision cycle.
//
// A Controller composes two opaque collaborators - a Researcher that
// produces drafts and a Critic that judges them - with an artifact store.
// Each round overwrites the answer slot and appends to the research and
// feedback logs; the loop terminates when the critic approves or the
// revision bound is reached. Retry and backoff belong to the collaborators'
// own clients; the controller treats every call as a single blocking
// operation.
package loop

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vinayprograms/agentkit/logging"
	"github.com/vinayprograms/deepresearch/internal/artifact"
)

// State represents the controller's position in the revision cycle.
type State string

const (
	StateResearching    State = "researching"
	StateCritiquing     State = "critiquing"
	StateApproved       State = "approved"
	StateLimitExhausted State = "limit_exhausted"
	StateFailed         State = "failed"
)

// Terminal reports whether the state ends the session.
func (s State) Terminal() bool {
	return s == StateApproved || s == StateLimitExhausted || s == StateFailed
}

// Draft is one researcher output: the candidate answer plus the research
// fragments gathered while producing it.
type Draft struct {
	Answer        string
	Notes         []string
	OpenQuestions []string
}

// Verdict is the critic's structured judgement of a draft. Feedback carries
// the critic's raw commentary in both cases; it is logged regardless of
// the verdict.
type Verdict struct {
	Approved bool
	Feedback string
}

// Researcher produces and revises answer drafts.
type Researcher interface {
	Research(ctx context.Context, query string) (*Draft, error)
	Revise(ctx context.Context, query, answer, feedback string) (*Draft, error)
}

// Critic reviews the current answer.
type Critic interface {
	Review(ctx context.Context, query, answer string) (Verdict, error)
}

// Outcome is the result of a completed session.
type Outcome struct {
	SessionID string
	State     State
	Answer    string
	Rounds    int // research/critique pairs performed
}

// Controller drives the revision cycle. Collaborator calls are sequential;
// no round overlaps another.
type Controller struct {
	researcher   Researcher
	critic       Critic
	store        artifact.Store
	maxRevisions int
	logger       *logging.Logger

	// Callbacks for progress reporting. All optional.
	OnRoundStart  func(round int)
	OnDraft       func(round int, answer string)
	OnVerdict     func(round int, v Verdict)
	OnStateChange func(s State)
}

// NewController creates a controller. maxRevisions is the number of
// revision rounds allowed after the initial draft; zero means the first
// draft is also the last.
func NewController(researcher Researcher, critic Critic, store artifact.Store, maxRevisions int) *Controller {
	if maxRevisions < 0 {
		maxRevisions = 0
	}
	return &Controller{
		researcher:   researcher,
		critic:       critic,
		store:        store,
		maxRevisions: maxRevisions,
		logger:       logging.New().WithComponent("loop"),
	}
}

// Run executes one session for the given query and returns its outcome.
// The returned error is a *ValidationError, *CollaboratorError or
// *artifact.Error; in every error case no further writes happen after the
// failing step.
func (c *Controller) Run(ctx context.Context, query string) (*Outcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &ValidationError{Reason: "query is empty"}
	}

	sessionID := uuid.NewString()
	ctx, span := c.startSessionSpan(ctx, sessionID, query)
	c.logger.Info("session started", map[string]interface{}{
		"session":       sessionID,
		"max_revisions": c.maxRevisions,
	})

	outcome, err := c.run(ctx, sessionID, query)
	c.endSessionSpan(span, outcome, err)
	if err != nil {
		c.setState(StateFailed)
		return nil, err
	}

	c.logger.Info("session finished", map[string]interface{}{
		"session": sessionID,
		"state":   string(outcome.State),
		"rounds":  outcome.Rounds,
	})
	return outcome, nil
}

func (c *Controller) run(ctx context.Context, sessionID, query string) (*Outcome, error) {
	var (
		answer    string
		feedbacks []string
	)

	round := 0
	c.setState(StateResearching)

	draft, err := c.runResearch(ctx, round, func(ctx context.Context) (*Draft, error) {
		return c.researcher.Research(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	if err := c.persistDraft(draft); err != nil {
		return nil, err
	}
	answer = draft.Answer

	for {
		c.setState(StateCritiquing)
		verdict, err := c.runCritique(ctx, round, query, answer)
		if err != nil {
			return nil, err
		}
		if err := c.appendFeedback(verdict); err != nil {
			return nil, err
		}
		if c.OnVerdict != nil {
			c.OnVerdict(round, verdict)
		}

		// Approval wins over the bound when both hold on the same round.
		if verdict.Approved {
			c.setState(StateApproved)
			return &Outcome{SessionID: sessionID, State: StateApproved, Answer: answer, Rounds: round + 1}, nil
		}
		if round >= c.maxRevisions {
			c.setState(StateLimitExhausted)
			return &Outcome{SessionID: sessionID, State: StateLimitExhausted, Answer: answer, Rounds: round + 1}, nil
		}

		feedbacks = append(feedbacks, verdict.Feedback)
		round++
		c.setState(StateResearching)

		accumulated := strings.Join(feedbacks, "\n\n")
		draft, err = c.runResearch(ctx, round, func(ctx context.Context) (*Draft, error) {
			return c.researcher.Revise(ctx, query, answer, accumulated)
		})
		if err != nil {
			return nil, err
		}
		if err := c.persistDraft(draft); err != nil {
			return nil, err
		}
		answer = draft.Answer
	}
}

// runResearch invokes one researcher call with round bookkeeping.
func (c *Controller) runResearch(ctx context.Context, round int, call func(context.Context) (*Draft, error)) (*Draft, error) {
	if c.OnRoundStart != nil {
		c.OnRoundStart(round)
	}
	ctx, span := c.startRoundSpan(ctx, "research", round)
	start := time.Now()

	draft, err := call(ctx)
	c.endRoundSpan(span, err)
	if err != nil {
		c.logger.Error("researcher failed", map[string]interface{}{
			"round": round,
			"error": err.Error(),
		})
		return nil, &CollaboratorError{Collaborator: CollaboratorResearcher, Round: round, Err: err}
	}

	c.logger.Info("draft produced", map[string]interface{}{
		"round":       round,
		"notes":       len(draft.Notes),
		"questions":   len(draft.OpenQuestions),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if c.OnDraft != nil {
		c.OnDraft(round, draft.Answer)
	}
	return draft, nil
}

// runCritique invokes one critic call with round bookkeeping.
func (c *Controller) runCritique(ctx context.Context, round int, query, answer string) (Verdict, error) {
	ctx, span := c.startRoundSpan(ctx, "critique", round)
	verdict, err := c.critic.Review(ctx, query, answer)
	c.endRoundSpan(span, err)
	if err != nil {
		c.logger.Error("critic failed", map[string]interface{}{
			"round": round,
			"error": err.Error(),
		})
		return Verdict{}, &CollaboratorError{Collaborator: CollaboratorCritic, Round: round, Err: err}
	}
	return verdict, nil
}

// persistDraft writes a draft's side effects: research fragments append,
// answer slot overwrite. Notes land before the answer so a failed overwrite
// leaves the logs ahead of the slot, never behind it.
func (c *Controller) persistDraft(draft *Draft) error {
	for _, note := range draft.Notes {
		if err := c.store.Append(artifact.LogNotes, note); err != nil {
			return err
		}
	}
	for _, q := range draft.OpenQuestions {
		if err := c.store.Append(artifact.LogOpenQuestions, q); err != nil {
			return err
		}
	}
	return c.store.Overwrite(artifact.SlotFinalAnswer, draft.Answer)
}

// appendFeedback records the critic's raw commentary, approval included.
func (c *Controller) appendFeedback(v Verdict) error {
	feedback := strings.TrimSpace(v.Feedback)
	if feedback == "" {
		feedback = "(approved without comment)"
	}
	return c.store.Append(artifact.LogCriticFeedback, feedback)
}

func (c *Controller) setState(s State) {
	if c.OnStateChange != nil {
		c.OnStateChange(s)
	}
}

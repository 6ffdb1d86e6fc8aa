package voting

import (
	"context"

	"votehub.xyz/votecollector-service/pkg/db"
	"votehub.xyz/votecollector-service/pkg/device"
	"votehub.xyz/votecollector-service/pkg/models"
	"votehub.xyz/votecollector-service/pkg/projector"
)

// SessionStatus is the operator-facing view of the session record, with the
// device's elapsed/progress numbers merged in while a voting is open.
type SessionStatus struct {
	InVote        bool
	Mode          models.VotingMode
	Target        uint
	Elapsed       int
	VotersCount   int
	VotesReceived int
}

// VoteEvent is one inbound per-keypad callback from the collector.
// TargetPollID 0 means the payload did not name a poll; a non-zero value
// must match the session's bound target or the vote is rejected.
type VoteEvent struct {
	KeypadID     int
	TargetPollID uint
	Value        string
	SerialNumber string
	Battery      int
	Elapsed      int
	VotesSoFar   int
}

// CandidateCount is one election tally line.
type CandidateCount struct {
	CandidateID uint   `json:"candidate_id"`
	Name        string `json:"name"`
	Votes       int    `json:"votes"`
}

// Tally is the mode-shaped result of a poll.
type Tally struct {
	Mode       models.VotingMode `json:"mode"`
	Yes        int               `json:"yes"`
	No         int               `json:"no"`
	Abstain    int               `json:"abstain"`
	Invalid    int               `json:"invalid"`
	Voted      int               `json:"voted"`
	NotVoted   int               `json:"not_voted"`
	Candidates []CandidateCount  `json:"candidates,omitempty"`
}

type ISession interface {
	Start(ctx context.Context, mode models.VotingMode, target uint) (int, error)
	Stop(ctx context.Context) error
	Status(ctx context.Context) (SessionStatus, error)
}

type IReconcile interface {
	IngestVote(ctx context.Context, event VoteEvent) error
	IngestBatch(ctx context.Context, events []VoteEvent) int
	IngestPresence(ctx context.Context, keypadID int, battery int) error
}

type ISpeaker interface {
	IngestSpeaker(ctx context.Context, itemID uint, keypadID int, value string) (string, error)
}

type IResult interface {
	PollResult(ctx context.Context, pollID uint) (*Tally, error)
	Anonymize(ctx context.Context, pollID uint) (int64, error)
	ClearVotes(ctx context.Context, pollID uint) error
}

// Config is the operator-set policy read from the environment at startup.
type Config struct {
	Method      models.DistributionMethod
	CallbackURL string
	VotePrompt  string
}

// Voting is the core aggregate: the shared session record plus the device
// client, sinks and the four service facets.
type Voting struct {
	Db       db.DB
	Device   device.Client
	Overlay  projector.Sink
	Notifier projector.Notifier
	Config   Config

	Session   ISession
	Reconcile IReconcile
	Speaker   ISpeaker
	Result    IResult
}

type ServiceOpts struct {
	Session   ISession
	Reconcile IReconcile
	Speaker   ISpeaker
	Result    IResult
}

func (v *Voting) WithServices(opts ServiceOpts) *Voting {
	if opts.Session != nil {
		v.Session = opts.Session
	}
	if opts.Reconcile != nil {
		v.Reconcile = opts.Reconcile
	}
	if opts.Speaker != nil {
		v.Speaker = opts.Speaker
	}
	if opts.Result != nil {
		v.Result = opts.Result
	}
	return v
}

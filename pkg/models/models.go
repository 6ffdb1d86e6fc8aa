package models

// VotingMode is the kind of voting session the collector device runs.
type VotingMode string

const (
	ModeNone         VotingMode = "none"
	ModeYesNoAbstain VotingMode = "YesNoAbstain"
	ModeElection     VotingMode = "Election"
	ModeSpeakerList  VotingMode = "SpeakerList"
	ModePing         VotingMode = "Ping"
)

// Vote values as reported by the keypads for YesNoAbstain and SpeakerList.
const (
	VoteYes     = "Y"
	VoteNo      = "N"
	VoteAbstain = "A"
)

// DistributionMethod restricts which keypads take part in a voting.
type DistributionMethod string

const (
	DistributionAnonymous    DistributionMethod = "anonym"
	DistributionPersonalized DistributionMethod = "person"
	DistributionBoth         DistributionMethod = "both"
)

// Collector is the single system-wide voting session record. Exactly one
// row exists (CollectorID); session transitions go through conditional
// updates on IsVoting so concurrent starts cannot both claim it.
type Collector struct {
	ID            uint `gorm:"primaryKey"`
	DeviceStatus  string
	VotingMode    VotingMode `gorm:"type:varchar(20)"`
	VotingTarget  uint
	LastTarget    uint
	VotersCount   int
	VotesReceived int
	IsVoting      bool
}

// CollectorID is the primary key of the singleton Collector row.
const CollectorID uint = 1

type Seat struct {
	ID     uint `gorm:"primaryKey"`
	Number string
	XAxis  int `gorm:"uniqueIndex:idx_seat_position"`
	YAxis  int `gorm:"uniqueIndex:idx_seat_position"`
}

type Participant struct {
	ID       uint `gorm:"primaryKey"`
	Name     string
	IsActive bool
}

// Keypad is one physical voting unit. ParticipantID is nil for anonymous
// keypads. Battery -1 means unknown.
type Keypad struct {
	ID            uint `gorm:"primaryKey"`
	KeypadID      int  `gorm:"uniqueIndex"`
	ParticipantID *uint
	SeatID        *uint
	Battery       int `gorm:"default:-1"`
	InRange       bool

	Participant *Participant `gorm:"foreignKey:ParticipantID"`
	Seat        *Seat        `gorm:"foreignKey:SeatID"`
}

type Poll struct {
	ID         uint `gorm:"primaryKey"`
	Title      string
	IsElection bool

	// Aggregate counters; nil means "unset" (e.g. after clearing votes).
	VotesCast    *int
	VotesValid   *int
	VotesInvalid *int

	Candidates []Candidate `gorm:"foreignKey:PollID"`
}

// Candidate is one ballot option of an election poll. Weight is the stable
// ballot position keypad digits are resolved against.
type Candidate struct {
	ID     uint `gorm:"primaryKey"`
	PollID uint `gorm:"index"`
	Name   string
	Weight int
}

// VoteRecord connects a poll with the vote a keypad submitted. At most one
// row exists per (poll, keypad); repeat callbacks overwrite it in place.
// KeypadID is nulled (not deleted) by anonymization.
type VoteRecord struct {
	ID           uint `gorm:"primaryKey"`
	PollID       uint `gorm:"uniqueIndex:idx_poll_keypad"`
	KeypadID     *int `gorm:"uniqueIndex:idx_poll_keypad"`
	Value        string
	SerialNumber string
}

// SpeakerEntry is one participant queued to speak on an agenda item.
type SpeakerEntry struct {
	ID            uint `gorm:"primaryKey"`
	ItemID        uint `gorm:"uniqueIndex:idx_item_participant"`
	ParticipantID uint `gorm:"uniqueIndex:idx_item_participant"`
}

package voting

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"votehub.xyz/votecollector-service/pkg/common"
	"votehub.xyz/votecollector-service/pkg/models"
)

func resultLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameVotingCore,
		zap.String(common.LoggerFieldVotingCategory, common.LoggerCategoryResult),
	)
}

// pollResult computes the tally for a poll from the stored per-keypad
// records. Recomputing from the records keeps the result auditable; the
// device's own running tally is only consulted as a cross-check while the
// voting is still open.
func (v *Voting) pollResult(ctx context.Context, pollID uint) (*Tally, error) {
	var collector models.Collector
	if err := v.Db.Conn.First(&collector, models.CollectorID).Error; err != nil {
		return nil, err
	}

	if pollID != collector.VotingTarget && pollID != collector.LastTarget {
		return nil, ErrStaleResult
	}

	var poll models.Poll
	if err := v.Db.Conn.First(&poll, pollID).Error; err != nil {
		return nil, ErrUnknownPoll
	}

	var records []models.VoteRecord
	if err := v.Db.Conn.Where("poll_id = ?", pollID).Find(&records).Error; err != nil {
		return nil, err
	}

	if poll.IsElection {
		return v.electionTally(pollID, records)
	}
	return v.yesNoAbstainTally(ctx, collector, pollID, records)
}

func (v *Voting) yesNoAbstainTally(ctx context.Context, collector models.Collector, pollID uint, records []models.VoteRecord) (*Tally, error) {
	tally := &Tally{Mode: models.ModeYesNoAbstain, Voted: len(records)}

	for _, record := range records {
		switch record.Value {
		case models.VoteYes:
			tally.Yes++
		case models.VoteNo:
			tally.No++
		case models.VoteAbstain:
			tally.Abstain++
		default:
			tally.Invalid++
		}
	}
	tally.NotVoted = collector.VotersCount - tally.Voted
	if tally.NotVoted < 0 {
		tally.NotVoted = 0
	}

	// While the voting is open the device keeps its own tally; divergence
	// points at lost or extra callbacks and is worth flagging, not failing.
	if collector.IsVoting && collector.VotingTarget == pollID {
		deviceTally, err := v.Device.VotingResult(ctx)
		if err != nil {
			resultLogger().Warn("Device tally unavailable for cross-check", zap.Error(err))
		} else if deviceTally.Yes != tally.Yes || deviceTally.No != tally.No || deviceTally.Abstain != tally.Abstain {
			resultLogger().Warn("Recomputed tally diverges from device tally",
				zap.Uint("poll_id", pollID),
				zap.Reflect("recomputed", tally),
				zap.Reflect("device", deviceTally))
		}
	}

	return tally, nil
}

func (v *Voting) electionTally(pollID uint, records []models.VoteRecord) (*Tally, error) {
	var candidates []models.Candidate
	if err := v.Db.Conn.
		Where("poll_id = ?", pollID).
		Order("weight, id").
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]int, len(candidates))
	tally := &Tally{Mode: models.ModeElection, Voted: len(records)}

	for _, record := range records {
		if record.Value == models.VoteAbstain {
			tally.Abstain++
			continue
		}
		candidateID, err := strconv.ParseUint(record.Value, 10, 64)
		if err != nil {
			tally.Invalid++
			continue
		}
		counts[uint(candidateID)]++
	}

	for _, candidate := range candidates {
		tally.Candidates = append(tally.Candidates, CandidateCount{
			CandidateID: candidate.ID,
			Name:        candidate.Name,
			Votes:       counts[candidate.ID],
		})
		delete(counts, candidate.ID)
	}

	// Votes for candidates that no longer exist count as invalid.
	for _, orphaned := range counts {
		tally.Invalid += orphaned
	}

	return tally, nil
}

// anonymize severs the keypad-to-voter link on all of the poll's vote
// records; values and serial numbers stay for the audit trail. Returns the
// number of affected records.
func (v *Voting) anonymize(ctx context.Context, pollID uint) (int64, error) {
	result := v.Db.Conn.Model(&models.VoteRecord{}).
		Where("poll_id = ?", pollID).
		Update("keypad_id", nil)
	if result.Error != nil {
		return 0, result.Error
	}

	resultLogger().Info("Poll votes anonymized",
		zap.Uint("poll_id", pollID),
		zap.Int64("records", result.RowsAffected))

	v.Notifier.Notify("poll/" + strconv.FormatUint(uint64(pollID), 10))
	return result.RowsAffected, nil
}

// clearVotes removes all vote records of a poll and resets the poll's
// aggregate counters to unset; used before re-running a vote.
func (v *Voting) clearVotes(ctx context.Context, pollID uint) error {
	if err := v.Db.Conn.Where("poll_id = ?", pollID).Delete(&models.VoteRecord{}).Error; err != nil {
		return err
	}
	if err := v.resetPollCounters(pollID); err != nil {
		return err
	}

	resultLogger().Info("Poll votes cleared", zap.Uint("poll_id", pollID))

	v.Notifier.Notify("poll/" + strconv.FormatUint(uint64(pollID), 10))
	return nil
}

type IResultImpl struct {
	voting *Voting
}

func (ir *IResultImpl) PollResult(ctx context.Context, pollID uint) (*Tally, error) {
	return ir.voting.pollResult(ctx, pollID)
}

func (ir *IResultImpl) Anonymize(ctx context.Context, pollID uint) (int64, error) {
	return ir.voting.anonymize(ctx, pollID)
}

func (ir *IResultImpl) ClearVotes(ctx context.Context, pollID uint) error {
	return ir.voting.clearVotes(ctx, pollID)
}

func (v *Voting) GetIResult() IResult {
	return &IResultImpl{voting: v}
}

package voting

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"votehub.xyz/votecollector-service/pkg/common"
	"votehub.xyz/votecollector-service/pkg/models"
	"votehub.xyz/votecollector-service/pkg/projector"
)

func sessionLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameVotingCore,
		zap.String(common.LoggerFieldVotingCategory, common.LoggerCategorySession),
	)
}

// eligibleKeypadIDs filters all keypads down to the set allowed to vote:
// keypads of inactive participants are excluded, then the distribution
// method narrows to anonymous-only or personalized-only. Ping rounds address
// every keypad since they only collect presence telemetry.
func (v *Voting) eligibleKeypadIDs(mode models.VotingMode) ([]int, error) {
	query := v.Db.Conn.Model(&models.Keypad{}).
		Joins("LEFT JOIN participants ON participants.id = keypads.participant_id")

	if mode != models.ModePing {
		query = query.Where("keypads.participant_id IS NULL OR participants.is_active = ?", true)

		switch v.Config.Method {
		case models.DistributionAnonymous:
			query = query.Where("keypads.participant_id IS NULL")
		case models.DistributionPersonalized:
			query = query.Where("keypads.participant_id IS NOT NULL")
		}
	}

	var ids []int
	err := query.Order("keypads.keypad_id").Pluck("keypads.keypad_id", &ids).Error
	return ids, err
}

func (v *Voting) setCollectorIdle() error {
	return v.Db.Conn.Model(&models.Collector{}).
		Where("id = ?", models.CollectorID).
		Updates(map[string]any{
			"is_voting":     false,
			"voting_mode":   models.ModeNone,
			"voting_target": 0,
		}).Error
}

func (v *Voting) startVoting(ctx context.Context, mode models.VotingMode, target uint) (int, error) {
	logger := sessionLogger()

	var collector models.Collector
	if err := v.Db.Conn.First(&collector, models.CollectorID).Error; err != nil {
		return 0, err
	}

	if collector.IsVoting {
		if collector.VotingTarget == target && collector.VotingMode == mode {
			// Duplicate start for the running target: report the voter
			// count again instead of erroring so UI double clicks are
			// harmless.
			logger.Info("Start repeated for active target",
				zap.Uint("target", target), zap.String("mode", string(mode)))
			return collector.VotersCount, nil
		}
		return 0, ErrAnotherVotingActive
	}

	var poll models.Poll
	if mode == models.ModeYesNoAbstain || mode == models.ModeElection {
		if err := v.Db.Conn.First(&poll, target).Error; err != nil {
			return 0, ErrUnknownPoll
		}
	}

	keypadIDs, err := v.eligibleKeypadIDs(mode)
	if err != nil {
		return 0, err
	}
	if len(keypadIDs) == 0 {
		// Checked before the device is contacted.
		return 0, ErrNoKeypadsSelected
	}

	// Claim the session record. The conditional update is the
	// compare-and-set that keeps two racing starts from both succeeding.
	claim := v.Db.Conn.Model(&models.Collector{}).
		Where("id = ? AND is_voting = ?", models.CollectorID, false).
		Updates(map[string]any{
			"is_voting":      true,
			"voting_mode":    mode,
			"voting_target":  target,
			"last_target":    target,
			"voters_count":   0,
			"votes_received": 0,
		})
	if claim.Error != nil {
		return 0, claim.Error
	}
	if claim.RowsAffected == 0 {
		return 0, ErrAnotherVotingActive
	}

	release := func() {
		if err := v.setCollectorIdle(); err != nil {
			logger.Error("Failed to release session record", zap.Error(err))
		}
	}

	if _, err := v.Device.PrepareVoting(ctx, string(mode), v.Config.CallbackURL, keypadIDs); err != nil {
		release()
		return 0, err
	}

	count, err := v.Device.StartVoting(ctx)
	if err != nil {
		release()
		return 0, err
	}

	if err := v.Db.Conn.Model(&models.Collector{}).
		Where("id = ?", models.CollectorID).
		Update("voters_count", count).Error; err != nil {
		release()
		return 0, err
	}

	logger.Info("Voting started",
		zap.String("mode", string(mode)),
		zap.Uint("target", target),
		zap.Int("voters", count))

	switch mode {
	case models.ModeYesNoAbstain, models.ModeElection:
		// Re-running a vote: prior per-keypad rows and the aggregate
		// counters belong to the previous round.
		if err := v.Db.Conn.Where("poll_id = ?", target).Delete(&models.VoteRecord{}).Error; err != nil {
			logger.Error("Failed to clear previous vote records", zap.Error(err))
		}
		if err := v.resetPollCounters(target); err != nil {
			logger.Error("Failed to reset poll counters", zap.Error(err))
		}
		v.Overlay.Show(projector.MessageKeyVoting, v.Config.VotePrompt)
	case models.ModeSpeakerList:
		v.Overlay.Show(projector.MessageKeyVoting, v.Config.VotePrompt)
	case models.ModePing:
		if err := v.Db.Conn.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Model(&models.Keypad{}).
			Updates(map[string]any{"in_range": false, "battery": -1}).Error; err != nil {
			logger.Error("Failed to reset keypad telemetry", zap.Error(err))
		}
	}

	return count, nil
}

// stopVoting resets the session record even when the device call fails: a
// stale hardware flag is recoverable, a stuck local session is not.
func (v *Voting) stopVoting(ctx context.Context) error {
	logger := sessionLogger()

	var collector models.Collector
	if err := v.Db.Conn.First(&collector, models.CollectorID).Error; err != nil {
		return err
	}
	if !collector.IsVoting {
		return nil
	}

	devErr := v.Device.StopVoting(ctx)
	if devErr != nil {
		logger.Warn("Device stop failed, forcing local state to idle", zap.Error(devErr))
	}

	if err := v.setCollectorIdle(); err != nil {
		return err
	}

	v.Overlay.Clear(projector.MessageKeyVoting)

	logger.Info("Voting stopped",
		zap.Uint("target", collector.VotingTarget),
		zap.Int("votes_received", collector.VotesReceived))

	return devErr
}

func (v *Voting) sessionStatus(ctx context.Context) (SessionStatus, error) {
	var collector models.Collector
	if err := v.Db.Conn.First(&collector, models.CollectorID).Error; err != nil {
		return SessionStatus{}, err
	}

	status := SessionStatus{
		InVote:        collector.IsVoting,
		Mode:          collector.VotingMode,
		Target:        collector.VotingTarget,
		VotersCount:   collector.VotersCount,
		VotesReceived: collector.VotesReceived,
	}

	if !collector.IsVoting {
		return status, nil
	}

	elapsed, votes, err := v.Device.VotingStatus(ctx)
	if err != nil {
		return status, err
	}

	status.Elapsed = elapsed
	status.VotesReceived = votes

	// Device count is the liveness indicator; keep the record in step.
	if votes != collector.VotesReceived {
		if err := v.Db.Conn.Model(&models.Collector{}).
			Where("id = ?", models.CollectorID).
			Update("votes_received", votes).Error; err != nil {
			return status, err
		}
	}

	return status, nil
}

func (v *Voting) resetPollCounters(pollID uint) error {
	return v.Db.Conn.Model(&models.Poll{}).
		Where("id = ?", pollID).
		Updates(map[string]any{
			"votes_cast":    nil,
			"votes_valid":   nil,
			"votes_invalid": nil,
		}).Error
}

type ISessionImpl struct {
	voting *Voting
}

func (is *ISessionImpl) Start(ctx context.Context, mode models.VotingMode, target uint) (int, error) {
	return is.voting.startVoting(ctx, mode, target)
}

func (is *ISessionImpl) Stop(ctx context.Context) error {
	return is.voting.stopVoting(ctx)
}

func (is *ISessionImpl) Status(ctx context.Context) (SessionStatus, error) {
	return is.voting.sessionStatus(ctx)
}

func (v *Voting) GetISession() ISession {
	return &ISessionImpl{voting: v}
}

// IsSessionConflict reports whether err is one of the local preconditions
// that abort a start without having touched the device.
func IsSessionConflict(err error) bool {
	return errors.Is(err, ErrAnotherVotingActive) || errors.Is(err, ErrNoKeypadsSelected)
}

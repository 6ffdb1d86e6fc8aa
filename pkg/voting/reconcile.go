package voting

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"votehub.xyz/votecollector-service/pkg/common"
	"votehub.xyz/votecollector-service/pkg/models"
)

func reconcileLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameVotingCore,
		zap.String(common.LoggerFieldVotingCategory, common.LoggerCategoryReconcile),
	)
}

// updateTelemetry records presence and battery for a keypad. This happens
// before any vote validation: presence data is useful on its own, so it
// must stick even when the vote portion of a callback is rejected.
func (v *Voting) updateTelemetry(keypadID int, battery int) error {
	fields := map[string]any{"in_range": true}
	if battery >= 0 {
		fields["battery"] = battery
	}
	return v.Db.Conn.Model(&models.Keypad{}).
		Where("keypad_id = ?", keypadID).
		Updates(fields).Error
}

func (v *Voting) lookupKeypad(keypadID int) (*models.Keypad, error) {
	var keypad models.Keypad
	if err := v.Db.Conn.First(&keypad, "keypad_id = ?", keypadID).Error; err != nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKeypad, keypadID)
	}
	return &keypad, nil
}

// resolveVoteValue applies the mode-specific validation rules. For election
// rounds the keypad digit is resolved to the Nth candidate by ballot weight;
// 0 is the abstain marker.
func (v *Voting) resolveVoteValue(mode models.VotingMode, pollID uint, raw string) (string, error) {
	switch mode {
	case models.ModeYesNoAbstain:
		if raw != models.VoteYes && raw != models.VoteNo && raw != models.VoteAbstain {
			return "", fmt.Errorf("%w: %q", ErrInvalidValue, raw)
		}
		return raw, nil

	case models.ModeElection:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return "", fmt.Errorf("%w: %q", ErrInvalidValue, raw)
		}
		if n == 0 {
			return models.VoteAbstain, nil
		}

		var candidates []models.Candidate
		if err := v.Db.Conn.
			Where("poll_id = ?", pollID).
			Order("weight, id").
			Find(&candidates).Error; err != nil {
			return "", err
		}
		if n > len(candidates) {
			return "", fmt.Errorf("%w: %q exceeds candidate count %d", ErrInvalidValue, raw, len(candidates))
		}
		return strconv.FormatUint(uint64(candidates[n-1].ID), 10), nil

	default:
		return "", fmt.Errorf("%w: mode %q takes no poll votes", ErrNoActiveSession, mode)
	}
}

func (v *Voting) ingestVote(ctx context.Context, event VoteEvent) error {
	logger := reconcileLogger()

	if _, err := v.lookupKeypad(event.KeypadID); err != nil {
		return err
	}

	if err := v.updateTelemetry(event.KeypadID, event.Battery); err != nil {
		return err
	}

	var collector models.Collector
	if err := v.Db.Conn.First(&collector, models.CollectorID).Error; err != nil {
		return err
	}
	if !collector.IsVoting ||
		(collector.VotingMode != models.ModeYesNoAbstain && collector.VotingMode != models.ModeElection) {
		return ErrNoActiveSession
	}
	if event.TargetPollID != 0 && event.TargetPollID != collector.VotingTarget {
		return fmt.Errorf("%w: callback for poll %d while poll %d is bound",
			ErrNoActiveSession, event.TargetPollID, collector.VotingTarget)
	}

	pollID := collector.VotingTarget

	value, err := v.resolveVoteValue(collector.VotingMode, pollID, event.Value)
	if err != nil {
		return err
	}

	keypadID := event.KeypadID
	record := models.VoteRecord{
		PollID:       pollID,
		KeypadID:     &keypadID,
		Value:        value,
		SerialNumber: event.SerialNumber,
	}

	// Insert-or-replace on (poll, keypad): a repeat callback is a
	// correction, never a second row.
	if err := v.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "poll_id"}, {Name: "keypad_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "serial_number"}),
	}).Create(&record).Error; err != nil {
		return err
	}

	counterUpdate := v.Db.Conn.Model(&models.Collector{}).Where("id = ?", models.CollectorID)
	if event.VotesSoFar > 0 {
		err = counterUpdate.Update("votes_received", event.VotesSoFar).Error
	} else {
		err = counterUpdate.Update("votes_received", gorm.Expr("votes_received + 1")).Error
	}
	if err != nil {
		return err
	}

	logger.Info("Vote recorded",
		zap.Int("keypad_id", event.KeypadID),
		zap.Uint("poll_id", pollID),
		zap.String("value", value))

	v.Notifier.Notify(
		fmt.Sprintf("poll/%d", pollID),
		fmt.Sprintf("keypad/%d", event.KeypadID),
	)

	return nil
}

// ingestBatch applies the single-event path per item. Rejections are logged
// and skipped; duplicate keypads within one batch collapse through the
// upsert, last one wins. Returns the number of accepted votes.
func (v *Voting) ingestBatch(ctx context.Context, events []VoteEvent) int {
	logger := reconcileLogger()

	accepted := 0
	for _, event := range events {
		if err := v.ingestVote(ctx, event); err != nil {
			logger.Info("Vote rejected",
				zap.Int("keypad_id", event.KeypadID),
				zap.String("value", event.Value),
				zap.Error(err))
			continue
		}
		accepted++
	}
	return accepted
}

// ingestPresence is the telemetry-only path for ping callbacks; it works
// with or without an active session.
func (v *Voting) ingestPresence(ctx context.Context, keypadID int, battery int) error {
	if _, err := v.lookupKeypad(keypadID); err != nil {
		return err
	}
	if err := v.updateTelemetry(keypadID, battery); err != nil {
		return err
	}

	reconcileLogger().Info("Keypad presence recorded",
		zap.Int("keypad_id", keypadID),
		zap.Int("battery", battery))

	v.Notifier.Notify(fmt.Sprintf("keypad/%d", keypadID))
	return nil
}

type IReconcileImpl struct {
	voting *Voting
}

func (ir *IReconcileImpl) IngestVote(ctx context.Context, event VoteEvent) error {
	return ir.voting.ingestVote(ctx, event)
}

func (ir *IReconcileImpl) IngestBatch(ctx context.Context, events []VoteEvent) int {
	return ir.voting.ingestBatch(ctx, events)
}

func (ir *IReconcileImpl) IngestPresence(ctx context.Context, keypadID int, battery int) error {
	return ir.voting.ingestPresence(ctx, keypadID, battery)
}

func (v *Voting) GetIReconcile() IReconcile {
	return &IReconcileImpl{voting: v}
}

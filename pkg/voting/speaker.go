package voting

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"votehub.xyz/votecollector-service/pkg/common"
	"votehub.xyz/votecollector-service/pkg/models"
)

// Replies sent back to the collector for speaker sign-ups. The hardware
// shows these on the keypad display, so they stay short.
const (
	speakerReplyAdded     = "Added to list of speakers"
	speakerReplyRemoved   = "Removed from list of speakers"
	speakerReplyOnList    = "Already on list of speakers"
	speakerReplyNotOnList = "Not on list of speakers"
)

// ingestSpeaker handles the SpeakerList mode: Y signs the keypad's owner up
// for the agenda item, N withdraws. Anonymous keypads are rejected because
// a speaker must be attributable to a participant. Telemetry is applied
// before any of that, like every other callback.
func (v *Voting) ingestSpeaker(ctx context.Context, itemID uint, keypadID int, value string) (string, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameVotingCore,
		zap.String(common.LoggerFieldVotingCategory, common.LoggerCategorySpeaker),
	)

	keypad, err := v.lookupKeypad(keypadID)
	if err != nil {
		return "", err
	}

	if err := v.updateTelemetry(keypadID, -1); err != nil {
		return "", err
	}

	var collector models.Collector
	if err := v.Db.Conn.First(&collector, models.CollectorID).Error; err != nil {
		return "", err
	}
	if !collector.IsVoting || collector.VotingMode != models.ModeSpeakerList || collector.VotingTarget != itemID {
		return "", ErrNoActiveSession
	}

	if keypad.ParticipantID == nil {
		return "", ErrAnonymousNotAllowed
	}

	switch value {
	case models.VoteYes:
		entry := models.SpeakerEntry{ItemID: itemID, ParticipantID: *keypad.ParticipantID}
		result := v.Db.Conn.
			Where(models.SpeakerEntry{ItemID: itemID, ParticipantID: *keypad.ParticipantID}).
			FirstOrCreate(&entry)
		if result.Error != nil {
			return "", result.Error
		}
		if result.RowsAffected == 0 {
			return speakerReplyOnList, nil
		}

		logger.Info("Speaker added",
			zap.Uint("item_id", itemID),
			zap.Uint("participant_id", *keypad.ParticipantID))
		v.Notifier.Notify(fmt.Sprintf("item/%d", itemID))
		return speakerReplyAdded, nil

	case models.VoteNo:
		result := v.Db.Conn.
			Where("item_id = ? AND participant_id = ?", itemID, *keypad.ParticipantID).
			Delete(&models.SpeakerEntry{})
		if result.Error != nil {
			return "", result.Error
		}
		if result.RowsAffected == 0 {
			return speakerReplyNotOnList, nil
		}

		logger.Info("Speaker removed",
			zap.Uint("item_id", itemID),
			zap.Uint("participant_id", *keypad.ParticipantID))
		v.Notifier.Notify(fmt.Sprintf("item/%d", itemID))
		return speakerReplyRemoved, nil

	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidValue, value)
	}
}

type ISpeakerImpl struct {
	voting *Voting
}

func (is *ISpeakerImpl) IngestSpeaker(ctx context.Context, itemID uint, keypadID int, value string) (string, error) {
	return is.voting.ingestSpeaker(ctx, itemID, keypadID, value)
}

func (v *Voting) GetISpeaker() ISpeaker {
	return &ISpeakerImpl{voting: v}
}

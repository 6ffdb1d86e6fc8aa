package voting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votehub.xyz/votecollector-service/pkg/common"
	"votehub.xyz/votecollector-service/pkg/models"
	_ "votehub.xyz/votecollector-service/pkg/testing"
)

func TestIngestSpeaker_AddAndRemove(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, votingObj, _, _ := GetMockVotingWithMemorySqliteDialector(t)
	defer ctrl.Finish()
	resetCollector(t, votingObj)

	participant := createParticipant(t, votingObj, true)
	keypad := createKeypad(t, votingObj, &participant.ID)

	const itemID uint = 7701
	startSession(t, votingObj, models.ModeSpeakerList, itemID, 1)

	reply, err := votingObj.Speaker.IngestSpeaker(context.Background(), itemID, keypad.KeypadID, models.VoteYes)
	require.NoError(t, err)
	assert.Equal(t, "Added to list of speakers", reply)

	// Signing up twice keeps a single queue entry.
	reply, err = votingObj.Speaker.IngestSpeaker(context.Background(), itemID, keypad.KeypadID, models.VoteYes)
	require.NoError(t, err)
	assert.Equal(t, "Already on list of speakers", reply)

	var entryCount int64
	require.NoError(t, votingObj.Db.Conn.Model(&models.SpeakerEntry{}).
		Where("item_id = ?", itemID).Count(&entryCount).Error)
	assert.EqualValues(t, 1, entryCount)

	reply, err = votingObj.Speaker.IngestSpeaker(context.Background(), itemID, keypad.KeypadID, models.VoteNo)
	require.NoError(t, err)
	assert.Equal(t, "Removed from list of speakers", reply)

	reply, err = votingObj.Speaker.IngestSpeaker(context.Background(), itemID, keypad.KeypadID, models.VoteNo)
	require.NoError(t, err)
	assert.Equal(t, "Not on list of speakers", reply)
}

func TestIngestSpeaker_AnonymousRejected(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, votingObj, _, _ := GetMockVotingWithMemorySqliteDialector(t)
	defer ctrl.Finish()
	resetCollector(t, votingObj)

	keypad := createKeypad(t, votingObj, nil)

	const itemID uint = 7702
	startSession(t, votingObj, models.ModeSpeakerList, itemID, 1)

	_, err := votingObj.Speaker.IngestSpeaker(context.Background(), itemID, keypad.KeypadID, models.VoteYes)
	assert.ErrorIs(t, err, ErrAnonymousNotAllowed)

	// Queue untouched, telemetry still applied.
	var entryCount int64
	require.NoError(t, votingObj.Db.Conn.Model(&models.SpeakerEntry{}).
		Where("item_id = ?", itemID).Count(&entryCount).Error)
	assert.Zero(t, entryCount)

	var refreshed models.Keypad
	require.NoError(t, votingObj.Db.Conn.First(&refreshed, keypad.ID).Error)
	assert.True(t, refreshed.InRange)
}

func TestIngestSpeaker_WrongSessionRejected(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, votingObj, _, _ := GetMockVotingWithMemorySqliteDialector(t)
	defer ctrl.Finish()
	resetCollector(t, votingObj)

	participant := createParticipant(t, votingObj, true)
	keypad := createKeypad(t, votingObj, &participant.ID)

	// Idle.
	_, err := votingObj.Speaker.IngestSpeaker(context.Background(), 7703, keypad.KeypadID, models.VoteYes)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	// Active, but for a different item.
	startSession(t, votingObj, models.ModeSpeakerList, 7704, 1)
	_, err = votingObj.Speaker.IngestSpeaker(context.Background(), 7703, keypad.KeypadID, models.VoteYes)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestIngestSpeaker_InvalidValue(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, votingObj, _, _ := GetMockVotingWithMemorySqliteDialector(t)
	defer ctrl.Finish()
	resetCollector(t, votingObj)

	participant := createParticipant(t, votingObj, true)
	keypad := createKeypad(t, votingObj, &participant.ID)

	const itemID uint = 7705
	startSession(t, votingObj, models.ModeSpeakerList, itemID, 1)

	_, err := votingObj.Speaker.IngestSpeaker(context.Background(), itemID, keypad.KeypadID, "A")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

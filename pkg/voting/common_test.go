package voting

import (
	"sync/atomic"
	"testing"

	"go.uber.org/mock/gomock"
	"votehub.xyz/votecollector-service/pkg/db"
	"votehub.xyz/votecollector-service/pkg/device/mocks"
	"votehub.xyz/votecollector-service/pkg/models"
	"votehub.xyz/votecollector-service/pkg/projector"
)

// keypadIDSeq hands out unique external keypad ids so tests sharing the
// in-memory database never collide.
var keypadIDSeq atomic.Int64

func nextKeypadID() int {
	return int(keypadIDSeq.Add(1)) + 10000
}

func GetMockVotingWithMemorySqliteDialector(t *testing.T) (
	*gomock.Controller,
	*Voting,
	*mocks.MockClient,
	*projector.Overlay,
) {
	ctrl := gomock.NewController(t)

	mockDevice := mocks.NewMockClient(ctrl)
	overlay := projector.NewOverlay()
	dbInstance := db.GetInstance(db.UseMemorySqliteDialector()) // ensure migrations

	votingInstance := &Voting{
		Db:       *dbInstance,
		Device:   mockDevice,
		Overlay:  overlay,
		Notifier: projector.LogNotifier{},
		Config: Config{
			Method:      models.DistributionBoth,
			CallbackURL: "http://app.test/votecollector/callback/votes",
			VotePrompt:  "Please vote now!",
		},
	}
	votingInstance.WithServices(ServiceOpts{
		Session:   votingInstance.GetISession(),
		Reconcile: votingInstance.GetIReconcile(),
		Speaker:   votingInstance.GetISpeaker(),
		Result:    votingInstance.GetIResult(),
	})

	return ctrl, votingInstance, mockDevice, overlay
}

// resetCollector forces the shared singleton session record back to idle
// between tests.
func resetCollector(t *testing.T, v *Voting) {
	t.Helper()
	err := v.Db.Conn.Model(&models.Collector{}).
		Where("id = ?", models.CollectorID).
		Updates(map[string]any{
			"is_voting":      false,
			"voting_mode":    models.ModeNone,
			"voting_target":  0,
			"last_target":    0,
			"voters_count":   0,
			"votes_received": 0,
		}).Error
	if err != nil {
		t.Fatalf("failed to reset collector row: %v", err)
	}
}

func createPoll(t *testing.T, v *Voting, isElection bool, candidateNames ...string) *models.Poll {
	t.Helper()
	poll := models.Poll{Title: "test poll", IsElection: isElection}
	if err := v.Db.Conn.Create(&poll).Error; err != nil {
		t.Fatalf("failed to create poll: %v", err)
	}
	for i, name := range candidateNames {
		candidate := models.Candidate{PollID: poll.ID, Name: name, Weight: i + 1}
		if err := v.Db.Conn.Create(&candidate).Error; err != nil {
			t.Fatalf("failed to create candidate: %v", err)
		}
	}
	return &poll
}

func createKeypad(t *testing.T, v *Voting, participantID *uint) *models.Keypad {
	t.Helper()
	keypad := models.Keypad{KeypadID: nextKeypadID(), ParticipantID: participantID, Battery: -1}
	if err := v.Db.Conn.Create(&keypad).Error; err != nil {
		t.Fatalf("failed to create keypad: %v", err)
	}
	return &keypad
}

func createParticipant(t *testing.T, v *Voting, isActive bool) *models.Participant {
	t.Helper()
	participant := models.Participant{Name: "test participant", IsActive: isActive}
	if err := v.Db.Conn.Create(&participant).Error; err != nil {
		t.Fatalf("failed to create participant: %v", err)
	}
	return &participant
}

// startSession puts the shared collector row into Active without touching
// the device, for reconciler and result tests.
func startSession(t *testing.T, v *Voting, mode models.VotingMode, target uint, voters int) {
	t.Helper()
	err := v.Db.Conn.Model(&models.Collector{}).
		Where("id = ?", models.CollectorID).
		Updates(map[string]any{
			"is_voting":      true,
			"voting_mode":    mode,
			"voting_target":  target,
			"last_target":    target,
			"voters_count":   voters,
			"votes_received": 0,
		}).Error
	if err != nil {
		t.Fatalf("failed to activate session: %v", err)
	}
}

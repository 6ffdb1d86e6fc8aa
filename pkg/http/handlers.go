package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"votehub.xyz/votecollector-service/pkg/common"
	"votehub.xyz/votecollector-service/pkg/device"
	"votehub.xyz/votecollector-service/pkg/models"
	"votehub.xyz/votecollector-service/pkg/voting"
)

func serverLogger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameRestfulServer)
}

func parseVotingMode(raw string) (models.VotingMode, bool) {
	switch models.VotingMode(raw) {
	case models.ModeYesNoAbstain, models.ModeElection, models.ModeSpeakerList, models.ModePing:
		return models.VotingMode(raw), true
	}
	return models.ModeNone, false
}

// votingErrorStatus maps core errors to response codes the operator UI can
// act on: local conflicts are 409, device trouble is 502.
func votingErrorStatus(err error) int {
	var protoErr *device.ProtocolError
	switch {
	case errors.Is(err, voting.ErrUnknownPoll):
		return http.StatusNotFound
	case voting.IsSessionConflict(err), errors.Is(err, voting.ErrStaleResult):
		return http.StatusConflict
	case errors.Is(err, device.ErrConnection), errors.Is(err, device.ErrConfiguration), errors.As(err, &protoErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (rs *RestfulServer) GetDeviceStatus(c *gin.Context) {
	status, err := rs.Voting.Device.DeviceStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"device": "", "connected": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"device": status, "connected": true})
}

func (rs *RestfulServer) GetProjectorMessages(c *gin.Context) {
	c.JSON(http.StatusOK, rs.Overlay.Messages())
}

type StartVotingRequest struct {
	Mode   string `json:"mode"`
	PollID uint   `json:"poll_id"`
}

var startVotingRequestSchema = z.Struct(z.Shape{
	"Mode": z.String().Min(1).Required(),
})

func (rs *RestfulServer) StartVoting(c *gin.Context) {
	var req StartVotingRequest
	if err := startVotingRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	mode, ok := parseVotingMode(req.Mode)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown voting mode %q", req.Mode)})
		return
	}

	count, err := rs.Voting.Session.Start(c.Request.Context(), mode, req.PollID)
	if err != nil {
		c.JSON(votingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (rs *RestfulServer) StopVoting(c *gin.Context) {
	// The session record is idle after Stop regardless of the outcome;
	// a device error is reported but changes nothing locally.
	if err := rs.Voting.Session.Stop(c.Request.Context()); err != nil {
		c.JSON(votingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (rs *RestfulServer) GetVotingStatus(c *gin.Context) {
	status, err := rs.Voting.Session.Status(c.Request.Context())
	if err != nil {
		c.JSON(votingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"in_vote":        status.InVote,
		"mode":           status.Mode,
		"target":         status.Target,
		"elapsed":        status.Elapsed,
		"voters_count":   status.VotersCount,
		"votes_received": status.VotesReceived,
	})
}

func pollIDParam(c *gin.Context) (uint, bool) {
	pollID, err := strconv.ParseUint(c.Param("poll_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid poll id"})
		return 0, false
	}
	return uint(pollID), true
}

func (rs *RestfulServer) GetVotingResult(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	tally, err := rs.Voting.Result.PollResult(c.Request.Context(), pollID)
	if err != nil {
		c.JSON(votingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tally)
}

func (rs *RestfulServer) AnonymizeVotes(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	affected, err := rs.Voting.Result.Anonymize(c.Request.Context(), pollID)
	if err != nil {
		c.JSON(votingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": fmt.Sprintf("%d vote records anonymized", affected)})
}

func (rs *RestfulServer) ClearVotes(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	if err := rs.Voting.Result.ClearVotes(c.Request.Context(), pollID); err != nil {
		c.JSON(votingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "votes cleared"})
}

type voteCallbackItem struct {
	KeypadID     int    `json:"keypad_id"`
	Value        string `json:"value"`
	SerialNumber string `json:"sn"`
	Battery      *int   `json:"battery"`
	Elapsed      int    `json:"elapsed"`
	VotesSoFar   int    `json:"votes_so_far"`
}

// VoteCallbackRequest carries either one vote at the top level or a batch
// in Votes; the hardware uses both forms.
type VoteCallbackRequest struct {
	PollID uint `json:"poll_id"`
	voteCallbackItem
	Votes []voteCallbackItem `json:"votes"`
}

var voteCallbackItemSchema = z.Struct(z.Shape{
	"KeypadID": z.Int().GT(0).Required(),
	"Value":    z.String().Min(1).Required(),
})

func (item voteCallbackItem) toEvent(pollID uint) voting.VoteEvent {
	battery := -1
	if item.Battery != nil {
		battery = *item.Battery
	}
	return voting.VoteEvent{
		KeypadID:     item.KeypadID,
		TargetPollID: pollID,
		Value:        item.Value,
		SerialNumber: item.SerialNumber,
		Battery:      battery,
		Elapsed:      item.Elapsed,
		VotesSoFar:   item.VotesSoFar,
	}
}

// VoteCallback always answers 200: the collector hardware does not consume
// error details, and a non-200 can trigger undocumented retry behavior.
// Business rejections are logged by the reconciler.
func (rs *RestfulServer) VoteCallback(c *gin.Context) {
	var req VoteCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		serverLogger().Info("Malformed vote callback dropped", zap.Error(err))
		c.Status(http.StatusOK)
		return
	}

	items := req.Votes
	if len(items) == 0 {
		items = []voteCallbackItem{req.voteCallbackItem}
	}

	events := make([]voting.VoteEvent, 0, len(items))
	for _, item := range items {
		if err := voteCallbackItemSchema.Validate(&item); err != nil {
			serverLogger().Info("Invalid vote callback item dropped", zap.Reflect("issues", err))
			continue
		}
		if !rs.CheckKeypadLimiter(item.KeypadID) {
			serverLogger().Warn("Vote callback rate limited", zap.Int("keypad_id", item.KeypadID))
			continue
		}
		events = append(events, item.toEvent(req.PollID))
	}

	accepted := rs.Voting.Reconcile.IngestBatch(c.Request.Context(), events)
	c.JSON(http.StatusOK, gin.H{"accepted": accepted})
}

type SpeakerCallbackRequest struct {
	ItemID   int    `json:"item_id"`
	KeypadID int    `json:"keypad_id"`
	Value    string `json:"value"`
}

var speakerCallbackRequestSchema = z.Struct(z.Shape{
	"ItemID":   z.Int().GT(0).Required(),
	"KeypadID": z.Int().GT(0).Required(),
	"Value":    z.String().Min(1).Required(),
})

// SpeakerCallback replies with a short text the keypad display can show.
func (rs *RestfulServer) SpeakerCallback(c *gin.Context) {
	var req SpeakerCallbackRequest
	if err := speakerCallbackRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.String(http.StatusOK, "Invalid request")
		return
	}

	if !rs.CheckKeypadLimiter(req.KeypadID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	reply, err := rs.Voting.Speaker.IngestSpeaker(c.Request.Context(), uint(req.ItemID), req.KeypadID, req.Value)
	if err != nil {
		serverLogger().Info("Speaker callback rejected",
			zap.Int("keypad_id", req.KeypadID), zap.Error(err))
		switch {
		case errors.Is(err, voting.ErrAnonymousNotAllowed):
			reply = "Keypad not registered"
		case errors.Is(err, voting.ErrNoActiveSession):
			reply = "No speaker sign-up running"
		default:
			reply = "Rejected"
		}
	}

	c.String(http.StatusOK, reply)
}

type KeypadCallbackRequest struct {
	KeypadID int  `json:"keypad_id"`
	Battery  *int `json:"battery"`
}

var keypadCallbackRequestSchema = z.Struct(z.Shape{
	"KeypadID": z.Int().GT(0).Required(),
})

// KeypadCallback is the presence-only ping path; always 200.
func (rs *RestfulServer) KeypadCallback(c *gin.Context) {
	var req KeypadCallbackRequest
	if err := keypadCallbackRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		serverLogger().Info("Malformed keypad callback dropped", zap.Reflect("issues", err))
		c.Status(http.StatusOK)
		return
	}

	if !rs.CheckKeypadLimiter(req.KeypadID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	battery := -1
	if req.Battery != nil {
		battery = *req.Battery
	}

	if err := rs.Voting.Reconcile.IngestPresence(c.Request.Context(), req.KeypadID, battery); err != nil {
		serverLogger().Info("Keypad callback rejected",
			zap.Int("keypad_id", req.KeypadID), zap.Error(err))
	}

	c.Status(http.StatusOK)
}

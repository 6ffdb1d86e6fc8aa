package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"votehub.xyz/votecollector-service/pkg/projector"
	"votehub.xyz/votecollector-service/pkg/voting"
)

type RestfulServer struct {
	Server           *gin.Engine
	Voting           *voting.Voting
	Overlay          *projector.Overlay
	RateLimiterStore *voting.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(keypadID int) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(keypadID)
	}
}

func (rs *RestfulServer) CheckKeypadLimiter(keypadID int) bool {
	limiter := rs.GetLimiter(keypadID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	vc := rs.Server.Group("/votecollector")
	{
		vc.GET("/device-status", rs.GetDeviceStatus)
		vc.GET("/projector", rs.GetProjectorMessages)

		vc.POST("/voting/start", rs.StartVoting)
		vc.POST("/voting/stop", rs.StopVoting)
		vc.GET("/voting/status", rs.GetVotingStatus)
		vc.GET("/voting/result/:poll_id", rs.GetVotingResult)

		vc.POST("/poll/:poll_id/anonymize", rs.AnonymizeVotes)
		vc.POST("/poll/:poll_id/clear", rs.ClearVotes)

		callbacks := vc.Group("/callback")
		{
			callbacks.POST("/votes", rs.VoteCallback)
			callbacks.POST("/speaker", rs.SpeakerCallback)
			callbacks.POST("/keypad", rs.KeypadCallback)
		}

		keypads := vc.Group("/keypads")
		{
			keypads.GET("", rs.ListKeypads)
			keypads.POST("", rs.CreateKeypad)
			keypads.POST("/range", rs.CreateKeypadRange)
			keypads.DELETE("/:id", rs.DeleteKeypad)
		}
	}
}

package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"votehub.xyz/votecollector-service/pkg/common"
	"votehub.xyz/votecollector-service/pkg/db"
	"votehub.xyz/votecollector-service/pkg/device"
	vcHttp "votehub.xyz/votecollector-service/pkg/http"
	"votehub.xyz/votecollector-service/pkg/models"
	"votehub.xyz/votecollector-service/pkg/projector"
	"votehub.xyz/votecollector-service/pkg/voting"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	vcDbType := os.Getenv(common.EnvKeyVCDBType)
	switch vcDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown VC_DB_TYPE: " + vcDbType)
	}

	deviceURL := strings.TrimSpace(os.Getenv(common.EnvKeyVCDeviceURL))
	if deviceURL == "" {
		log.Fatal("VC_DEVICE_URL not set in .env, should be the base URL of the collector hardware")
	}

	callbackURL := strings.TrimSpace(os.Getenv(common.EnvKeyVCCallbackURL))
	if callbackURL == "" {
		log.Fatal("VC_CALLBACK_URL not set in .env, should be the URL the hardware posts votes back to")
	}

	method := models.DistributionMethod(strings.TrimSpace(os.Getenv(common.EnvKeyVCDistributionMethod)))
	switch method {
	case models.DistributionAnonymous, models.DistributionPersonalized, models.DistributionBoth:
	case "":
		method = models.DistributionBoth
	default:
		log.Fatal("Unknown VC_DISTRIBUTION_METHOD: " + string(method))
	}

	votePrompt := strings.TrimSpace(os.Getenv(common.EnvKeyVCVotePrompt))
	if votePrompt == "" {
		votePrompt = common.DefaultVotePrompt
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyVCHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyVCDefaultRate), 64); err != nil {
		log.Fatal("Invalid VC_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyVCDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid VC_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	deviceClient := device.NewHTTPClient(deviceURL)
	overlay := projector.NewOverlay()

	votingCore := voting.Voting{
		Db:       *dbInstance,
		Device:   deviceClient,
		Overlay:  overlay,
		Notifier: projector.LogNotifier{},
		Config: voting.Config{
			Method:      method,
			CallbackURL: callbackURL,
			VotePrompt:  votePrompt,
		},
	}
	votingCore.WithServices(voting.ServiceOpts{
		Session:   votingCore.GetISession(),
		Reconcile: votingCore.GetIReconcile(),
		Speaker:   votingCore.GetISpeaker(),
		Result:    votingCore.GetIResult(),
	})

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	logger.Info("Starting HTTP server on port " + httpHostPort)
	rs := &vcHttp.RestfulServer{
		Server:           gin.Default(),
		Voting:           &votingCore,
		Overlay:          overlay,
		RateLimiterStore: voting.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("device_url", deviceURL),
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}

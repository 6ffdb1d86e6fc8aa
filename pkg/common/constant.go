package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyVCDBType string = "VC_DB_TYPE"
	EnvKeyVCDbPath string = "VC_DB_PATH"

	EnvKeyVCHttpHostPort string = "VC_HTTP_HOST_PORT"

	EnvKeyVCDeviceURL   string = "VC_DEVICE_URL"
	EnvKeyVCCallbackURL string = "VC_CALLBACK_URL"

	EnvKeyVCDistributionMethod string = "VC_DISTRIBUTION_METHOD"
	EnvKeyVCVotePrompt         string = "VC_VOTE_PROMPT"

	EnvKeyVCDefaultRate  string = "VC_DEFAULT_RATE"
	EnvKeyVCDefaultBurst string = "VC_DEFAULT_BURST"

	LoggerNameVotingCore    string = "voting_core"
	LoggerNameDeviceClient  string = "device_client"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameProjector     string = "projector"

	LoggerFieldVotingCategory string = "category"
	LoggerCategorySession     string = "session"
	LoggerCategoryReconcile   string = "reconcile"
	LoggerCategoryResult      string = "result"
	LoggerCategorySpeaker     string = "speaker"

	// DefaultVotePrompt is shown on the projector while a vote is open.
	DefaultVotePrompt string = "Please vote now!"
)

package device

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votehub.xyz/votecollector-service/pkg/common"
	_ "votehub.xyz/votecollector-service/pkg/testing"
)

// fakeCollector stands in for the hardware: a status endpoint plus a
// configurable count for prepare/start.
func fakeCollector(t *testing.T, prepareCount, startCount int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/getDeviceStatus", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "Device: Simulator. Connected."}`))
	})
	mux.HandleFunc("/prepareVoting", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		writeCount(w, prepareCount)
	})
	mux.HandleFunc("/startVoting", func(w http.ResponseWriter, r *http.Request) {
		writeCount(w, startCount)
	})
	mux.HandleFunc("/stopVoting", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/getVotingStatus", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elapsed": 42, "votes": 7}`))
	})
	mux.HandleFunc("/getVotingResult", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"yes": 3, "no": 2, "abstain": 1, "not_voted": 4}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeCount(w http.ResponseWriter, count int) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"count": ` + strconv.Itoa(count) + `}`))
}

func TestDeviceStatus(t *testing.T) {
	common.SetTestLoggerNop()

	server := fakeCollector(t, 3, 3)
	client := NewHTTPClient(server.URL)

	status, err := client.DeviceStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Device: Simulator. Connected.", status)
}

func TestPrepareAndStartVoting(t *testing.T) {
	common.SetTestLoggerNop()

	server := fakeCollector(t, 5, 5)
	client := NewHTTPClient(server.URL)

	count, err := client.PrepareVoting(context.Background(), "YesNoAbstain", "http://app/callback", []int{101, 102})
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	count, err = client.StartVoting(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestProtocolErrorMapping(t *testing.T) {
	common.SetTestLoggerNop()

	cases := []struct {
		code    int
		message string
	}{
		{CodeUnknownMode, "Unknown voting mode."},
		{CodeInvalidKeypadRange, "Invalid keypad range."},
		{CodeInvalidKeypadList, "Invalid keypad list."},
		{CodeNoAuthorizedKeypads, "No keypads authorized for voting."},
		{CodeLicenseInsufficient, "License not sufficient."},
		{CodeNoDeviceConnected, "No voting device connected."},
		{CodeDeviceSetupFailed, "Failed to set up voting device."},
		{CodeDeviceNotReady, "Voting device not ready."},
	}

	for _, tc := range cases {
		server := fakeCollector(t, tc.code, 0)
		client := NewHTTPClient(server.URL)

		_, err := client.PrepareVoting(context.Background(), "YesNoAbstain", "http://app/callback", []int{101})
		require.Error(t, err)

		var protoErr *ProtocolError
		require.True(t, errors.As(err, &protoErr), "expected ProtocolError for code %d", tc.code)
		assert.Equal(t, tc.code, protoErr.Code)
		assert.Equal(t, tc.message, protoErr.Error())
	}
}

func TestVotingStatusAndResult(t *testing.T) {
	common.SetTestLoggerNop()

	server := fakeCollector(t, 3, 3)
	client := NewHTTPClient(server.URL)

	elapsed, votes, err := client.VotingStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, elapsed)
	assert.Equal(t, 7, votes)

	result, err := client.VotingResult(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Yes: 3, No: 2, Abstain: 1, NotVoted: 4}, result)
}

func TestConnectionError(t *testing.T) {
	common.SetTestLoggerNop()

	server := fakeCollector(t, 3, 3)
	url := server.URL
	server.Close()

	client := NewHTTPClient(url)

	_, err := client.DeviceStatus(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConnection))

	// Stateful calls run the connectivity pre-check first and fail the
	// same way instead of issuing the command.
	_, err = client.StartVoting(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConnection))
}

func TestConfigurationError(t *testing.T) {
	common.SetTestLoggerNop()

	client := NewHTTPClient("not-a-url")

	_, err := client.DeviceStatus(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

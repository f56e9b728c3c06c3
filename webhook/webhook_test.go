package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/shelfcheck/models"
)

const hookURL = "https://hooks.example.com/shelfcheck"

func TestDeliver_SignsBody(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	var gotBody []byte
	var gotSig string
	httpmock.RegisterResponder(http.MethodPost, hookURL, func(req *http.Request) (*http.Response, error) {
		gotBody, _ = io.ReadAll(req.Body)
		gotSig = req.Header.Get(SignatureHeader)
		return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
	})

	event := &Event{Type: EventVerifyCompleted, RunID: "run-1", Timestamp: 1, Data: map[string]string{"status": "SUCCESS"}}
	require.NoError(t, Deliver(context.Background(), hookURL, "s3cret", event))

	assert.Equal(t, Sign("s3cret", gotBody), gotSig)

	var decoded Event
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, EventVerifyCompleted, decoded.Type)
}

func TestDeliver_NoSecretNoSignature(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, hookURL, func(req *http.Request) (*http.Response, error) {
		assert.Empty(t, req.Header.Get(SignatureHeader))
		return httpmock.NewStringResponse(http.StatusNoContent, ""), nil
	})

	require.NoError(t, Deliver(context.Background(), hookURL, "", &Event{Type: EventVerifyCompleted}))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestDeliver_ErrorStatus(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, hookURL, httpmock.NewStringResponder(http.StatusBadGateway, "down"))

	err := Deliver(context.Background(), hookURL, "", &Event{Type: EventVerifyCompleted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSign_Deterministic(t *testing.T) {
	body := []byte(`{"type":"verify.completed"}`)
	assert.Equal(t, Sign("k", body), Sign("k", body))
	assert.NotEqual(t, Sign("k", body), Sign("other", body))
	assert.Contains(t, Sign("k", body), "sha256=")
}

func TestVerifyNotifier_PostsResult(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	received := make(chan Event, 1)
	httpmock.RegisterResponder(http.MethodPost, hookURL, func(req *http.Request) (*http.Response, error) {
		var e Event
		_ = json.NewDecoder(req.Body).Decode(&e)
		received <- e
		return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
	})

	notify := VerifyNotifier(hookURL, "")
	notify(&models.VerificationResult{RunID: "run-42", Status: models.StatusFailure, Kind: models.KindEmpty})

	select {
	case e := <-received:
		assert.Equal(t, "run-42", e.RunID)
		assert.Equal(t, EventVerifyCompleted, e.Type)
		data, ok := e.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "EMPTY", data["kind"])
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not delivered")
	}
}

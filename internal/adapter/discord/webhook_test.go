package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"empathy-client/internal/domain/model"
)

func TestWebhook_Report(t *testing.T) {
	t.Parallel()

	var payload struct {
		Embeds []struct {
			Title  string `json:"title"`
			Color  int    `json:"color"`
			Fields []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"fields"`
		} `json:"embeds"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	hook := NewWebhook(server.URL, time.Second, nil)
	err := hook.Report(context.Background(), "Announcement delivered", model.FanoutResult{
		Attempted: 3,
		Succeeded: 2,
		Failed:    []model.RecipientFailure{{RecipientID: "u9", Err: errors.New("status 500")}},
	})
	require.NoError(t, err)

	require.Len(t, payload.Embeds, 1)
	embed := payload.Embeds[0]
	assert.Equal(t, "Announcement delivered", embed.Title)
	assert.Equal(t, colorPartial, embed.Color)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "3", embed.Fields[0].Value)
	assert.Equal(t, "2", embed.Fields[1].Value)
	assert.Contains(t, embed.Fields[3].Value, "`u9`: status 500")
}

func TestWebhook_Errors(t *testing.T) {
	t.Parallel()

	err := NewWebhook("", time.Second, nil).Report(context.Background(), "t", model.FanoutResult{})
	require.Error(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	err = NewWebhook(server.URL, time.Second, nil).Report(context.Background(), "t", model.FanoutResult{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestFormatFailures_Caps(t *testing.T) {
	t.Parallel()

	failed := make([]model.RecipientFailure, 15)
	for i := range failed {
		failed[i] = model.RecipientFailure{RecipientID: fmt.Sprintf("u%d", i), Err: errors.New("x")}
	}
	out := formatFailures(failed)
	assert.Equal(t, maxFailures+1, len(strings.Split(out, "\n")))
	assert.Contains(t, out, "and 5 more")
}

func TestBuildPayload_AllDelivered(t *testing.T) {
	t.Parallel()

	p := buildPayload("ok", model.FanoutResult{Attempted: 1, Succeeded: 1}, time.Unix(0, 0))
	embed := p["embeds"].([]map[string]any)[0]
	assert.Equal(t, colorOK, embed["color"])
	assert.Len(t, embed["fields"], 3)
	assert.Equal(t, "1970-01-01T00:00:00Z", embed["timestamp"])
}

func TestTruncate_RuneSafe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "…and", truncate("…and", 4))

	got := truncate(strings.Repeat("…", 20), 10)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("…", 7)+"...", got)
}

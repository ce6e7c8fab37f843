package social_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-social-publisher/internal/errors"
	"github.com/jrsteele09/go-social-publisher/social"
	"github.com/stretchr/testify/require"
)

func TestLinkedInClientShare(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/ugcPosts", r.URL.Path)
		require.Equal(t, "Bearer li-token", r.Header.Get("Authorization"))
		require.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("X-RestLi-Id", "urn:li:share:6844785523593134080")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := social.NewLinkedInClient(srv.URL+"/v2/ugcPosts", srv.Client())
	id, err := client.Share(context.Background(), linkedInSession(), social.Share{
		AuthorURN:      "urn:li:person:abc123",
		Text:           "hello network",
		MediaReference: "urn:li:digitalmediaAsset:C5",
	})
	require.NoError(t, err)
	require.Equal(t, "urn:li:share:6844785523593134080", id)

	want := `{
		"author": "urn:li:person:abc123",
		"lifecycleState": "PUBLISHED",
		"specificContent": {
			"com.linkedin.ugc.ShareContent": {
				"shareCommentary": {"text": "hello network"},
				"shareMediaCategory": "IMAGE",
				"media": [{
					"status": "READY",
					"description": {"text": "Image from AI Content Generator"},
					"media": "urn:li:digitalmediaAsset:C5"
				}]
			}
		},
		"visibility": {"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC"}
	}`
	got, err := json.Marshal(body)
	require.NoError(t, err)
	require.JSONEq(t, want, string(got))
}

func TestLinkedInClientTextOnlyShare(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"urn:li:share:1"}`))
	}))
	defer srv.Close()

	id, err := social.NewLinkedInClient(srv.URL, srv.Client()).Share(context.Background(), linkedInSession(), social.Share{
		AuthorURN: "urn:li:person:abc123",
		Text:      "just words",
	})
	require.NoError(t, err)
	require.Equal(t, "urn:li:share:1", id)

	content := body["specificContent"].(map[string]any)["com.linkedin.ugc.ShareContent"].(map[string]any)
	require.Equal(t, "NONE", content["shareMediaCategory"])
	require.NotContains(t, content, "media")
}

func TestLinkedInClientShareFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"duplicate"}`))
	}))
	defer srv.Close()

	_, err := social.NewLinkedInClient(srv.URL, srv.Client()).Share(context.Background(), linkedInSession(), social.Share{
		AuthorURN: "urn:li:person:abc123",
		Text:      "again",
	})
	require.ErrorIs(t, err, errors.ErrPublishFailed)
	require.Contains(t, err.Error(), "duplicate")
}

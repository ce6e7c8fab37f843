package social_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-social-publisher/internal/errors"
	"github.com/jrsteele09/go-social-publisher/social"
	"github.com/stretchr/testify/require"
)

// recordingSigner hands out a client that stamps the credentials it was given.
type recordingSigner struct{}

func (recordingSigner) Client(_ context.Context, token, secret string) *http.Client {
	return &http.Client{Transport: roundTrip(func(r *http.Request) (*http.Response, error) {
		signed := r.Clone(r.Context())
		signed.Header.Set("Authorization", "OAuth token="+token+",secret="+secret)
		return http.DefaultTransport.RoundTrip(signed)
	})}
}

type roundTrip func(*http.Request) (*http.Response, error)

func (f roundTrip) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTwitterAPI(t *testing.T, handler http.Handler) *social.TwitterClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return social.NewTwitterClientWithURLs(recordingSigner{}, srv.URL+"/1.1/media/upload.json", srv.URL+"/2/tweets")
}

func TestTwitterClientUploadMedia(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /1.1/media/upload.json", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "OAuth token=tw-token,secret=tw-secret", r.Header.Get("Authorization"))
		file, header, err := r.FormFile("media")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		require.Equal(t, "png-bytes", string(data))
		require.Equal(t, "image/png", header.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"media_id":710511363345354753,"media_id_string":"710511363345354753"}`))
	})
	client := newTwitterAPI(t, mux)

	id, err := client.UploadMedia(context.Background(), twitterSession(), social.Image{Data: []byte("png-bytes"), MimeType: "image/png"})
	require.NoError(t, err)
	require.Equal(t, "710511363345354753", id)
}

func TestTwitterClientUploadMediaFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /1.1/media/upload.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"media type unrecognized"}]}`, http.StatusBadRequest)
	})
	client := newTwitterAPI(t, mux)

	_, err := client.UploadMedia(context.Background(), twitterSession(), social.Image{Data: []byte("x")})
	require.ErrorIs(t, err, errors.ErrMediaUploadFailed)
	require.Contains(t, err.Error(), "media type unrecognized")
}

func TestTwitterClientTweet(t *testing.T) {
	var bodies []map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /2/tweets", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1445880548472328192","text":"hello","edit_history_tweet_ids":["1445880548472328192"]}}`))
	})
	client := newTwitterAPI(t, mux)

	tweet, err := client.Tweet(context.Background(), twitterSession(), "hello", []string{})
	require.NoError(t, err)
	require.Equal(t, "1445880548472328192", tweet.ID)
	require.Equal(t, []string{"1445880548472328192"}, tweet.EditHistoryTweetIDs)

	_, err = client.Tweet(context.Background(), twitterSession(), "hello", []string{"1", "2"})
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	require.Equal(t, map[string]any{"text": "hello"}, bodies[0])
	require.Equal(t, map[string]any{
		"text":  "hello",
		"media": map[string]any{"media_ids": []any{"1", "2"}},
	}, bodies[1])
}

func TestTwitterClientTweetFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /2/tweets", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"title":"Forbidden"}`))
	})
	client := newTwitterAPI(t, mux)

	_, err := client.Tweet(context.Background(), twitterSession(), "hello", nil)
	require.ErrorIs(t, err, errors.ErrPublishFailed)
}

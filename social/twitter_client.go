package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/jrsteele09/go-social-publisher/internal/errors"
	"github.com/jrsteele09/go-social-publisher/sessions"
)

// Twitter API endpoints
const (
	TwitterMediaUploadURL = "https://upload.twitter.com/1.1/media/upload.json"
	TwitterTweetsURL      = "https://api.twitter.com/2/tweets"
)

// TwitterSigner produces HTTP clients that sign requests with a user's OAuth 1.0a credentials.
type TwitterSigner interface {
	Client(ctx context.Context, accessToken, accessSecret string) *http.Client
}

// TwitterClient calls the Twitter media upload and tweet endpoints.
type TwitterClient struct {
	signer    TwitterSigner
	uploadURL string
	tweetsURL string
}

var _ TwitterAPI = (*TwitterClient)(nil)

// NewTwitterClient creates a client against the production endpoints.
func NewTwitterClient(signer TwitterSigner) *TwitterClient {
	return NewTwitterClientWithURLs(signer, TwitterMediaUploadURL, TwitterTweetsURL)
}

// NewTwitterClientWithURLs creates a client against explicit endpoint URLs.
func NewTwitterClientWithURLs(signer TwitterSigner, uploadURL, tweetsURL string) *TwitterClient {
	return &TwitterClient{
		signer:    signer,
		uploadURL: uploadURL,
		tweetsURL: tweetsURL,
	}
}

// UploadMedia uploads one image as a multipart "media" field and returns its media id.
func (c *TwitterClient) UploadMedia(ctx context.Context, session sessions.Session, image Image) (string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	mimeType := image.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(image.Data)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="media"; filename="media"`)
	header.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", errors.Wrap(err, "[TwitterClient UploadMedia] create part")
	}
	if _, err := part.Write(image.Data); err != nil {
		return "", errors.Wrap(err, "[TwitterClient UploadMedia] write part")
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrap(err, "[TwitterClient UploadMedia] close multipart")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var uploaded struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := c.do(ctx, session, req, &uploaded); err != nil {
		return "", errors.Wrapf(errors.ErrMediaUploadFailed, "%v", err)
	}
	if uploaded.MediaIDString == "" {
		return "", errors.Wrap(errors.ErrMediaUploadFailed, "response has no media_id_string")
	}
	return uploaded.MediaIDString, nil
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Media *tweetMedia `json:"media,omitempty"`
}

type tweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

// Tweet creates a tweet. The media block is only sent when there are media ids.
func (c *TwitterClient) Tweet(ctx context.Context, session sessions.Session, text string, mediaIDs []string) (Tweet, error) {
	payload := tweetRequest{Text: text}
	if len(mediaIDs) > 0 {
		payload.Media = &tweetMedia{MediaIDs: mediaIDs}
	}
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return Tweet{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tweetsURL, buf)
	if err != nil {
		return Tweet{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var created struct {
		Data Tweet `json:"data"`
	}
	if err := c.do(ctx, session, req, &created); err != nil {
		return Tweet{}, errors.Wrapf(errors.ErrPublishFailed, "%v", err)
	}
	return created.Data, nil
}

func (c *TwitterClient) do(ctx context.Context, session sessions.Session, req *http.Request, out any) error {
	resp, err := c.signer.Client(ctx, session.AccessToken, session.AccessSecret).Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("twitter: %s: %s", resp.Status, data)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("twitter: decode response: %w", err)
	}
	return nil
}

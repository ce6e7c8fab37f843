package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jrsteele09/go-social-publisher/internal/errors"
	"github.com/jrsteele09/go-social-publisher/sessions"
	"golang.org/x/oauth2"
)

// LinkedInUGCPostsURL is the LinkedIn member share endpoint.
const LinkedInUGCPostsURL = "https://api.linkedin.com/v2/ugcPosts"

const linkedInImageDescription = "Image from AI Content Generator"

// LinkedInClient posts member shares with the session's bearer token.
type LinkedInClient struct {
	ugcPostsURL string
	httpClient  *http.Client
}

var _ LinkedInAPI = (*LinkedInClient)(nil)

// NewLinkedInClient creates a client. An empty ugcPostsURL selects production.
func NewLinkedInClient(ugcPostsURL string, httpClient *http.Client) *LinkedInClient {
	if ugcPostsURL == "" {
		ugcPostsURL = LinkedInUGCPostsURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &LinkedInClient{
		ugcPostsURL: ugcPostsURL,
		httpClient:  httpClient,
	}
}

type ugcPost struct {
	Author          string             `json:"author"`
	LifecycleState  string             `json:"lifecycleState"`
	SpecificContent ugcSpecificContent `json:"specificContent"`
	Visibility      map[string]string  `json:"visibility"`
}

type ugcSpecificContent struct {
	ShareContent ugcShareContent `json:"com.linkedin.ugc.ShareContent"`
}

type ugcShareContent struct {
	ShareCommentary    ugcText    `json:"shareCommentary"`
	ShareMediaCategory string     `json:"shareMediaCategory"`
	Media              []ugcMedia `json:"media,omitempty"`
}

type ugcText struct {
	Text string `json:"text"`
}

type ugcMedia struct {
	Status      string  `json:"status"`
	Description ugcText `json:"description"`
	Media       string  `json:"media"`
}

func newUGCPost(share Share) ugcPost {
	content := ugcShareContent{
		ShareCommentary:    ugcText{Text: share.Text},
		ShareMediaCategory: "NONE",
	}
	if share.MediaReference != "" {
		content.ShareMediaCategory = "IMAGE"
		content.Media = []ugcMedia{{
			Status:      "READY",
			Description: ugcText{Text: linkedInImageDescription},
			Media:       share.MediaReference,
		}}
	}
	return ugcPost{
		Author:          share.AuthorURN,
		LifecycleState:  "PUBLISHED",
		SpecificContent: ugcSpecificContent{ShareContent: content},
		Visibility:      map[string]string{"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC"},
	}
}

// Share publishes a member share and returns the created post URN.
func (c *LinkedInClient) Share(ctx context.Context, session sessions.Session, share Share) (string, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(newUGCPost(share)); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ugcPostsURL, buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: session.AccessToken,
		TokenType:   "Bearer",
	}))

	resp, err := client.Do(req)
	if err != nil {
		return "", errors.Wrapf(errors.ErrPublishFailed, "linkedin: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", errors.Wrap(errors.ErrPublishFailed, fmt.Sprintf("linkedin: %s: %s", resp.Status, data))
	}

	if id := resp.Header.Get("X-RestLi-Id"); id != "" {
		return id, nil
	}
	var created struct {
		ID string `json:"id"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&created)
	return created.ID, nil
}

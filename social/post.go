package social

import (
	"context"

	"github.com/jrsteele09/go-social-publisher/sessions"
)

// Image is a single piece of media attached to a post. Twitter uploads Data;
// LinkedIn embeds Reference, an already registered asset URN.
type Image struct {
	Data      []byte
	MimeType  string
	Reference string
}

// Post is the content payload handed to the publisher.
type Post struct {
	Content  string
	Platform sessions.Platform
	Images   []Image
}

// Result describes what was created on the provider.
type Result struct {
	Platform sessions.Platform `json:"platform"`
	ID       string            `json:"id"`
	MediaIDs []string          `json:"mediaIds,omitempty"`
}

// Tweet is the provider's representation of a created tweet.
type Tweet struct {
	ID                  string   `json:"id"`
	Text                string   `json:"text"`
	EditHistoryTweetIDs []string `json:"edit_history_tweet_ids,omitempty"`
}

// TwitterAPI is the subset of the Twitter API used for publishing.
type TwitterAPI interface {
	UploadMedia(ctx context.Context, session sessions.Session, image Image) (string, error)
	Tweet(ctx context.Context, session sessions.Session, text string, mediaIDs []string) (Tweet, error)
}

// Share is a LinkedIn member share ready to be sent to the UGC post endpoint.
type Share struct {
	AuthorURN      string
	Text           string
	MediaReference string // Empty for text-only shares
}

// LinkedInAPI is the subset of the LinkedIn API used for publishing.
type LinkedInAPI interface {
	Share(ctx context.Context, session sessions.Session, share Share) (string, error)
}

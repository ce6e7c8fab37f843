package social

import (
	"context"
	"strings"

	"github.com/jrsteele09/go-social-publisher/internal/errors"
	"github.com/jrsteele09/go-social-publisher/sessions"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentUploads bounds the media upload fan-out for a single tweet.
const maxConcurrentUploads = 4

// Publisher submits posts to the platform a session was issued for.
// Each call makes a single attempt; retrying is left to the caller.
type Publisher struct {
	twitter  TwitterAPI
	linkedin LinkedInAPI
}

// NewPublisher creates a Publisher backed by the given platform clients.
func NewPublisher(twitter TwitterAPI, linkedin LinkedInAPI) *Publisher {
	return &Publisher{
		twitter:  twitter,
		linkedin: linkedin,
	}
}

// Publish sends post using session's credentials. The session and post
// platforms must match; a mismatch fails before any provider call.
func (p *Publisher) Publish(ctx context.Context, session sessions.Session, post Post) (Result, error) {
	if err := checkPlatform(session, post.Platform); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(post.Content) == "" {
		return Result{}, errors.Wrap(errors.ErrInvalidRequest, "content is required")
	}

	switch session.Platform {
	case sessions.PlatformTwitter:
		return p.publishTwitter(ctx, session, post)
	case sessions.PlatformLinkedIn:
		return p.publishLinkedIn(ctx, session, post)
	}
	return Result{}, errors.Wrapf(errors.ErrInvalidSession, "unsupported platform %q", session.Platform)
}

// UploadTwitterMedia uploads a single image for later use in a tweet.
func (p *Publisher) UploadTwitterMedia(ctx context.Context, session sessions.Session, image Image) (string, error) {
	if err := checkTwitterSession(session); err != nil {
		return "", err
	}
	if len(image.Data) == 0 {
		return "", errors.Wrap(errors.ErrInvalidRequest, "no media file provided")
	}
	id, err := p.twitter.UploadMedia(ctx, session, image)
	if err != nil {
		return "", classify(err, errors.ErrMediaUploadFailed)
	}
	return id, nil
}

// Tweet posts text with already uploaded media ids.
func (p *Publisher) Tweet(ctx context.Context, session sessions.Session, text string, mediaIDs []string) (Tweet, error) {
	if err := checkTwitterSession(session); err != nil {
		return Tweet{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Tweet{}, errors.Wrap(errors.ErrInvalidRequest, "text is required")
	}
	if mediaIDs == nil {
		mediaIDs = []string{}
	}
	tweet, err := p.twitter.Tweet(ctx, session, text, mediaIDs)
	if err != nil {
		return Tweet{}, classify(err, errors.ErrPublishFailed)
	}
	return tweet, nil
}

// publishTwitter uploads every image before tweeting. Any failed upload aborts
// the publish so no partial post is made; media already uploaded is left to expire.
func (p *Publisher) publishTwitter(ctx context.Context, session sessions.Session, post Post) (Result, error) {
	if err := checkTwitterSession(session); err != nil {
		return Result{}, err
	}
	for i, image := range post.Images {
		if len(image.Data) == 0 {
			return Result{}, errors.Wrapf(errors.ErrInvalidRequest, "image %d has no data to upload", i+1)
		}
	}

	mediaIDs := make([]string, len(post.Images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)
	for i, image := range post.Images {
		g.Go(func() error {
			id, err := p.twitter.UploadMedia(gctx, session, image)
			if err != nil {
				return errors.Wrapf(classify(err, errors.ErrMediaUploadFailed), "image %d", i+1)
			}
			mediaIDs[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Int("images", len(post.Images)).Msg("twitter publish aborted")
		return Result{}, err
	}

	tweet, err := p.twitter.Tweet(ctx, session, post.Content, mediaIDs)
	if err != nil {
		return Result{}, classify(err, errors.ErrPublishFailed)
	}
	return Result{Platform: sessions.PlatformTwitter, ID: tweet.ID, MediaIDs: mediaIDs}, nil
}

func (p *Publisher) publishLinkedIn(ctx context.Context, session sessions.Session, post Post) (Result, error) {
	if session.UserID == "" {
		return Result{}, errors.Wrap(errors.ErrInvalidSession, "linkedin session has no member id")
	}

	share := Share{
		AuthorURN: "urn:li:person:" + session.UserID,
		Text:      post.Content,
	}
	switch len(post.Images) {
	case 0:
	case 1:
		if post.Images[0].Reference == "" {
			return Result{}, errors.Wrap(errors.ErrInvalidRequest, "linkedin images must reference an uploaded asset")
		}
		share.MediaReference = post.Images[0].Reference
	default:
		return Result{}, errors.Wrapf(errors.ErrInvalidRequest, "linkedin shares support one image, got %d", len(post.Images))
	}

	id, err := p.linkedin.Share(ctx, session, share)
	if err != nil {
		return Result{}, classify(err, errors.ErrPublishFailed)
	}
	return Result{Platform: sessions.PlatformLinkedIn, ID: id}, nil
}

func checkPlatform(session sessions.Session, platform sessions.Platform) error {
	if err := session.Validate(); err != nil {
		return err
	}
	if session.Platform != platform {
		return errors.Wrapf(errors.ErrPlatformMismatch, "session is for %s, post is for %s", session.Platform, platform)
	}
	return nil
}

func checkTwitterSession(session sessions.Session) error {
	if err := checkPlatform(session, sessions.PlatformTwitter); err != nil {
		return err
	}
	if session.AccessSecret == "" {
		return errors.Wrap(errors.ErrInvalidSession, "twitter session has no access secret")
	}
	return nil
}

// classify wraps err with sentinel unless it already carries a known classification.
func classify(err error, sentinel error) error {
	for _, known := range []error{
		errors.ErrInvalidSession,
		errors.ErrInvalidRequest,
		errors.ErrMediaUploadFailed,
		errors.ErrPublishFailed,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return errors.Wrap(sentinel, err.Error())
}

package config

const (
	geminiAPIKeyVar         = "GEMINI_API_KEY"
	geminiModelVar          = "GEMINI_MODEL"
	newsAPIKeyVar           = "NEWS_API_KEY"
	twitterAPIKeyVar        = "TWITTER_API_KEY"
	twitterAPISecretVar     = "TWITTER_API_SECRET"
	linkedInClientIDVar     = "LINKEDIN_CLIENT_ID"
	linkedInClientSecretVar = "LINKEDIN_CLIENT_SECRET"
)

// ProviderConfig holds the credentials of every external system the service talks to.
type ProviderConfig interface {
	GetGeminiAPIKey() string
	GetGeminiModel() string
	GetNewsAPIKey() string
	GetTwitterAPIKey() string
	GetTwitterAPISecret() string
	GetLinkedInClientID() string
	GetLinkedInClientSecret() string
}

type Providers struct{}

var _ ProviderConfig = Providers{}

func (Providers) GetGeminiAPIKey() string {
	return GetEnv(geminiAPIKeyVar, "")
}

func (Providers) GetGeminiModel() string {
	return GetEnv(geminiModelVar, "gemini-2.0-flash")
}

func (Providers) GetNewsAPIKey() string {
	return GetEnv(newsAPIKeyVar, "")
}

func (Providers) GetTwitterAPIKey() string {
	return GetEnv(twitterAPIKeyVar, "")
}

func (Providers) GetTwitterAPISecret() string {
	return GetEnv(twitterAPISecretVar, "")
}

func (Providers) GetLinkedInClientID() string {
	return GetEnv(linkedInClientIDVar, "")
}

func (Providers) GetLinkedInClientSecret() string {
	return GetEnv(linkedInClientSecretVar, "")
}

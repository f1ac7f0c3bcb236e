package internal

import (
	"github.com/sowzaxx7/8m-community/internal/service"
	"github.com/sowzaxx7/8m-community/internal/storage"
	"github.com/sowzaxx7/8m-community/pkg/security"

	"gorm.io/gorm"
)

// Settings are the config values handlers need at request time
type Settings struct {
	// Secure flag on the session cookie
	CookieSecure bool
	// Where the login callback sends the browser
	LoginRedirect string
	// Max request body size for post creation, in bytes
	MaxUploadSize int64
}

type Deps struct {
	DB       *gorm.DB
	Tokens   *security.Tokens
	Storage  storage.Storage
	Verifier *service.Verifier
	Users    *service.Users
	Posts    *service.Posts
	Uploads  *service.Gatekeeper
	Notifier *service.Notifier
	Sessions *service.Sessions
	Settings Settings
}

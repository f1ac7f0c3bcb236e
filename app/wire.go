package app

import (
	"github.com/sowzaxx7/8m-community/internal"
	"github.com/sowzaxx7/8m-community/internal/service"
	"github.com/sowzaxx7/8m-community/internal/storage"
	"github.com/sowzaxx7/8m-community/pkg/security"

	"gorm.io/gorm"
)

// Wire connects the services to each other
func Wire(conn *gorm.DB, tokens *security.Tokens, store storage.Storage, provider service.IdentityProvider, s internal.Settings) *internal.Deps {
	uploads := service.NewGatekeeper(store, false)
	notifier := service.NewNotifier(conn)

	return &internal.Deps{
		DB:       conn,
		Tokens:   tokens,
		Storage:  store,
		Verifier: service.NewVerifier(conn, tokens),
		Users:    service.NewUsers(conn),
		Posts:    service.NewPosts(conn, uploads, notifier),
		Uploads:  uploads,
		Notifier: notifier,
		Sessions: service.NewSessions(conn, provider, tokens, 0),
		Settings: s,
	}
}

package app

import (
	"context"
	"fmt"

	"github.com/sowzaxx7/8m-community/db"
	"github.com/sowzaxx7/8m-community/internal"
	"github.com/sowzaxx7/8m-community/internal/discord"
	"github.com/sowzaxx7/8m-community/internal/storage"
	"github.com/sowzaxx7/8m-community/pkg/security"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// NewDeps builds every dependency of the handlers from the loaded config
func NewDeps(ctx context.Context) (*internal.Deps, error) {
	conn, err := db.New(viper.GetString("database.driver"), viper.GetString("database.dsn"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	tokens, err := security.NewTokens(viper.GetString("jwt.secret"), viper.GetDuration("jwt.ttl"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tokens, %w", err)
	}

	store, err := newStorage(ctx)
	if err != nil {
		return nil, err
	}

	provider := discord.New(discord.Options{
		ClientID:     viper.GetString("discord.client_id"),
		ClientSecret: viper.GetString("discord.client_secret"),
		RedirectURI:  viper.GetString("discord.redirect_uri"),
		AuthURL:      viper.GetString("discord.auth_url"),
		TokenURL:     viper.GetString("discord.token_url"),
		APIURL:       viper.GetString("discord.api_url"),
	})

	d := Wire(conn, tokens, store, provider, internal.Settings{
		CookieSecure:  viper.GetString("app.env") == "production",
		LoginRedirect: viper.GetString("http.login_redirect"),
		MaxUploadSize: viper.GetInt64("upload.max_size"),
	})
	d.Uploads.UniqueNames = viper.GetBool("upload.unique_names")
	if t := viper.GetDuration("discord.timeout"); t > 0 {
		d.Sessions.Timeout = t
	}

	return d, nil
}

func newStorage(ctx context.Context) (storage.Storage, error) {
	switch t := viper.GetString("storage.type"); t {
	case "s3":
		s, err := storage.NewS3(ctx, storage.S3Options{
			Bucket:          viper.GetString("s3.bucket"),
			Region:          viper.GetString("s3.region"),
			AccessKeyID:     viper.GetString("s3.access_key_id"),
			SecretAccessKey: viper.GetString("s3.secret_access_key"),
			Endpoint:        viper.GetString("s3.endpoint"),
			PublicURL:       viper.GetString("s3.public_url"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage, %w", err)
		}

		zap.L().Info("Using S3 storage", zap.String("bucket", viper.GetString("s3.bucket")))
		return s, nil
	case "local":
		s, err := storage.NewLocal(viper.GetString("storage.local_dir"), viper.GetString("storage.public_path"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage, %w", err)
		}

		zap.L().Info("Using local storage", zap.String("dir", s.Dir))
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", t)
	}
}

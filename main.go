package main

import (
	"context"
	"fmt"

	"github.com/sowzaxx7/8m-community/app"
	"github.com/sowzaxx7/8m-community/config"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	// .env is optional
	_ = godotenv.Load()

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	err = app.MakeLogger(viper.GetString("app.env"), viper.GetString("app.log_level"))
	if err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	d, err := app.NewDeps(context.Background())
	if err != nil {
		zap.L().Fatal("Failed to initialize dependencies", zap.Error(err))
	}

	router := app.NewRouter(d, app.RouterOptions{
		Origins:   app.SplitOrigins(viper.GetString("host.cors")),
		RateLimit: viper.GetInt("security.rate_limit"),
	})

	addr := fmt.Sprintf(":%d", viper.GetInt("host.port"))
	zap.L().Info("Server starting", zap.String("addr", addr))

	err = router.Run(addr)
	if err != nil {
		zap.L().Fatal("Server stopped", zap.Error(err))
	}
}

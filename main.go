package main

import (
	"Awardly/config"
	_ "Awardly/config/swagger"
	"Awardly/logging"
	"Awardly/middleware"
	"Awardly/routes"
	"Awardly/services/blob"
	"Awardly/services/ceremony"
	"Awardly/services/identity"
	"Awardly/services/pubsub"
	"Awardly/services/redis"
	"Awardly/services/socket_io"
	"Awardly/utils"
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title Awardly API
// @version 1.0
// @description Gin-Gonic server for live award ceremony voting
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	godotenv.Load()
	config.Load()
	conf := config.ReadConfig()
	logging.BootstrapLogger(conf.LogLevel)

	logging.Log.Info("Setting up server...")

	if conf.Prod {
		gin.SetMode(gin.ReleaseMode)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := setupStore(conf)
	blobs := setupBlobs(ctx, conf)

	hub := pubsub.NewHub[ceremony.LobbyView]()
	opts := []ceremony.Option{
		ceremony.WithBroadcaster(hub),
		ceremony.WithPolicy(ceremony.Policy{PublicFriendJoin: conf.PublicFriendJoin}),
	}

	if conf.RedisConfig.URL != "" {
		redisClient, err := config.Connect_redis(conf.RedisConfig)
		if err != nil {
			logging.Log.Fatalf("Error connecting to Redis: %v", err)
		}
		logging.Log.Info("Connection to Redis successful")
		defer redis.CloseRedis(redisClient)

		opts = append(opts, ceremony.WithCursorStore(redisClient))
		if conf.Relay {
			relay := pubsub.NewRedisRelay(redisClient.Client(), hub)
			opts = append(opts, ceremony.WithBroadcaster(relay))
			go func() {
				if err := relay.Run(ctx); err != nil && ctx.Err() == nil {
					logging.Log.WithError(err).Error("lobby view relay stopped")
				}
			}()
		}
	}

	svc := ceremony.NewService(repo, blobs, opts...)
	provider := identity.NewJWTProvider(conf.JWTSecret, conf.JWTIssuer)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(utils.Logger())

	middleware.SetUpMiddleware(r, conf.SessionKey, conf.UseHTTPS)

	routes.SetupRoutes(r, svc, provider)
	if memBlobs, ok := blobs.(*blob.MemoryStore); ok {
		routes.SetupBlobRoutes(r, memBlobs)
	}

	sio := socket_io.NewSocketServer()
	sio.Start(r, svc, hub, conf.SocketDebug)

	logging.Log.Infof("Server starting on port %s", conf.Port)
	if conf.UseHTTPS {
		//SSL certification configuration for HTTPS
		if err := r.RunTLS(":"+conf.Port, conf.TLSCertFile, conf.TLSKeyFile); err != nil {
			logging.Log.Fatalf("Error starting server: %v", err)
		}
	} else {
		if err := r.Run(":" + conf.Port); err != nil {
			logging.Log.Fatalf("Error starting server: %v", err)
		}
	}
}

package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	pkg "git.solsynth.dev/hypernet/chat/pkg/internal"
	"git.solsynth.dev/hypernet/chat/pkg/internal/cache"
	"git.solsynth.dev/hypernet/chat/pkg/internal/database"
	"git.solsynth.dev/hypernet/chat/pkg/internal/server"
	"git.solsynth.dev/hypernet/chat/pkg/internal/services"
	"git.solsynth.dev/hypernet/chat/pkg/internal/storage"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Load .env when present, real environment wins
	_ = godotenv.Load()

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("CHAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("bind", "0.0.0.0:8444")
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("cache.ttl", "10m")
	viper.SetDefault("storage.url_ttl", "1h")
	viper.SetDefault("uploads.ttl", "1h")
	viper.SetDefault("cleanup.retention", "24h")
	viper.SetDefault("cleanup.schedule", "@every 60m")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Connect to database
	if err := database.NewSource(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Initialize cache
	if err := cache.NewCache(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Connect to storage
	if err := storage.NewBucket(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connecting to storage.")
	}

	// Server
	server.NewServer()
	go server.Listen()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	if _, err := quartz.AddFunc(viper.GetString("cleanup.schedule"), services.DoAutoDatabaseCleanup); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when scheduling database cleanup.")
	}
	quartz.Start()

	// Messages
	log.Info().Msgf("Chat v%s is started...", pkg.AppVersion)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msgf("Chat v%s is quitting...", pkg.AppVersion)

	quartz.Stop()
}

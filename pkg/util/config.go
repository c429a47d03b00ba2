package util

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lintang-b-s/gridnav/pkg"
	"github.com/spf13/viper"
)

func ReadConfig() error {
	// .env is optional, real environment variables win over it
	_ = godotenv.Load()

	SetConfigDefaults()

	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

func SetConfigDefaults() {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("WEBSOCKET_PORT", 6666)
	viper.SetDefault("PROXY_PORT", 6767)
	viper.SetDefault("API_TIMEOUT", "60s")

	viper.SetDefault("HTTP_SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_IDLE_TIMEOUT", "120s")
	viper.SetDefault("HTTP_SERVER_READ_HEADER_TIMEOUT", "5s")

	viper.SetDefault("GRID_WIDTH", pkg.DEFAULT_WIDTH)
	viper.SetDefault("GRID_HEIGHT", pkg.DEFAULT_HEIGHT)
	viper.SetDefault("CELL_SIZE", pkg.DEFAULT_CELL_SIZE)
	viper.SetDefault("GRID_FILE", "")

	viper.SetDefault("MAX_BOARDS", 256)
	viper.SetDefault("RESULT_CACHE_SIZE", 1024)
	viper.SetDefault("STEP_DELAY", pkg.DEFAULT_STEP_MS*time.Millisecond)

	viper.SetDefault("RATE_LIMIT_RPS", 50)
	viper.SetDefault("RATE_LIMIT_BURST", 100)
	viper.SetDefault("WS_POOL_SIZE", 16)

	viper.SetDefault("LOG_LEVEL", "info")
}

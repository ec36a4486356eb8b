// /internal/config/config.go
package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"emperror.dev/errors"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultLogFile is used until the configuration is known.
const DefaultLogFile = "bot.log"

// ErrMissingToken is returned by Load when DISCORD_TOKEN is unset or empty.
var ErrMissingToken = errors.NewPlain("no Discord token found in environment variables")

// Config holds everything the bot reads from the environment.
type Config struct {
	DiscordToken  string `env:"DISCORD_TOKEN"`
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"!"`

	FFmpegPath string `env:"FFMPEG_PATH"`
	YTDLPPath  string `env:"YTDLP_PATH" envDefault:"yt-dlp"`

	StoragePath string `env:"STORAGE_PATH" envDefault:"datastore.json"`

	LogFile  string `env:"LOG_FILE" envDefault:"bot.log"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env files (if any) and then the process environment.
// A missing .env is not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if strings.TrimSpace(cfg.DiscordToken) == "" {
		return nil, errors.WithStack(ErrMissingToken)
	}
	return cfg, nil
}

// ApplyFFmpegPath makes the configured ffmpeg executable the one found on
// PATH. The audio encoder always execs "ffmpeg" by name.
func (c *Config) ApplyFFmpegPath() error {
	if c.FFmpegPath == "" {
		return nil
	}
	dir := c.FFmpegPath
	if fi, err := os.Stat(dir); err == nil && !fi.IsDir() {
		dir = filepath.Dir(dir)
	}
	path := dir + string(os.PathListSeparator) + os.Getenv("PATH")
	return errors.Wrap(os.Setenv("PATH", path), "set PATH")
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

var ErrUnknownStorage = errors.New("unknown storage")

type Config struct {
	LogLevel        string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort        string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort      string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Storage         string        `yaml:"storage" env:"STORAGE" env-default:"memory"`
	RoundResetDelay time.Duration `yaml:"round-reset-delay" env:"ROUND_RESET_DELAY" env-default:"1500ms"`
	Redis           Redis         `yaml:"redis"`
	Rules           Rules         `yaml:"rules"`
}

type Redis struct {
	Host       string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port       string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"REDIS_SESSION_TTL" env-default:"24h"`
}

// Rules has no env-default tags: cleanenv applies defaults to zero fields,
// which would overwrite an explicit "draw-points: 0". Defaults are preset in Load.
type Rules struct {
	BoardSize    int `yaml:"board-size" env:"RULES_BOARD_SIZE"`
	WinPoints    int `yaml:"win-points" env:"RULES_WIN_POINTS"`
	DrawPoints   int `yaml:"draw-points" env:"RULES_DRAW_POINTS"`
	SeriesTarget int `yaml:"series-target" env:"RULES_SERIES_TARGET"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load reads the yaml file at path with env overrides. A missing file falls
// back to the environment and defaults.
func Load(path string) (*Config, error) {
	defaults := entity.DefaultRules()
	config := &Config{
		Rules: Rules{
			BoardSize:    defaults.BoardSize,
			WinPoints:    defaults.WinPoints,
			DrawPoints:   defaults.DrawPoints,
			SeriesTarget: defaults.SeriesTarget,
		},
	}

	var err error
	if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
		err = cleanenv.ReadEnv(config)
	} else {
		err = cleanenv.ReadConfig(path, config)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if config.Storage != StorageMemory && config.Storage != StorageRedis {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStorage, config.Storage)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Rules) ToEntity() entity.Rules {
	return entity.Rules{
		BoardSize:    that.BoardSize,
		WinPoints:    that.WinPoints,
		DrawPoints:   that.DrawPoints,
		SeriesTarget: that.SeriesTarget,
	}
}

package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Veraticus/creditbook/internal/common"
	"github.com/spf13/viper"
)

// Registry backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// OTP delivery channels.
const (
	ChannelLog      = "log"
	ChannelTelegram = "telegram"
)

// Settings is the resolved application configuration.
type Settings struct {
	DatabasePath    string
	RegistryBackend string
	RedisAddr       string
	RedisPassword   string
	OTPChannel      string
	TelegramToken   string
	APIAddr         string
	JWTSecret       string
	Currency        string
	CertDir         string
	TLSHosts        []string
	OTPTTL          time.Duration
	TokenTTL        time.Duration
	TelegramChatID  int64
	RedisDB         int
	OTPMaxAttempts  int
	BcryptCost      int
	Persist         bool
	OTPEnabled      bool
	TLS             bool
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(DataDir(), "credit.db"))
	v.SetDefault("ledger.persist", true)
	v.SetDefault("registry.backend", BackendSQLite)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.otp_enabled", false)
	v.SetDefault("auth.otp_ttl", 5*time.Minute)
	v.SetDefault("auth.otp_max_attempts", 5)
	v.SetDefault("auth.otp_channel", ChannelLog)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("api.addr", ":8080")
	v.SetDefault("api.token_ttl", 12*time.Hour)
	v.SetDefault("api.tls", false)
	v.SetDefault("api.cert_dir", filepath.Join(DataDir(), "certs"))
	v.SetDefault("receipt.currency", "LKR")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads and validates Settings from v.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		DatabasePath:    ExpandPath(v.GetString("database.path")),
		Persist:         v.GetBool("ledger.persist"),
		RegistryBackend: v.GetString("registry.backend"),
		RedisAddr:       v.GetString("redis.addr"),
		RedisPassword:   v.GetString("redis.password"),
		RedisDB:         v.GetInt("redis.db"),
		OTPEnabled:      v.GetBool("auth.otp_enabled"),
		OTPTTL:          v.GetDuration("auth.otp_ttl"),
		OTPMaxAttempts:  v.GetInt("auth.otp_max_attempts"),
		OTPChannel:      v.GetString("auth.otp_channel"),
		BcryptCost:      v.GetInt("auth.bcrypt_cost"),
		TelegramToken:   v.GetString("telegram.token"),
		TelegramChatID:  v.GetInt64("telegram.chat_id"),
		APIAddr:         v.GetString("api.addr"),
		JWTSecret:       v.GetString("api.jwt_secret"),
		TokenTTL:        v.GetDuration("api.token_ttl"),
		TLS:             v.GetBool("api.tls"),
		CertDir:         ExpandPath(v.GetString("api.cert_dir")),
		TLSHosts:        v.GetStringSlice("api.tls_hosts"),
		Currency:        v.GetString("receipt.currency"),
	}

	if s.DatabasePath == "" {
		return Settings{}, fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	switch s.RegistryBackend {
	case BackendSQLite, BackendRedis:
	default:
		return Settings{}, fmt.Errorf("%w: registry.backend %q (want sqlite or redis)", common.ErrInvalidConfig, s.RegistryBackend)
	}
	switch s.OTPChannel {
	case ChannelLog, ChannelTelegram:
	default:
		return Settings{}, fmt.Errorf("%w: auth.otp_channel %q (want log or telegram)", common.ErrInvalidConfig, s.OTPChannel)
	}
	if s.OTPMaxAttempts < 1 {
		return Settings{}, fmt.Errorf("%w: auth.otp_max_attempts must be at least 1", common.ErrInvalidConfig)
	}
	if s.OTPTTL <= 0 {
		return Settings{}, fmt.Errorf("%w: auth.otp_ttl must be positive", common.ErrInvalidConfig)
	}
	return s, nil
}

package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Public holds settings that are safe to expose to clients and tests.
// Intervals are plain seconds in the yaml.
type Public struct {
	JwtTTLHours         int      `yaml:"jwt_ttl_hours"`
	OtpTTLSeconds       int      `yaml:"otp_ttl_seconds"`        // how long an issued OTP stays valid
	OtpMaxAttempts      int      `yaml:"otp_max_attempts"`       // failed verifications before lockout
	OtpSweepIntervalSec int      `yaml:"otp_sweep_interval_sec"` // background cleanup cadence
	BoardQuorum         int      `yaml:"board_quorum"`           // distinct approvals to verify a board candidate
	MessagesPerPage     int      `yaml:"messages_per_page"`      // inbox pagination
	LogLevel            string   `yaml:"log_level"`
	LogJSON             bool     `yaml:"log_json"`
	SecureCookies       bool     `yaml:"secure_cookies"`
	AllowedOrigins      []string `yaml:"allowed_origins"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
	Pg     Pg     `yaml:"pg"`
	Email  Email  `yaml:"email"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"` // seconds
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return time.Duration(c.Public.JwtTTLHours) * time.Hour
}

func (c *Config) OtpTTL() time.Duration {
	return time.Duration(c.Public.OtpTTLSeconds) * time.Second
}

func (c *Config) OtpSweepInterval() time.Duration {
	return time.Duration(c.Public.OtpSweepIntervalSec) * time.Second
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in the values an operator most often leaves out.
func (c *Config) applyDefaults() {
	if c.Public.JwtTTLHours == 0 {
		c.Public.JwtTTLHours = 24
	}
	if c.Public.OtpTTLSeconds == 0 {
		c.Public.OtpTTLSeconds = 180
	}
	if c.Public.OtpMaxAttempts == 0 {
		c.Public.OtpMaxAttempts = 3
	}
	if c.Public.OtpSweepIntervalSec == 0 {
		c.Public.OtpSweepIntervalSec = 60
	}
	if c.Public.BoardQuorum == 0 {
		c.Public.BoardQuorum = 4
	}
	if c.Public.MessagesPerPage == 0 {
		c.Public.MessagesPerPage = 10
	}
}

/* Copyright 2025 Habitboard Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"encoding/hex"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/habitboard/habitboard/pkg/server/assets"
	"github.com/habitboard/habitboard/pkg/server/mailer"
	"github.com/habitboard/habitboard/pkg/server/stats"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"gopkg.in/yaml.v2"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// DefaultDBDir is the default directory name for Habitboard data
	DefaultDBDir = "habitboard"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
	// DefaultEpoch is the first day counted in the statistics unless configured
	DefaultEpoch = "2024-04-01"
)

var (
	// DefaultDBPath is the default path to the database file
	DefaultDBPath = filepath.Join(dataHome(), DefaultDBDir, DefaultDBFilename)
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrWebURLInvalid is an error for an incomplete configuration with invalid web url
	ErrWebURLInvalid = errors.New("Invalid WebURL")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrEpochInvalid is an error for a malformed epoch date
	ErrEpochInvalid = errors.New("Invalid EPOCH_DATE")
	// ErrCSRFKeyInvalid is an error for a CSRF key that is not 32 hex-encoded bytes
	ErrCSRFKeyInvalid = errors.New("Invalid CSRF_KEY: expected 64 hex characters")
	// ErrScheduleInvalid is an error for a malformed reminder schedule
	ErrScheduleInvalid = errors.New("Invalid REMINDER_SCHEDULE")
	// ErrStreakModeInvalid is an error for an unknown streak mode
	ErrStreakModeInvalid = errors.New("Invalid STREAK_MODE: expected current or historical")
	// ErrSMTPPortInvalid is an error for a non numeric SMTP port
	ErrSMTPPortInvalid = errors.New("Invalid SmtpPort")
	// ErrNoIdentityProvider is an error for a configuration that cannot verify sign-ins
	ErrNoIdentityProvider = errors.New("Neither GOOGLE_CLIENT_ID nor DEV_AUTH_SECRET is set")
	// ErrTrustedProxyInvalid is an error for an invalid TRUSTED_PROXY entry
	ErrTrustedProxyInvalid = errors.New("Invalid TRUSTED_PROXY: expected IP addresses or CIDR ranges")
	// ErrDevAuthInProduction is an error for development sign-in enabled in production
	ErrDevAuthInProduction = errors.New("DEV_AUTH_SECRET cannot be the only identity provider in production")
)

func dataHome() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".local", "share")
}

// getOrEnv returns the first non-empty of value, the env var, the file value and the default
func getOrEnv(value, envKey, fileVal, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	if fileVal != "" {
		return fileVal
	}
	return defaultVal
}

// File is the content of the optional YAML configuration file
type File struct {
	AppEnv           string   `yaml:"app_env"`
	Port             string   `yaml:"port"`
	WebURL           string   `yaml:"web_url"`
	DBPath           string   `yaml:"db_path"`
	LogLevel         string   `yaml:"log_level"`
	GoogleClientID   string   `yaml:"google_client_id"`
	DevAuthSecret    string   `yaml:"dev_auth_secret"`
	AdminEmails      []string `yaml:"admin_emails"`
	EpochDate        string   `yaml:"epoch_date"`
	CSRFKey          string   `yaml:"csrf_key"`
	ReminderSchedule string   `yaml:"reminder_schedule"`
	StreakMode       string   `yaml:"streak_mode"`
	TrustedProxy     []string `yaml:"trusted_proxy"`
	SMTP             SMTPFile `yaml:"smtp"`
}

// SMTPFile is the smtp section of the configuration file
type SMTPFile struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// ReadFile reads the YAML configuration file at the given path. An empty
// path yields an empty file.
func ReadFile(path string) (File, error) {
	var f File
	if path == "" {
		return f, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return f, errors.Wrapf(err, "reading config file %s", path)
	}
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return f, errors.Wrapf(err, "parsing config file %s", path)
	}

	return f, nil
}

// LoadDotEnv loads the variables of the given .env files into the
// environment without overriding the ones already set. Missing files are
// ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "loading %s", p)
		}
	}

	return nil
}

// Config is an application configuration
type Config struct {
	AppEnv           string
	WebURL           string
	Port             string
	DBPath           string
	HTTP500Page      []byte
	LogLevel         string
	GoogleClientID   string
	DevAuthSecret    string
	AdminEmails      []string
	Epoch            time.Time
	CSRFKey          []byte
	ReminderSchedule string
	StreakMode       stats.StreakMode
	// TrustedProxies are the reverse proxies allowed to set X-Forwarded-For
	TrustedProxies []*net.IPNet
	// SMTP is the mail server. Emails are only logged without a host.
	SMTP mailer.SMTPConfig
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv           string
	Port             string
	WebURL           string
	DBPath           string
	LogLevel         string
	GoogleClientID   string
	DevAuthSecret    string
	AdminEmails      string
	EpochDate        string
	CSRFKey          string
	ReminderSchedule string
	StreakMode       string
	TrustedProxy     string
	SMTPHost         string
	SMTPPort         string
	SMTPUsername     string
	SMTPPassword     string
	// File holds the values read from the configuration file
	File File
}

func splitList(s string) []string {
	ret := []string{}
	for _, item := range strings.Split(s, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			ret = append(ret, item)
		}
	}

	return ret
}

// parseTrustedProxies parses a comma separated list of IP addresses and
// CIDR ranges
func parseTrustedProxies(s string) ([]*net.IPNet, error) {
	var ret []*net.IPNet

	for _, item := range splitList(s) {
		if strings.Contains(item, "/") {
			_, n, err := net.ParseCIDR(item)
			if err != nil {
				return nil, errors.Wrapf(ErrTrustedProxyInvalid, "'%s'", item)
			}
			ret = append(ret, n)
			continue
		}

		ip := net.ParseIP(item)
		if ip == nil {
			return nil, errors.Wrapf(ErrTrustedProxyInvalid, "'%s'", item)
		}
		bits := 8 * net.IPv6len
		if v4 := ip.To4(); v4 != nil {
			ip, bits = v4, 8*net.IPv4len
		}
		ret = append(ret, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}

	return ret, nil
}

func parseStreakMode(s string) (stats.StreakMode, error) {
	switch strings.ToLower(s) {
	case "", "current":
		return stats.StreakCurrentSet, nil
	case "historical":
		return stats.StreakHistorical, nil
	}

	return 0, errors.Wrapf(ErrStreakModeInvalid, "'%s'", s)
}

// New constructs and returns a new validated config.
// Empty params fall back to environment variables, the file and defaults.
func New(p Params) (Config, error) {
	f := p.File

	c := Config{
		AppEnv:           getOrEnv(p.AppEnv, "APP_ENV", f.AppEnv, AppEnvProduction),
		Port:             getOrEnv(p.Port, "PORT", f.Port, "3001"),
		WebURL:           getOrEnv(p.WebURL, "WebURL", f.WebURL, "http://localhost:3001"),
		DBPath:           DBPathOf(p),
		LogLevel:         LogLevelOf(p),
		GoogleClientID:   getOrEnv(p.GoogleClientID, "GOOGLE_CLIENT_ID", f.GoogleClientID, ""),
		DevAuthSecret:    getOrEnv(p.DevAuthSecret, "DEV_AUTH_SECRET", f.DevAuthSecret, ""),
		AdminEmails:      splitList(getOrEnv(p.AdminEmails, "ADMIN_EMAILS", strings.Join(f.AdminEmails, ","), "")),
		ReminderSchedule: getOrEnv(p.ReminderSchedule, "REMINDER_SCHEDULE", f.ReminderSchedule, ""),
		HTTP500Page:      assets.MustGetHTTP500ErrorPage(),
	}

	epoch, err := stats.ParseDay(getOrEnv(p.EpochDate, "EPOCH_DATE", f.EpochDate, DefaultEpoch))
	if err != nil {
		return Config{}, errors.Wrap(ErrEpochInvalid, err.Error())
	}
	c.Epoch = epoch

	if key := getOrEnv(p.CSRFKey, "CSRF_KEY", f.CSRFKey, ""); key != "" {
		b, err := hex.DecodeString(key)
		if err != nil || len(b) != 32 {
			return Config{}, ErrCSRFKeyInvalid
		}
		c.CSRFKey = b
	}

	smtp, err := smtpOf(p)
	if err != nil {
		return Config{}, err
	}
	c.SMTP = smtp

	proxies, err := parseTrustedProxies(getOrEnv(p.TrustedProxy, "TRUSTED_PROXY", strings.Join(f.TrustedProxy, ","), ""))
	if err != nil {
		return Config{}, err
	}
	c.TrustedProxies = proxies

	mode, err := parseStreakMode(getOrEnv(p.StreakMode, "STREAK_MODE", f.StreakMode, ""))
	if err != nil {
		return Config{}, err
	}
	c.StreakMode = mode

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

func smtpOf(p Params) (mailer.SMTPConfig, error) {
	f := p.File.SMTP

	c := mailer.SMTPConfig{
		Host:     getOrEnv(p.SMTPHost, "SmtpHost", f.Host, ""),
		Username: getOrEnv(p.SMTPUsername, "SmtpUsername", f.Username, ""),
		Password: getOrEnv(p.SMTPPassword, "SmtpPassword", f.Password, ""),
	}

	port := getOrEnv(p.SMTPPort, "SmtpPort", f.Port, "587")
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 {
		return mailer.SMTPConfig{}, errors.Wrapf(ErrSMTPPortInvalid, "'%s'", port)
	}
	c.Port = n

	return c, nil
}

// DBPathOf resolves the database path alone. The maintenance commands use
// it without requiring a full server configuration.
func DBPathOf(p Params) string {
	return getOrEnv(p.DBPath, "DBPath", p.File.DBPath, DefaultDBPath)
}

// LogLevelOf resolves the log level alone
func LogLevelOf(p Params) string {
	return getOrEnv(p.LogLevel, "LOG_LEVEL", p.File.LogLevel, "info")
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

// IsSecure reports whether the server is reached over HTTPS
func (c Config) IsSecure() bool {
	return strings.HasPrefix(c.WebURL, "https://")
}

func validate(c Config) error {
	if _, err := url.ParseRequestURI(c.WebURL); err != nil {
		return errors.Wrapf(ErrWebURLInvalid, "'%s'", c.WebURL)
	}
	if c.Port == "" {
		return ErrPortInvalid
	}

	if c.DBPath == "" {
		return ErrDBMissingPath
	}

	if c.GoogleClientID == "" {
		if c.DevAuthSecret == "" {
			return ErrNoIdentityProvider
		}
		if c.IsProd() {
			return ErrDevAuthInProduction
		}
	}

	if c.ReminderSchedule != "" {
		if _, err := cron.Parse(c.ReminderSchedule); err != nil {
			return errors.Wrapf(ErrScheduleInvalid, "'%s': %s", c.ReminderSchedule, err.Error())
		}
	}

	return nil
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	driverName = "mysql"
	envPrefix  = "GEOFENCE"

	// DefaultConfigPath は GEOFENCE_CONFIG 未指定時の設定ファイル
	DefaultConfigPath = "config/config.yaml"

	ModeDev     = "dev"
	ModeRelease = "release"
)

var ErrInvalidConfig = errors.New("invalid config")

type DatabaseConfig struct {
	Host     string `yaml:"host" envconfig:"host"`
	Port     int    `yaml:"port" envconfig:"port"`
	Username string `yaml:"user" envconfig:"user"`
	Password string `yaml:"password" envconfig:"password"`
	DBName   string `yaml:"dbname" envconfig:"dbname"`
}

type Certs struct {
	Cert string `yaml:"cert" envconfig:"cert"`
	Key  string `yaml:"key" envconfig:"key"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret" envconfig:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl" envconfig:"token_ttl"`
	AdminID       string        `yaml:"admin_id" envconfig:"admin_id"`
	AdminPassword string        `yaml:"admin_password" envconfig:"admin_password"`
}

// ZoneConfig は office_zone が空のときに投入する初期値
type ZoneConfig struct {
	DefaultLat     float64 `yaml:"default_lat" envconfig:"default_lat"`
	DefaultLng     float64 `yaml:"default_lng" envconfig:"default_lng"`
	DefaultRadiusM float64 `yaml:"default_radius_m" envconfig:"default_radius_m"`
}

type AttendanceConfig struct {
	ListLimit int `yaml:"list_limit" envconfig:"list_limit"`
}

type Config struct {
	Version     string           `yaml:"version" envconfig:"version"`
	Mode        string           `yaml:"mode" envconfig:"mode"`
	Addr        string           `yaml:"addr" envconfig:"addr"`
	DB          DatabaseConfig   `yaml:"database" envconfig:"db"`
	Certificate Certs            `yaml:"certificate" envconfig:"cert"`
	Auth        AuthConfig       `yaml:"auth" envconfig:"auth"`
	Zone        ZoneConfig       `yaml:"zone" envconfig:"zone"`
	Attendance  AttendanceConfig `yaml:"attendance" envconfig:"attendance"`
}

// Defaults は設定ファイルに書かれなかった項目の既定値
func Defaults() Config {
	return Config{
		Mode: ModeDev,
		Addr: ":8443",
		DB: DatabaseConfig{
			Host:   "127.0.0.1",
			Port:   3306,
			DBName: "geofence",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
			AdminID:  "admin",
		},
		Zone: ZoneConfig{
			DefaultLat:     18.465364,
			DefaultLng:     83.661536,
			DefaultRadiusM: 200,
		},
		Attendance: AttendanceConfig{ListLimit: 200},
	}
}

// LoadConfig: 既定値 → YAML → 環境変数(GEOFENCE_*) の順に上書きする。
// path のファイルが存在しない場合は既定値＋環境変数のみで続行する。
func LoadConfig(path string) (*Config, error) {
	cfg := Defaults()

	buf, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return nil, fmt.Errorf("設定ファイルのパース失敗: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// 環境変数だけで動かす場合
	default:
		return nil, fmt.Errorf("設定ファイルの読み込み失敗: %w", err)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("環境変数の読み込み失敗: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Mode != ModeDev && c.Mode != ModeRelease {
		return fmt.Errorf("%w: mode must be %q or %q, got %q", ErrInvalidConfig, ModeDev, ModeRelease, c.Mode)
	}
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.Mode == ModeRelease && c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required in release mode", ErrInvalidConfig)
	}
	if c.Attendance.ListLimit <= 0 {
		return fmt.Errorf("%w: attendance.list_limit must be > 0", ErrInvalidConfig)
	}
	if c.Zone.DefaultLat < -90 || c.Zone.DefaultLat > 90 ||
		c.Zone.DefaultLng < -180 || c.Zone.DefaultLng > 180 ||
		c.Zone.DefaultRadiusM < 0 {
		return fmt.Errorf("%w: zone defaults out of range", ErrInvalidConfig)
	}
	return nil
}

// TLSEnabled は証明書が設定されているか
func (c *Config) TLSEnabled() bool {
	return c.Certificate.Cert != "" && c.Certificate.Key != ""
}

func DSN(c DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC",
		c.Username, c.Password, c.Host, c.Port, c.DBName)
}

func Connect(ctx context.Context, c DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(driverName, DSN(c))
	if err != nil {
		return nil, fmt.Errorf("接続準備に失敗: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("DB接続に失敗: %w", err)
	}

	// チェックインはバースト的に来るので少し多めに持つ
	db.SetMaxOpenConns(40)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

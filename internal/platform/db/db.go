package db

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

const driverName = "mysql"

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

// DocumentConfig points at the challan template images and the TTF used
// for drawing text. The font must cover Gujarati glyphs when locale is "gu".
type DocumentConfig struct {
	IssueTemplate  string `yaml:"issue_template"`
	ReturnTemplate string `yaml:"return_template"`
	FontFile       string `yaml:"font_file"`
}

type Config struct {
	Version       string         `yaml:"version"`
	Mode          string         `yaml:"mode"`
	Listen        string         `yaml:"listen"`
	LogLevel      string         `yaml:"log_level"`
	JWTSecret     string         `yaml:"jwt_secret"`
	RedisAddr     string         `yaml:"redis_addr"`
	DefaultLocale string         `yaml:"default_locale"`
	DB            DatabaseConfig `yaml:"database"`
	Certificate   Certs          `yaml:"certificate"`
	Documents     DocumentConfig `yaml:"documents"`
}

func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Listen == "" {
		cfg.Listen = ":8443"
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "gu"
	}
	return &cfg, nil
}

func Connect(c DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC",
		c.Username, c.Password, c.Host, c.Port, c.DBName)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	// keep the pool well under MySQL max_connections
	db.SetMaxOpenConns(80)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

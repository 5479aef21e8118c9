package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 애플리케이션 전역 설정
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Cron      CronConfig      `mapstructure:"cron"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Club      ClubConfig      `mapstructure:"club"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	BaseURL      string     `mapstructure:"base_url"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig 교차 출처 설정
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig 데이터베이스 설정
// driver: postgres | sqlite | mysql
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	DSN             string `mapstructure:"dsn"` // sqlite 파일 경로 또는 완성된 DSN
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 분
}

// PostgresDSN PostgreSQL 연결 문자열 생성
func (c *DatabaseConfig) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// MySQLDSN MySQL 연결 문자열 생성
func (c *DatabaseConfig) MySQLDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	port := c.Port
	if port == 0 || port == 5432 {
		port = 3306
	}
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, port, c.Name,
	)
}

// RedisConfig Redis 설정
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 인증 설정
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// CronConfig 외부 스케줄러 호출 설정
type CronConfig struct {
	Secret string `mapstructure:"secret"` // 비어 있으면 cron 엔드포인트 비활성화
}

// SchedulerConfig 프로세스 내 주기 작업 설정
type SchedulerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// ClubConfig 구단 운영 설정
type ClubConfig struct {
	Name        string `mapstructure:"name"`
	Timezone    string `mapstructure:"timezone"`
	RankingSize int    `mapstructure:"ranking_size"`
}

// Location 구단 기준 시간대를 반환한다. 잘못된 값이면 UTC.
func (c *ClubConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LogConfig 로그 설정
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 설정 파일과 환경 변수에서 설정을 읽는다
// 우선순위: 환경 변수 > 설정 파일 > 기본값
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 기본값 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "teamhub")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Seoul")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "") // 환경 변수로만 받는 값도 Unmarshal 대상이 되도록 등록
	v.SetDefault("auth.access_token_ttl", "30m")
	v.SetDefault("auth.refresh_token_ttl", "336h")

	v.SetDefault("cron.secret", "")

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.interval", "5m")

	v.SetDefault("club.name", "teamhub")
	v.SetDefault("club.timezone", "Asia/Seoul")
	v.SetDefault("club.ranking_size", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 설정 파일 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 환경 변수 ──
	v.SetEnvPrefix("TEAMHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("설정 파일 읽기 실패: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("설정 파싱 실패: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 핵심 설정값 검증
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("설정 검증 실패: auth.jwt_secret 은 비어 있을 수 없습니다")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("설정 검증 실패: auth.jwt_secret 은 16자 이상이어야 합니다")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("설정 검증 실패: server.port 는 1-65535 범위여야 합니다")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite", "mysql":
	default:
		return fmt.Errorf("설정 검증 실패: 지원하지 않는 db.driver %q", c.Database.Driver)
	}
	if _, err := time.LoadLocation(c.Club.Timezone); err != nil {
		return fmt.Errorf("설정 검증 실패: club.timezone %q: %w", c.Club.Timezone, err)
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval < time.Minute {
		return fmt.Errorf("설정 검증 실패: scheduler.interval 은 1분 이상이어야 합니다")
	}
	return nil
}

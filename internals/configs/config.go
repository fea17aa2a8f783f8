package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret string
	Settings  AppSettings
)

// AppSettings memuat kebijakan bisnis yang dibaca dari ENV.
type AppSettings struct {
	Timezone *time.Location

	// Geofence: true = check-in di luar radius ditolak, false = hanya dicatat (advisory)
	GeofenceEnforce bool
	// Checkout: true = daftar penjualan harian dikosongkan saat check-out
	CheckoutClearsSales bool

	SalesPollInterval  time.Duration
	LocationTimeout    time.Duration
	SessionIdleTimeout time.Duration

	TelegramBotToken    string
	TelegramAdminChatID int64
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RENDER") == "" && os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("[WARN] .env not found, using system ENV")
		} else {
			log.Println("[INFO] .env loaded")
		}
	} else {
		log.Println("[INFO] Running in managed environment, using system ENV")
	}

	JWTSecret = strings.TrimSpace(GetEnv("JWT_SECRET"))
	if JWTSecret == "" {
		log.Println("[ERROR] JWT_SECRET is not set!")
	}

	Settings = LoadSettings()
	log.Printf("[INFO] geofence_enforce=%t checkout_clears_sales=%t timezone=%s poll=%s",
		Settings.GeofenceEnforce, Settings.CheckoutClearsSales, Settings.Timezone, Settings.SalesPollInterval)
}

// LoadSettings membaca AppSettings dari ENV dengan default yang aman.
func LoadSettings() AppSettings {
	loc, err := time.LoadLocation(GetEnv("APP_TIMEZONE", "Africa/Lagos"))
	if err != nil {
		log.Printf("[WARN] invalid APP_TIMEZONE (%v), falling back to UTC", err)
		loc = time.UTC
	}

	chatID, _ := strconv.ParseInt(strings.TrimSpace(GetEnv("TELEGRAM_ADMIN_CHAT_ID")), 10, 64)

	return AppSettings{
		Timezone:            loc,
		GeofenceEnforce:     GetEnvBool("GEOFENCE_ENFORCE", false),
		CheckoutClearsSales: GetEnvBool("CHECKOUT_CLEARS_SALES", false),
		SalesPollInterval:   GetEnvDuration("SALES_POLL_INTERVAL", 60*time.Second),
		LocationTimeout:     GetEnvDuration("LOCATION_TIMEOUT", 10*time.Second),
		SessionIdleTimeout:  GetEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		TelegramBotToken:    strings.TrimSpace(GetEnv("TELEGRAM_BOT_TOKEN")),
		TelegramAdminChatID: chatID,
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not a bool, using %t", key, v, def)
		return def
	}
	return b
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[WARN] %s=%q is not a duration, using %s", key, v, def)
		return def
	}
	return d
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if GetEnvBool("DB_LOG_QUERIES", false) {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}

package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App         AppConfig
	DB          DBConfig
	Store       StoreConfig
	JWT         JWTConfig
	HTTP        HTTPConfig
	Log         LogConfig
	Booking     BookingConfig
	Console     ConsoleConfig
	Guest       GuestConfig
	Maintenance MaintenanceConfig
	Seed        SeedConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// StoreConfig elige el adaptador de persistencia: "postgres" (por defecto) o "memory".
type StoreConfig struct {
	Driver string
}

// JWTConfig configuración de los tokens de sesión.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig nivel del logger (trace, debug, info, warn, error).
type LogConfig struct {
	Level string
}

// BookingConfig parámetros del flujo de reserva.
type BookingConfig struct {
	TaxRate            decimal.Decimal // 0.12
	MaxAttachmentBytes int64           // límite del comprobante de transferencia
}

// ConsoleConfig parámetros de la consola de administración.
type ConsoleConfig struct {
	LoadRetries   int           // reintentos adicionales de la carga masiva
	LoadBackoff   time.Duration // espera fija entre intentos
	NotifyTimeout time.Duration
}

// GuestConfig parámetros de la superficie del huésped.
type GuestConfig struct {
	NotifyTimeout time.Duration
}

// MaintenanceConfig tareas programadas.
type MaintenanceConfig struct {
	// Enabled apagado por defecto: el barrido borra reservas de cualquier identidad sin fila en users,
	// incluidas las de cuentas que nunca la tuvieron.
	Enabled         bool
	OrphanSweepSpec string // expresión cron, ej. "@every 1h"
}

// SeedConfig datos iniciales para cmd/seed.
type SeedConfig struct {
	AdminEmail string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, CONSOLE_LOAD_RETRIES, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	taxRate, err := decimal.NewFromString(getString(v, "BOOKING_TAX_RATE", "0.12"))
	if err != nil {
		return nil, fmt.Errorf("BOOKING_TAX_RATE inválido: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "hotel-api"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "hotel"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Store: StoreConfig{
			Driver: getString(v, "STORE_DRIVER", "postgres"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "hotel-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		Booking: BookingConfig{
			TaxRate:            taxRate,
			MaxAttachmentBytes: int64(getInt(v, "BOOKING_MAX_ATTACHMENT_BYTES", 10*1024*1024)),
		},
		Console: ConsoleConfig{
			LoadRetries:   getInt(v, "CONSOLE_LOAD_RETRIES", 2),
			LoadBackoff:   getDuration(v, "CONSOLE_LOAD_BACKOFF", 2*time.Second),
			NotifyTimeout: getDuration(v, "CONSOLE_NOTIFY_TIMEOUT", 4*time.Second),
		},
		Guest: GuestConfig{
			NotifyTimeout: getDuration(v, "GUEST_NOTIFY_TIMEOUT", 5*time.Second),
		},
		Maintenance: MaintenanceConfig{
			Enabled:         getBool(v, "MAINTENANCE_ENABLED", false),
			OrphanSweepSpec: getString(v, "MAINTENANCE_ORPHAN_SWEEP", "@every 1h"),
		},
		Seed: SeedConfig{
			AdminEmail: getString(v, "SEED_ADMIN_EMAIL", ""),
		},
	}

	if cfg.Console.LoadRetries < 0 {
		return nil, fmt.Errorf("CONSOLE_LOAD_RETRIES no puede ser negativo")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getDuration acepta "2s", "1500ms" o un entero en milisegundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=wallet_system_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultListenAddr = ":8080"
const defaultChannelID = "VubaApp"
const defaultChannelKey = "VubaChannelKey001"
const defaultTransferFee = "20.00"
const defaultOpeningBalance = "5000.00"
const defaultPIN = "123456"

type Config struct {
	DatabaseDSN    string
	MigrationsDir  string
	ListenAddr     string
	ChannelID      string
	ChannelKey     string
	TransferFee    decimal.Decimal
	OpeningBalance decimal.Decimal
	DefaultPIN     string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	conn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if conn == "" {
		conn = defaultConnectionString
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	channelID := strings.TrimSpace(os.Getenv("CHANNEL_ID"))
	if channelID == "" {
		channelID = defaultChannelID
	}

	channelKey := strings.TrimSpace(os.Getenv("CHANNEL_KEY"))
	if channelKey == "" {
		channelKey = defaultChannelKey
	}

	fee, err := decimalFromEnv("TRANSFER_FEE", defaultTransferFee)
	if err != nil {
		return Config{}, err
	}
	if fee.IsNegative() {
		return Config{}, fmt.Errorf("TRANSFER_FEE cannot be negative")
	}

	openingBalance, err := decimalFromEnv("OPENING_BALANCE", defaultOpeningBalance)
	if err != nil {
		return Config{}, err
	}
	if openingBalance.IsNegative() {
		return Config{}, fmt.Errorf("OPENING_BALANCE cannot be negative")
	}

	pin := strings.TrimSpace(os.Getenv("DEFAULT_PIN"))
	if pin == "" {
		pin = defaultPIN
	}

	return Config{
		DatabaseDSN:    normalizeConnectionString(conn),
		MigrationsDir:  filepath.Join("src", "migrations"),
		ListenAddr:     listenAddr,
		ChannelID:      channelID,
		ChannelKey:     channelKey,
		TransferFee:    fee,
		OpeningBalance: openingBalance,
		DefaultPIN:     pin,
	}, nil
}

func decimalFromEnv(key, fallback string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		raw = fallback
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal value: %w", key, err)
	}

	return value, nil
}

func normalizeConnectionString(raw string) string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}

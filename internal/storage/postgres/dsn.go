package postgres

import (
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/medinav-backend/config"
)

// DSN builds a lib/pq key/value connection string. Values containing spaces
// or quotes are single-quoted; an empty SSLMode means "disable".
func DSN(cfg *config.DatabaseConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dsnValue(cfg.Host), cfg.Port, dsnValue(cfg.User), dsnValue(cfg.Password), dsnValue(cfg.Name), dsnValue(sslMode),
	)
}

func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

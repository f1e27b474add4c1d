// Package seed bootstraps a springworks database with sample data.
package seed

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"springworks/internal/database"
)

// DefaultDatasourceFile is checked first when resolving the target database.
const DefaultDatasourceFile = "config/datasource.json"

// Environment variables consulted by ResolveDatasource.
const (
	EnvDatasource  = "SPRINGWORKS_DATASOURCE"
	EnvDBPath      = "SPRINGWORKS_DB_PATH"
	EnvJournalMode = "SPRINGWORKS_DB_JOURNAL_MODE"
	EnvBusyTimeout = "SPRINGWORKS_DB_BUSY_TIMEOUT"
	EnvOwner       = "SPRINGWORKS_DB_OWNER"
)

// ErrNoDatasource is returned when no strategy yields a valid datasource.
var ErrNoDatasource = errors.New("no datasource configured")

// Datasource describes the database the seeder writes to.
type Datasource struct {
	Type          string `json:"type" validate:"required,oneof=sqlite"`
	Path          string `json:"path" validate:"required"`
	JournalMode   string `json:"journal_mode" validate:"required,oneof=WAL DELETE TRUNCATE PERSIST MEMORY OFF"`
	BusyTimeoutMS int    `json:"busy_timeout_ms" validate:"min=0"`
	Owner         string `json:"owner" validate:"required"`
}

// Options converts the datasource into database.Open options.
func (d Datasource) Options() database.Options {
	return database.Options{BusyTimeoutMS: d.BusyTimeoutMS, JournalMode: d.JournalMode}
}

var validate = validator.New()

func (d Datasource) Validate() error {
	return errors.Wrap(validate.Struct(d), "invalid datasource")
}

// LoadDatasourceFile reads and validates a datasource JSON file.
func LoadDatasourceFile(path string) (Datasource, error) {
	var d Datasource
	raw, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return d, errors.Wrapf(err, "parse %s", path)
	}
	d.JournalMode = strings.ToUpper(d.JournalMode)
	return d, d.Validate()
}

// ResolveDatasource tries, in order, the datasource file at file, the file
// named by SPRINGWORKS_DATASOURCE and the discrete SPRINGWORKS_DB_*
// variables. A strategy that is present but invalid is logged and skipped.
// It returns the datasource and the name of the strategy that produced it.
func ResolveDatasource(file string, getenv func(string) string) (Datasource, string, error) {
	if file != "" {
		if _, err := os.Stat(file); err == nil {
			d, err := LoadDatasourceFile(file)
			if err == nil {
				return d, "file", nil
			}
			zap.S().Warnw("datasource file unusable", "file", file, "error", err)
		}
	}

	if path := getenv(EnvDatasource); path != "" {
		d, err := LoadDatasourceFile(path)
		if err == nil {
			return d, "env-file", nil
		}
		zap.S().Warnw("datasource from "+EnvDatasource+" unusable", "file", path, "error", err)
	}

	if path := getenv(EnvDBPath); path != "" {
		busyTimeout, _ := strconv.Atoi(strings.TrimSpace(getenv(EnvBusyTimeout)))
		d := Datasource{
			Type:          "sqlite",
			Path:          path,
			JournalMode:   strings.ToUpper(getenv(EnvJournalMode)),
			BusyTimeoutMS: busyTimeout,
			Owner:         getenv(EnvOwner),
		}
		if d.JournalMode == "" {
			d.JournalMode = "WAL"
		}
		err := d.Validate()
		if err == nil {
			return d, "env", nil
		}
		zap.S().Warnw("datasource from environment unusable", "error", err)
	}

	return Datasource{}, "", ErrNoDatasource
}

package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pattern-edge/internal/config"
)

// Provider names accepted in configuration
const (
	ProviderFootballData = "football-data"
	ProviderCSV          = "csv"
)

// New creates the DataSource implementation named by the configuration
func New(cfg *config.DatasourceConfig, logger *logrus.Logger) (DataSource, error) {
	switch cfg.Provider {
	case ProviderFootballData:
		return NewFootballDataSource(cfg, logger), nil
	case ProviderCSV:
		return NewLocalCSVSource(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown datasource provider: %s", cfg.Provider)
	}
}

package report

import (
	"co-attain/internal/config"
	"co-attain/internal/model"
)

// Exporter is the unified interface for all reporting strategies
type Exporter interface {
	Export(data *model.ReportData, cfg *config.Config) error
}

package models

import "time"

// HistoryItem is one recorded processing run. Only a preview of the first
// transactions is kept; the full result is never read back by the core.
type HistoryItem struct {
	ID          string              `json:"id"`
	FileName    string              `json:"fileName"`
	ProcessedAt time.Time           `json:"processedAt"`
	Summary     Summary             `json:"summary"`
	Preview     []ParsedTransaction `json:"transactionsPreview"`
}

// Preferences are the persisted user panel/column settings.
type Preferences struct {
	ExportFormat         string   `json:"defaultExportFormat" yaml:"default_export_format"`
	ItemsPerPage         int      `json:"itemsPerPage" yaml:"items_per_page"`
	ShowDuplicateWarning bool     `json:"showDuplicateWarning" yaml:"show_duplicate_warning"`
	SelectedColumns      []string `json:"selectedColumns" yaml:"selected_columns"`
}

// DefaultPreferences mirrors the defaults applied when no preferences have
// been stored yet.
func DefaultPreferences() Preferences {
	return Preferences{
		ExportFormat:         "csv",
		ItemsPerPage:         10,
		ShowDuplicateWarning: true,
		SelectedColumns: []string{
			"fecha", "referencia_corriente", "referencia_origen", "canal",
			"ordenante_nombre", "beneficiario_cuenta", "concepto", "importe", "tipo",
		},
	}
}

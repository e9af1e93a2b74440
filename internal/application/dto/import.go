package dto

// ImportSummaryResponse resultado de una importación masiva de histórico.
type ImportSummaryResponse struct {
	Invoices    int `json:"invoices"`
	LedgerRows  int `json:"ledger_rows"`
	Vendors     int `json:"vendors"`
	SkippedRows int `json:"skipped_rows"`
}

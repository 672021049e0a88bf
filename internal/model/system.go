package model

// VersionInfo contains version information for the application and its schema.
type VersionInfo struct {
	AppVersion string `json:"appVersion"`
	DbVersion  int64  `json:"dbVersion"`
	DbDriver   string `json:"dbDriver"`
}

// AuditReport is the result of one integrity audit run.
type AuditReport struct {
	NegativeQuantityInvestments int `json:"negativeQuantityInvestments"`
	NonPositivePriceAssets      int `json:"nonPositivePriceAssets"`
	OrphanInvestments           int `json:"orphanInvestments"`
	NegativeBalanceAccounts     int `json:"negativeBalanceAccounts"`
}

// Clean reports whether the audit found nothing to flag.
// Negative balances are reported but do not make a report unclean, credit cards carry them.
func (r AuditReport) Clean() bool {
	return r.NegativeQuantityInvestments == 0 && r.NonPositivePriceAssets == 0 && r.OrphanInvestments == 0
}

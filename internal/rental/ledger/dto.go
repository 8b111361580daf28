package ledger

import "time"

type ClientInfo struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Mobile   string `json:"mobile"`
}

// ClientLedgerResponse is the full per-client view: live balances,
// challan classification and the merged transaction feed.
type ClientLedgerResponse struct {
	Client           ClientInfo         `json:"client"`
	Balances         map[string]Balance `json:"balances"`
	TotalOutstanding int                `json:"total_outstanding"`
	Active           []ActiveChallan    `json:"active_challans"`
	Completed        []IssueDoc         `json:"completed_challans"`
	Timeline         []Transaction      `json:"timeline"`
}

type BalancesResponse struct {
	Balances map[string]Balance `json:"balances"`
}

type TimelineResponse struct {
	Transactions []Transaction `json:"transactions"`
}

// SummaryResponse backs the dashboard; the counts are fetched in a
// fixed parallel batch.
type SummaryResponse struct {
	Clients      int64 `json:"clients"`
	Challans     int64 `json:"challans"`
	Returns      int64 `json:"returns"`
	Bills        int64 `json:"bills"`
	StockSizes   int64 `json:"stock_sizes"`
	PlatesOnRent int64 `json:"plates_on_rent"`
}

// BackupRow is one line of the per-client per-plate-size export.
type BackupRow struct {
	ClientID         string
	Name             string
	Site             string
	Mobile           string
	TotalOutstanding int
	PlateSize        string
	TotalIssued      int
	TotalReturned    int
	Balance          int
	ActiveCount      int
	CompletedCount   int
	LastActivity     string
}

type clientDocs struct {
	issues []IssueDoc
	rets   []ReturnDoc
}

func lastActivityDate(d clientDocs) string {
	var last time.Time
	for _, doc := range d.issues {
		if doc.Date.After(last) {
			last = doc.Date
		}
	}
	for _, doc := range d.rets {
		if doc.Date.After(last) {
			last = doc.Date
		}
	}
	if last.IsZero() {
		return ""
	}
	return last.Format("2006-01-02")
}

// Package ledger derives the per-client rental position from the raw
// challan and return records. Nothing here is persisted: balances,
// classification and the timeline are recomputed from scratch on every
// query, so the engine is a set of pure functions over the two record
// streams.
package ledger

import (
	"sort"
	"time"
)

type LineItem struct {
	PlateSize string `json:"plate_size"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty"`
}

// IssueDoc is an Udhar challan with its plate lines.
type IssueDoc struct {
	ChallanID int64      `json:"challan_id"`
	Number    string     `json:"number"`
	ClientID  string     `json:"client_id"`
	Date      time.Time  `json:"date"`
	Items     []LineItem `json:"items"`
}

// ReturnDoc is a Jama challan with its plate lines.
type ReturnDoc struct {
	ReturnID int64      `json:"return_id"`
	Number   string     `json:"number"`
	ClientID string     `json:"client_id"`
	Date     time.Time  `json:"date"`
	Items    []LineItem `json:"items"`
}

// Balance is the derived position of one plate size.
type Balance struct {
	TotalBorrowed int `json:"total_borrowed"`
	TotalReturned int `json:"total_returned"`
	// Outstanding may be negative when returns exceed issues; the
	// system records over-returns instead of rejecting them.
	Outstanding int `json:"outstanding"`
}

// Aggregate folds every issue and return line into per-size totals.
// The fold is commutative, so the result does not depend on the order
// records arrive in. Sizes never touched by either stream are absent;
// unknown labels aggregate under their own literal key.
func Aggregate(issues []IssueDoc, rets []ReturnDoc) map[string]Balance {
	out := make(map[string]Balance)
	for _, doc := range issues {
		for _, it := range doc.Items {
			b := out[it.PlateSize]
			b.TotalBorrowed += it.Quantity
			out[it.PlateSize] = b
		}
	}
	for _, doc := range rets {
		for _, it := range doc.Items {
			b := out[it.PlateSize]
			b.TotalReturned += it.Quantity
			out[it.PlateSize] = b
		}
	}
	for size, b := range out {
		if b.TotalBorrowed == 0 && b.TotalReturned == 0 {
			delete(out, size)
			continue
		}
		b.Outstanding = b.TotalBorrowed - b.TotalReturned
		out[size] = b
	}
	return out
}

// ActiveChallan is an issue challan still holding plates, annotated
// with its age for display.
type ActiveChallan struct {
	IssueDoc
	DaysOnRent int `json:"days_on_rent"`
}

// Classify partitions one client's issue challans using that client's
// aggregated balances. A challan is active when at least one of its
// sizes still has a positive outstanding balance for the client as a
// whole; it is completed when every one of its sizes is settled.
//
// This is deliberately NOT per-delivery FIFO consumption: two challans
// sharing a size are classified identically from the size's aggregate
// balance. The product's ledger view is a coarse signal, not an
// allocation of which delivery came back first.
func Classify(issues []IssueDoc, balances map[string]Balance, now time.Time) (active []ActiveChallan, completed []IssueDoc) {
	for _, doc := range issues {
		if len(doc.Items) == 0 {
			continue
		}
		open := false
		for _, it := range doc.Items {
			if balances[it.PlateSize].Outstanding > 0 {
				open = true
				break
			}
		}
		if open {
			active = append(active, ActiveChallan{
				IssueDoc:   doc,
				DaysOnRent: wholeDays(doc.Date, now),
			})
		} else {
			completed = append(completed, doc)
		}
	}
	return active, completed
}

func wholeDays(from, to time.Time) int {
	d := int(to.Sub(from).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

type TxType string

const (
	TxIssue  TxType = "issue"
	TxReturn TxType = "return"
)

// Transaction is one row of the merged chronological feed.
type Transaction struct {
	Type     TxType     `json:"type"`
	Number   string     `json:"number"`
	Date     time.Time  `json:"date"`
	ClientID string     `json:"client_id"`
	Items    []LineItem `json:"items"`
}

// MergeTimeline merges both document streams into one feed sorted
// descending by date. Equal dates keep their fetch order.
func MergeTimeline(issues []IssueDoc, rets []ReturnDoc) []Transaction {
	out := make([]Transaction, 0, len(issues)+len(rets))
	for _, doc := range issues {
		out = append(out, Transaction{
			Type: TxIssue, Number: doc.Number, Date: doc.Date,
			ClientID: doc.ClientID, Items: doc.Items,
		})
	}
	for _, doc := range rets {
		out = append(out, Transaction{
			Type: TxReturn, Number: doc.Number, Date: doc.Date,
			ClientID: doc.ClientID, Items: doc.Items,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

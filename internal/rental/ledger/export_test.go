package ledger

import (
	"strings"
	"testing"
)

func TestBuildBackupRowsPerSize(t *testing.T) {
	now := day("2024-03-01")
	c := ClientInfo{ClientID: "C1", Name: "Ramesh", Site: "Vesu", Mobile: "9876543210"}
	docs := clientDocs{
		issues: []IssueDoc{
			{ChallanID: 1, Number: "1", ClientID: "C1", Date: day("2024-01-01"), Items: []LineItem{
				{PlateSize: "2 X 3", Quantity: 10},
				{PlateSize: "3 X 3", Quantity: 4},
			}},
		},
		rets: []ReturnDoc{
			{ReturnID: 1, Number: "1", ClientID: "C1", Date: day("2024-02-01"), Items: []LineItem{
				{PlateSize: "2 X 3", Quantity: 6},
			}},
		},
	}

	rows := BuildBackupRows(c, docs, now)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want one per size", len(rows))
	}
	// sorted by size label
	if rows[0].PlateSize != "2 X 3" || rows[1].PlateSize != "3 X 3" {
		t.Fatalf("size order: %q, %q", rows[0].PlateSize, rows[1].PlateSize)
	}
	if rows[0].TotalIssued != 10 || rows[0].TotalReturned != 6 || rows[0].Balance != 4 {
		t.Errorf("2 X 3 row = %+v", rows[0])
	}
	for _, r := range rows {
		if r.TotalOutstanding != 8 {
			t.Errorf("total outstanding = %d, want 8 on every row", r.TotalOutstanding)
		}
		if r.LastActivity != "2024-02-01" {
			t.Errorf("last activity = %q", r.LastActivity)
		}
		if r.ActiveCount != 1 || r.CompletedCount != 0 {
			t.Errorf("counts = %d/%d", r.ActiveCount, r.CompletedCount)
		}
	}
}

func TestBuildBackupRowsNoActivity(t *testing.T) {
	c := ClientInfo{ClientID: "C9", Name: "Idle", Site: "Adajan", Mobile: ""}
	rows := BuildBackupRows(c, clientDocs{}, day("2024-03-01"))

	if len(rows) != 1 {
		t.Fatalf("rows = %d, want single placeholder", len(rows))
	}
	r := rows[0]
	if r.PlateSize != "No Activity" {
		t.Errorf("plate size = %q", r.PlateSize)
	}
	if r.TotalOutstanding != 0 || r.TotalIssued != 0 || r.TotalReturned != 0 ||
		r.Balance != 0 || r.ActiveCount != 0 || r.CompletedCount != 0 {
		t.Errorf("placeholder row should be all zero: %+v", r)
	}
	if r.LastActivity != "" {
		t.Errorf("last activity = %q", r.LastActivity)
	}
}

func TestWriteCSVQuoting(t *testing.T) {
	rows := []BackupRow{{
		ClientID:         "C1",
		Name:             `Patel "Bhai"`,
		Site:             "સુરત",
		Mobile:           "9876543210",
		TotalOutstanding: 4,
		PlateSize:        "2 X 3",
		TotalIssued:      10,
		TotalReturned:    6,
		Balance:          4,
		ActiveCount:      1,
		CompletedCount:   0,
		LastActivity:     "2024-02-01",
	}}

	var sb strings.Builder
	if err := WriteCSV(&sb, rows); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], `"Client ID","Name"`) {
		t.Errorf("header = %q", lines[0])
	}
	want := `"C1","Patel ""Bhai""","સુરત","9876543210",4,"2 X 3",10,6,4,1,0,"2024-02-01"`
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestBuildWorkbook(t *testing.T) {
	rows := []BackupRow{{ClientID: "C1", Name: "Ramesh", PlateSize: "2 X 3", Balance: 4}}
	f, err := BuildWorkbook(rows)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Ledger", "A2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "C1" {
		t.Errorf("A2 = %q", got)
	}
	got, err = f.GetCellValue("Ledger", "I2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "4" {
		t.Errorf("I2 = %q", got)
	}
}

package docgen

import "time"

const (
	TypeIssue  = "issue"
	TypeReturn = "return"
)

// Document carries everything the compositor draws onto a challan
// template.
type Document struct {
	Type       string
	Number     string
	Date       time.Time
	ClientID   string
	ClientName string
	Site       string
	Mobile     string
	Lines      []Line
}

type Line struct {
	PlateSize string
	Quantity  int
	Note      string
}

func (d *Document) TotalQuantity() int {
	total := 0
	for _, l := range d.Lines {
		total += l.Quantity
	}
	return total
}

// Filename is the download name, e.g. "issue-challan-42.jpg".
func (d *Document) Filename() string {
	return d.Type + "-challan-" + d.Number + ".jpg"
}

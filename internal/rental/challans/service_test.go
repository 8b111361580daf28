package challans

import (
	"errors"
	"testing"
)

func TestValidateItems(t *testing.T) {
	tests := []struct {
		name    string
		items   []ItemInput
		wantErr bool
	}{
		{"empty", nil, true},
		{"blank size", []ItemInput{{PlateSize: "  ", Quantity: 1}}, true},
		{"negative qty", []ItemInput{{PlateSize: "2 X 3", Quantity: -1}}, true},
		{"zero qty ok", []ItemInput{{PlateSize: "2 X 3", Quantity: 0}}, false},
		{"valid", []ItemInput{{PlateSize: "2 X 3", Quantity: 10}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateItems(tt.items)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateItems = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var de *DomainError
				if !errors.As(err, &de) || de.Code != CodeInvalidArgument {
					t.Errorf("err = %v, want invalid argument domain error", err)
				}
			}
		})
	}
}

func TestULIDGenUnique(t *testing.T) {
	g := ulidGen{}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := g.New()
		if err != nil {
			t.Fatal(err)
		}
		if len(id) != 26 {
			t.Fatalf("ulid length = %d", len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate ulid %s", id)
		}
		seen[id] = true
	}
}

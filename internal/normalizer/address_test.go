package normalizer

import (
	"testing"

	"eventpipe/internal/models"
)

func TestSplitAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  models.Location
	}{
		{
			"full address",
			"123 Main St, Springfield, MA 01101",
			models.Location{StreetAddress: "123 Main St", City: "Springfield", State: "MA", ZipCode: "01101"},
		},
		{
			"zip plus four",
			"45 Oak Ave, Riverton, NJ 08077-1234",
			models.Location{StreetAddress: "45 Oak Ave", City: "Riverton", State: "NJ", ZipCode: "08077-1234"},
		},
		{
			"no zip",
			"9 Elm Street, Portsmouth, NH",
			models.Location{StreetAddress: "9 Elm Street", City: "Portsmouth", State: "NH"},
		},
		{
			"no match keeps street",
			"Downtown Plaza",
			models.Location{StreetAddress: "Downtown Plaza"},
		},
		{
			"empty",
			"",
			models.Location{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitAddress(tt.input)

			if got.StreetAddress != tt.want.StreetAddress {
				t.Errorf("StreetAddress = %q, want %q", got.StreetAddress, tt.want.StreetAddress)
			}

			if got.City != tt.want.City {
				t.Errorf("City = %q, want %q", got.City, tt.want.City)
			}

			if got.State != tt.want.State {
				t.Errorf("State = %q, want %q", got.State, tt.want.State)
			}

			if got.ZipCode != tt.want.ZipCode {
				t.Errorf("ZipCode = %q, want %q", got.ZipCode, tt.want.ZipCode)
			}
		})
	}
}

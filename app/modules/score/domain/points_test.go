package scoredomain

import (
	"errors"
	"testing"
)

func TestCalculateTotalMatchesFormula(t *testing.T) {
	for _, confirmed := range []bool{false, true} {
		for _, bbq := range []bool{false, true} {
			for victories := 0; victories <= 10; victories++ {
				for applied := 0; applied <= 5; applied++ {
					for received := 0; received <= 5; received++ {
						l := Ledger{
							Confirmed:        confirmed,
							BBQParticipated:  bbq,
							Victories:        victories,
							Defeats:          3,
							BlowoutsApplied:  applied,
							BlowoutsReceived: received,
						}
						want := float64(victories)*2 + float64(applied)*3 - float64(received)*3
						if confirmed {
							want += 2.5
						}
						if bbq {
							want += 2.5
						}
						if got := CalculateTotal(l).Float64(); got != want {
							t.Fatalf("ledger %+v: got %v, want %v", l, got, want)
						}
					}
				}
			}
		}
	}
}

func TestCalculateTotalScenarios(t *testing.T) {
	tests := []struct {
		name   string
		ledger Ledger
		want   string
	}{
		{name: "confirmed, no bbq, two wins", ledger: Ledger{Confirmed: true, Victories: 2}, want: "6.5"},
		{name: "social only", ledger: SocialOnlyLedger(), want: "2.5"},
		{name: "only penalties", ledger: Ledger{BlowoutsReceived: 2}, want: "-6.0"},
		{name: "everything", ledger: Ledger{Confirmed: true, BBQParticipated: true, Victories: 4, Defeats: 2, BlowoutsApplied: 1, BlowoutsReceived: 1}, want: "13.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateTotal(tt.ledger).String(); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLedgerValidate(t *testing.T) {
	tests := []struct {
		name    string
		ledger  Ledger
		wantErr bool
	}{
		{name: "zero is valid", ledger: Ledger{}},
		{name: "negative victories", ledger: Ledger{Victories: -1}, wantErr: true},
		{name: "negative defeats", ledger: Ledger{Defeats: -2}, wantErr: true},
		{name: "negative applied", ledger: Ledger{BlowoutsApplied: -1}, wantErr: true},
		{name: "negative received", ledger: Ledger{BlowoutsReceived: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ledger.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrInvalidScoreInput) {
				t.Fatalf("expected ErrInvalidScoreInput, got %v", err)
			}
		})
	}
}

func TestPointsFromFloatRoundTrip(t *testing.T) {
	for _, f := range []float64{0, 2.5, -3, 6.5, 102.5, -0.5} {
		if got := PointsFromFloat(f).Float64(); got != f {
			t.Fatalf("round trip of %v gave %v", f, got)
		}
	}
}

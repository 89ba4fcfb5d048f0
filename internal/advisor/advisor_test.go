package advisor

import (
	"strings"
	"testing"

	"cashtrack/internal/core"
)

func summaryOf(txs ...core.Transaction) core.Summary {
	return core.Summarize(core.Join(nil, txs))
}

func tx(date core.Date, category string, cents int64) core.Transaction {
	return core.Transaction{UserID: "u1", Date: date, Category: category, Amount: core.Money{Cents: cents}}
}

func TestAdviseEmptyStudentShortCircuits(t *testing.T) {
	in := Input{
		UserSelected:  true,
		ResidenceType: "Dorm", // would fire the dorm tip if rules ran
		Summary:       core.Summary{},
	}
	tips := Advise(in)
	if len(tips) != 1 {
		t.Fatalf("expected exactly one tip, got %d: %v", len(tips), tips)
	}
	if !strings.Contains(tips[0], "no transactions for this student") {
		t.Fatalf("expected the habit-forming tip, got %q", tips[0])
	}
}

func TestAdviseDiningShare(t *testing.T) {
	// Dining is 100% of spend, well over the 0.4 limit.
	s := summaryOf(
		tx(core.NewDate(2024, 1, 1), "Dining", 5000),
		tx(core.NewDate(2024, 1, 2), "Dining", 3000),
	)
	tips := Advise(Input{UserSelected: true, ResidenceType: "Apartment", Summary: s})

	found := false
	for _, tip := range tips {
		if strings.Contains(tip, "Dining is taking a big slice") {
			found = true
		}
	}
	if !found {
		t.Fatalf("dining tip should fire at share 1.0: %v", tips)
	}
}

func TestAdviseDiningShareAtBoundary(t *testing.T) {
	// Exactly 0.4 does not fire; the rule is a strict inequality.
	s := summaryOf(
		tx(core.NewDate(2024, 1, 1), "Dining", 4000),
		tx(core.NewDate(2024, 1, 1), "Books", 6000),
	)
	for _, tip := range Advise(Input{Summary: s}) {
		if strings.Contains(tip, "Dining is taking a big slice") {
			t.Fatalf("dining tip must not fire at exactly 0.4")
		}
	}
}

func TestAdviseResidenceRule(t *testing.T) {
	s := summaryOf(tx(core.NewDate(2024, 1, 1), "Other", 100))

	cases := []struct {
		residence string
		want      string
	}{
		{"Commuter", "commuter"},
		{"off-campus commuter", "commuter"},
		{"Dorm", "dorm"},
		{"DORM - Busch", "dorm"},
		{"Apartment", ""},
		{"mixed", ""},
	}
	for _, tc := range cases {
		tips := Advise(Input{ResidenceType: tc.residence, Summary: s})
		var hit string
		for _, tip := range tips {
			if strings.Contains(tip, "As a commuter") {
				hit = "commuter"
			}
			if strings.Contains(tip, "live in a dorm") {
				hit = "dorm"
			}
		}
		if hit != tc.want {
			t.Fatalf("residence %q: got %q tip, want %q", tc.residence, hit, tc.want)
		}
	}
}

func TestAdviseFrequencyRuleIsLast(t *testing.T) {
	// 10 transactions over 2 days: rate 5 > 3. High per-tx average also
	// fires the large-purchase tip; frequency must still come after it.
	var txs []core.Transaction
	for i := 0; i < 10; i++ {
		day := 1 + i%2
		txs = append(txs, tx(core.NewDate(2024, 1, day), "Entertainment", 3000))
	}
	tips := Advise(Input{UserSelected: true, ResidenceType: "Apartment", Summary: summaryOf(txs...)})

	if len(tips) < 2 {
		t.Fatalf("expected at least two tips, got %v", tips)
	}
	last := tips[len(tips)-1]
	if !strings.Contains(last, "purchases very frequently") {
		t.Fatalf("frequency tip must be the last evaluated rule, got %q", last)
	}
}

func TestAdviseOrderingContract(t *testing.T) {
	// Dorm resident, dining-heavy, buys books, big purchases, frequent:
	// every rule fires, in table order.
	txs := []core.Transaction{
		tx(core.NewDate(2024, 1, 1), "Dining", 30000),
		tx(core.NewDate(2024, 1, 1), "Dining", 30000),
		tx(core.NewDate(2024, 1, 1), "Books", 5000),
		tx(core.NewDate(2024, 1, 1), "Dining", 30000),
		tx(core.NewDate(2024, 1, 1), "Dining", 30000),
	}
	tips := Advise(Input{UserSelected: true, ResidenceType: "Dorm", Summary: summaryOf(txs...)})

	wantOrder := []string{
		"live in a dorm",
		"Dining is taking a big slice",
		"noticeable amount on books",
		"average transaction size",
		"purchases very frequently",
	}
	if len(tips) != len(wantOrder) {
		t.Fatalf("expected %d tips, got %d: %v", len(wantOrder), len(tips), tips)
	}
	for i, marker := range wantOrder {
		if !strings.Contains(tips[i], marker) {
			t.Fatalf("tip %d should contain %q, got %q", i, marker, tips[i])
		}
	}
}

func TestAdviseFallback(t *testing.T) {
	// Modest, infrequent, dining-light spending with no residence match.
	s := summaryOf(
		tx(core.NewDate(2024, 1, 1), "Transportation", 500),
		tx(core.NewDate(2024, 1, 10), "Entertainment", 700),
	)
	tips := Advise(Input{ResidenceType: "mixed", Summary: s})
	if len(tips) != 1 || !strings.Contains(tips[0], "fairly balanced") {
		t.Fatalf("expected only the balanced-spending fallback, got %v", tips)
	}
}

func TestInsightsThresholdIsLooser(t *testing.T) {
	// Average $22: above the $20 insight threshold, below the $25
	// advisory threshold.
	s := summaryOf(
		tx(core.NewDate(2024, 1, 1), "Dining", 2200),
		tx(core.NewDate(2024, 1, 2), "Books", 2200),
	)

	insights := Insights(s)
	foundSize := false
	for _, b := range insights {
		if strings.Contains(b, "purchase size") {
			foundSize = true
		}
	}
	if !foundSize {
		t.Fatalf("insight bullet should fire above $20 average: %v", insights)
	}

	for _, tip := range Advise(Input{Summary: s}) {
		if strings.Contains(tip, "average transaction size") {
			t.Fatalf("advisory tip must not fire below $25 average")
		}
	}
}

func TestInsightsTopCategory(t *testing.T) {
	s := summaryOf(
		tx(core.NewDate(2024, 1, 1), "Dining", 4000),
		tx(core.NewDate(2024, 1, 1), "Books", 6000),
	)
	insights := Insights(s)
	if len(insights) == 0 || !strings.Contains(insights[0], "Books") {
		t.Fatalf("expected Books as highest spending category, got %v", insights)
	}

	if got := Insights(core.Summary{}); len(got) != 0 {
		t.Fatalf("empty summary yields no insights, got %v", got)
	}
}

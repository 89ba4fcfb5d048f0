// Package advisor generates canned budgeting advice from aggregate
// spending signals. Rules live in a fixed ordered table; each rule is a
// pure function of its input, and every rule that fires appends its
// tip, so the output order is the rule order. That order is part of the
// contract: the tips render as an ordered conversation.
package advisor

import (
	"strings"

	"cashtrack/internal/core"
)

const (
	// DiningShareLimit is the fraction of total spend above which the
	// dining tip fires.
	DiningShareLimit = 0.4

	// LargePurchaseDollars is the advisory threshold on the average
	// transaction size. InsightPurchaseDollars is the looser threshold
	// that only drives the overview insight bullet; the two are
	// deliberately distinct constants.
	LargePurchaseDollars   = 25.0
	InsightPurchaseDollars = 20.0

	// FrequentPerDay is the transactions-per-day rate above which the
	// frequency tip fires.
	FrequentPerDay = 3.0
)

// Input carries everything the rules inspect. UserSelected marks a
// single-student view; ResidenceType comes from that student's profile
// (or "mixed" for the campus-wide view).
type Input struct {
	UserSelected  bool
	ResidenceType string
	Summary       core.Summary
}

const (
	habitTip = "There are no transactions for this student in the selected range yet. " +
		"This is actually a great time to set simple habits — like choosing a weekly budget " +
		"for dining or entertainment before spending begins."
	commuterTip = "As a commuter, transit and off-campus food are usually your biggest levers. " +
		"Track how many days you buy food near campus versus packing lunch."
	dormTip = "Since you live in a dorm, late-night dining and delivery can quietly add up. " +
		"Try one 'no-delivery' night per week."
	diningTip = "Dining is taking a big slice of your budget. Look for campus meal deals or use your meal plan first " +
		"before swiping your card off-campus."
	booksTip = "You're spending a noticeable amount on books. Check the library, rentals, or used book swaps " +
		"before buying new."
	largePurchaseTip = "Your average transaction size is on the higher side. Planning purchases ahead of time can help avoid " +
		"end-of-month stress."
	frequencyTip = "You're making purchases very frequently. Try a weekly 'no-spend day' or batch errands together to reduce impulse swipes."
	balancedTip  = "Your spending pattern looks fairly balanced in this view. Keep checking in weekly so you stay ahead of your budget."
)

// rules is the ordered advice table. Each entry either produces a tip
// or passes; there is no first-match-wins cutoff.
var rules = []func(Input) (string, bool){
	residenceRule,
	diningShareRule,
	booksRule,
	largePurchaseRule,
	frequencyRule,
}

// Advise evaluates the rule table over the filtered view. A selected
// student with zero records short-circuits to the habit-forming tip;
// when nothing fires, the balanced-spending fallback is the single tip.
func Advise(in Input) []string {
	if in.UserSelected && in.Summary.Count == 0 {
		return []string{habitTip}
	}

	var tips []string
	for _, rule := range rules {
		if tip, ok := rule(in); ok {
			tips = append(tips, tip)
		}
	}
	if len(tips) == 0 {
		tips = append(tips, balancedTip)
	}
	return tips
}

// residenceRule yields at most one tip: commuter takes precedence over
// dorm, both matched as case-insensitive substrings of the free-text
// residence type.
func residenceRule(in Input) (string, bool) {
	res := strings.ToLower(in.ResidenceType)
	switch {
	case strings.Contains(res, "commuter"):
		return commuterTip, true
	case strings.Contains(res, "dorm"):
		return dormTip, true
	}
	return "", false
}

func diningShareRule(in Input) (string, bool) {
	// CategoryShare guards total > 0 internally.
	if in.Summary.CategoryShare("Dining") > DiningShareLimit {
		return diningTip, true
	}
	return "", false
}

func booksRule(in Input) (string, bool) {
	if in.Summary.CategoryTotal("Books").Cents > 0 {
		return booksTip, true
	}
	return "", false
}

func largePurchaseRule(in Input) (string, bool) {
	if in.Summary.AvgPerTransaction > LargePurchaseDollars {
		return largePurchaseTip, true
	}
	return "", false
}

func frequencyRule(in Input) (string, bool) {
	if in.Summary.DaySpan > 0 &&
		float64(in.Summary.Count)/float64(in.Summary.DaySpan) > FrequentPerDay {
		return frequencyTip, true
	}
	return "", false
}

// Insights produces the short overview bullets. These are separate from
// the advice conversation and use the looser purchase-size threshold.
func Insights(s core.Summary) []string {
	var out []string
	if top, ok := s.TopCategory(); ok {
		out = append(out, "Highest spending category: "+top+".")
	}
	if s.AvgPerTransaction > InsightPurchaseDollars {
		out = append(out, "Average purchase size is relatively high — planning weekly budgets could help.")
	}
	return out
}

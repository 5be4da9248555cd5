package footprint

// Band is a qualitative tier for a total footprint.
type Band string

const (
	BandExcellent Band = "EXCELLENT"
	BandGood      Band = "GOOD"
	BandModerate  Band = "MODERATE"
	BandHigh      Band = "HIGH"
)

// Band thresholds in kg CO2e. Lower bounds are inclusive.
const (
	GoodThreshold     = 50.0
	ModerateThreshold = 100.0
	HighThreshold     = 200.0
)

// ClassifyBand maps a total footprint to its band.
func ClassifyBand(total float64) Band {
	switch {
	case total < GoodThreshold:
		return BandExcellent
	case total < ModerateThreshold:
		return BandGood
	case total < HighThreshold:
		return BandModerate
	default:
		return BandHigh
	}
}

// Recommendation messages.
const (
	MsgHighBand        = "Your overall footprint is high. Focus on the categories with the biggest impact for the best results."
	MsgModerateBand    = "Your footprint is moderate. Small changes in your daily habits can make a big difference."
	MsgCarKm           = "For transport, consider using public transport or cycling more often."
	MsgElectricity     = "For energy, try to cut consumption by switching off appliances you are not using."
	MsgMeat            = "For food, eating less red meat is one of the most effective actions you can take."
	MsgFoodWaste       = "Planning your shopping and meals helps avoid throwing food away."
	MsgRecycling       = "For consumption, stepping up your recycling efforts is essential."
	MsgCongratulations = "Congratulations! Your habits are very sustainable. Keep it up!"
	MsgRoomToImprove   = "Your habits look balanced, but there is always room to improve. Explore small changes in each category."
)

// fieldRule emits its message when the rule's predicate holds for the input.
type fieldRule struct {
	category Category
	field    string
	exceeds  func(v float64) bool
	message  string
}

// fieldRules are evaluated in this order, which is also the output order.
var fieldRules = []fieldRule{
	{CategoryTransport, "carKm", func(v float64) bool { return v > 100 }, MsgCarKm},
	{CategoryEnergy, "electricity", func(v float64) bool { return v > 200 }, MsgElectricity},
	{CategoryFood, "meat", func(v float64) bool { return v > 5 }, MsgMeat},
	{CategoryFood, "foodWaste", func(v float64) bool { return v > 3 }, MsgFoodWaste},
	{CategoryConsumption, "recycling", func(v float64) bool { return v < 3 }, MsgRecycling},
}

// Recommend returns the advisories for a computed total: the band message
// for Moderate and High, then one message per field rule that fires. When
// nothing fires a single closing message is returned instead.
func Recommend(raw RawInputs, total float64) []string {
	var recs []string
	band := ClassifyBand(total)

	switch band {
	case BandHigh:
		recs = append(recs, MsgHighBand)
	case BandModerate:
		recs = append(recs, MsgModerateBand)
	}

	for _, rule := range fieldRules {
		if rule.exceeds(raw.Value(rule.category, rule.field)) {
			recs = append(recs, rule.message)
		}
	}

	if len(recs) == 0 {
		if band == BandExcellent || band == BandGood {
			return []string{MsgCongratulations}
		}
		return []string{MsgRoomToImprove}
	}

	return recs
}

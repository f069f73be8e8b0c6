package analyzer

type tier struct {
	name  string
	emoji string
	max   int
}

// Tiers are keyed off the overall score; first bucket whose max covers the
// score wins.
var tiers = []tier{
	{name: "Selfless Teacher", emoji: "🎓", max: 20},
	{name: "Value Contributor", emoji: "💎", max: 40},
	{name: "Balanced Creator", emoji: "⚖️", max: 60},
	{name: "Self-Promoter", emoji: "📢", max: 80},
	{name: "Ego Maximalist", emoji: "🔥", max: 100},
}

func tierFor(overall int) tier {
	for _, t := range tiers {
		if overall <= t.max {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

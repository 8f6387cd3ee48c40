package analysis

// EddingtonBadge is the presentational band for a miles-based Eddington
// number. Colors and symbols are fixed per band.
type EddingtonBadge struct {
	Level  string
	Label  string
	Color  string // hex
	Symbol string
}

var badgeBands = []struct {
	min   int
	badge EddingtonBadge
}{
	{100, EddingtonBadge{Level: "legendary", Label: "Legendary", Color: "#FFD700", Symbol: "★★★"}},
	{75, EddingtonBadge{Level: "exceptional", Label: "Exceptional", Color: "#C0C0C0", Symbol: "★★"}},
	{50, EddingtonBadge{Level: "strong", Label: "Strong", Color: "#CD7F32", Symbol: "★"}},
	{25, EddingtonBadge{Level: "solid", Label: "Solid", Color: "#3498DB", Symbol: "◆"}},
	{10, EddingtonBadge{Level: "building", Label: "Building", Color: "#95A5A6", Symbol: "▲"}},
	{1, EddingtonBadge{Level: "starting", Label: "Getting Started", Color: "#BDC3C7", Symbol: "·"}},
}

// BadgeFor returns the badge band for a miles-based Eddington number.
// An E of zero has no badge.
func BadgeFor(eddington int) (EddingtonBadge, bool) {
	for _, band := range badgeBands {
		if eddington >= band.min {
			return band.badge, true
		}
	}
	return EddingtonBadge{}, false
}

package styles

// DefaultTheme is the baseline palette.
var DefaultTheme = Theme{
	Name: "default",
	Tokens: ThemeTokens{
		Background: "#0B0F14",
		Panel:      "#121821",
		Text:       "#E6EDF3",
		TextMuted:  "#8B9AAE",
		Border:     "#223043",
		Accent:     "#5B8DEF",
		Focus:      "#7AA2F7",
		Success:    "#3FB950",
		Warning:    "#D29922",
		Error:      "#F85149",
		Info:       "#58A6FF",

		VarEmail:   "#58A6FF",
		VarPhone:   "#3FB950",
		VarDate:    "#BC8CFF",
		VarTime:    "#F0883E",
		VarNumber:  "#F778BA",
		VarText:    "#39C5CF",
		VarDefault: "#8B9AAE",
		VarUnknown: "#F85149",
	},
}

package confidence

const (
	DisclaimerBase       = "This is AI-generated information and not professional legal advice."
	DisclaimerNoSources  = "No direct legal sources found. Information is based on general knowledge."
	DisclaimerSemantic   = "Response based on semantic analysis. Verify with official legal texts."
	DisclaimerLow        = "Low confidence response. Please consult with a qualified legal professional."
	DisclaimerMedium     = "Medium confidence. Information should be verified with official sources or legal counsel."
	DisclaimerMaybeStale = "Some referenced laws may have been updated. Verify current status."
	DisclaimerSingle     = "Single legal source found. Multiple sources recommended for verification."
	DisclaimerConsult    = "For specific legal situations, consult with a qualified UAE legal professional."
)

var levelActions = map[Level][]string{
	LevelHigh: {
		"Display response with confidence indicator",
		"Highlight source laws with citations",
	},
	LevelMedium: {
		"Display response with caution indicator",
		"Suggest consulting professional",
		"Offer to escalate to human review",
	},
	LevelLow: {
		"Flag for human review",
		"Display prominent disclaimer",
		"Suggest contacting legal professional",
		"Offer alternative search or rephrasing",
	},
}

var (
	noLawActions = []string{
		"Suggest browsing related categories",
		"Offer to rephrase query",
	}
	singleSourceActions = []string{
		"Search for related laws",
		"Suggest legal professional consultation",
	}
)

func disclaimers(f Factors, level Level) []string {
	out := []string{DisclaimerBase}
	if !f.LawFound {
		out = append(out, DisclaimerNoSources)
	}
	if !f.DirectMatch && f.SemanticMatch {
		out = append(out, DisclaimerSemantic)
	}
	switch level {
	case LevelLow:
		out = append(out, DisclaimerLow)
	case LevelMedium:
		out = append(out, DisclaimerMedium)
	}
	if !f.RecentlyUpdated {
		out = append(out, DisclaimerMaybeStale)
	}
	if f.UniqueMatch {
		out = append(out, DisclaimerSingle)
	}
	return append(out, DisclaimerConsult)
}

func recommendedActions(f Factors, level Level) []string {
	out := append([]string{}, levelActions[level]...)
	if !f.LawFound {
		out = append(out, noLawActions...)
	}
	if !f.MultipleSourcesAgree {
		out = append(out, singleSourceActions...)
	}
	return out
}

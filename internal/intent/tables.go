package intent

import "regexp"

const followUpWeight = 0.1

// intentRules are evaluated in group order Query, Clarification, Navigation,
// Definition, Feedback.
var intentRules = concat(
	group(string(TypeQuery), followUpWeight,
		`what\s+(is|are|does)?`,
		`tell\s+me\s+about`,
		`explain`,
		`information\s+about`,
		`details\s+about`,
	),
	group(string(TypeClarification), followUpWeight,
		`why`,
		`how\s+does`,
		`clarify`,
		`what\s+does.*mean`,
		`confused`,
	),
	group(string(TypeNavigation), followUpWeight,
		`how\s+to`,
		`steps\s+(to|for)`,
		`process\s+(to|for)`,
		`procedure`,
		`requirements`,
	),
	group(string(TypeDefinition), followUpWeight,
		`define`,
		`what\s+is\s+a`,
		`meaning\s+of`,
		`term`,
		`glossary`,
	),
	group(string(TypeFeedback), followUpWeight,
		`thank`,
		`good|great|excellent`,
		`wrong|incorrect|inaccurate`,
		`report`,
		`issue|bug`,
	),
)

// categoryRules: the first category with any matching rule wins.
var categoryRules = concat(
	group("visa", 1, `visa`, `residency`, `residence\s+permit`, `entry\s+permit`),
	group("labor", 1, `labor`, `employment`, `employee`, `work`, `wage`, `salary`, `leave`, `overtime`),
	group("contract", 1, `contract`, `agreement`, `terms`, `conditions`),
	group("business", 1, `business`, `company`, `corporate`, `trade\s+license`, `free\s+zone`),
	group("family", 1, `marriage`, `divorce`, `custody`, `inheritance`, `family`),
	group("criminal", 1, `crime`, `criminal`, `offense`, `penalty`, `punishment`),
	group("civil", 1, `civil`, `dispute`, `tort`, `property`),
	group("ip", 1, `patent`, `trademark`, `copyright`, `intellectual\s+property`),
)

// vocabulary of legal nouns reported as informal entities when found verbatim.
var vocabulary = []string{
	"visa", "residency", "employment", "contract", "business", "marriage",
	"divorce", "custody", "crime", "patent", "trademark", "copyright",
}

var (
	digitRun     = regexp.MustCompile(`\d+`)
	quotedPhrase = regexp.MustCompile(`"([^"]*)"`)
	complexWords = regexp.MustCompile(`(?i)\b(multiple|scenario|situation|both|and|or|condition|if)\b`)
)

func concat(tables ...RuleTable) RuleTable {
	var out RuleTable
	for _, t := range tables {
		out = append(out, t...)
	}
	return out
}

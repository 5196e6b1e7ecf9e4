package entity

// DefaultTerms returns the built-in legal-term table.
func DefaultTerms() []Term {
	return []Term{
		{"gratuity", "A lump-sum payment made to employees upon termination of employment", "labor"},
		{"visa", "An official permit allowing entry and residence in a country", "immigration"},
		{"residency", "The state of residing or being established in a place", "immigration"},
		{"employment", "The state of having a paid job", "labor"},
		{"contract", "A legally binding agreement between parties", "civil"},
		{"jurisdiction", "The official power to make legal decisions and enforce the law", "civil"},
		{"plaintiff", "A person who brings a case against another in a court of law", "civil"},
		{"defendant", "A person accused or sued in a court of law", "civil"},
		{"copyright", "The exclusive legal right to produce, reproduce, publish or distribute an original work", "intellectual_property"},
		{"trademark", "A symbol, word, or phrase legally registered or established by use as representing a company or product", "intellectual_property"},
		{"patent", "A government license conferring a right or title for a set period", "intellectual_property"},
		{"liability", "The state of being responsible for something, especially by law", "civil"},
		{"negligence", "Failure to take proper care in doing something", "criminal"},
		{"inheritance", "Property, titles, debts, and obligations that pass to an heir upon death", "family"},
		{"custody", "The protective care or guardianship of someone or something", "family"},
	}
}

package entity

import (
	"reflect"
	"sync"
	"testing"
)

func TestExtract_AmountAndReference(t *testing.T) {
	ex := NewExtractor(nil)
	text := "The fine is AED 2,500 under Article 84."
	got := ex.Extract(text)

	if want := []Amount{{Value: "AED 2,500", Currency: "AED"}}; !reflect.DeepEqual(got.Amounts, want) {
		t.Errorf("Amounts = %+v, want %+v", got.Amounts, want)
	}
	if want := []string{"Article 84"}; !reflect.DeepEqual(got.LawReferences, want) {
		t.Errorf("LawReferences = %v, want %v", got.LawReferences, want)
	}
	if len(got.Dates) != 0 {
		t.Errorf("Dates = %v, want empty", got.Dates)
	}

	var amounts, refs int
	for _, e := range got.Entities {
		switch e.Type {
		case TypeAmount:
			amounts++
			if text[e.Start:e.End] != "AED 2,500" || e.Confidence != 0.9 {
				t.Errorf("amount entity = %+v", e)
			}
		case TypeReference:
			refs++
			if text[e.Start:e.End] != "Article 84" || e.Confidence != 0.95 {
				t.Errorf("reference entity = %+v", e)
			}
		}
	}
	if amounts != 1 || refs != 1 {
		t.Errorf("got %d amounts and %d references", amounts, refs)
	}
}

func TestExtract_LegalTerms(t *testing.T) {
	ex := NewExtractor(nil)
	text := "Patents and Copyright protect creators; contractual terms are not a contract."
	got := ex.Extract(text)

	if want := []string{"contract", "Copyright", "Patents"}; !reflect.DeepEqual(got.KeyTerms, want) {
		t.Errorf("KeyTerms = %v, want %v", got.KeyTerms, want)
	}
	for _, e := range got.Entities {
		if e.Type != TypeLegalTerm {
			continue
		}
		if e.Definition == "" {
			t.Errorf("term %q has no definition", e.Text)
		}
		if text[e.Start:e.End] != e.Text {
			t.Errorf("offsets of %q do not match text", e.Text)
		}
	}
}

func TestExtract_Organizations(t *testing.T) {
	ex := NewExtractor(nil)
	text := "Apply at GDRFA or the General Directorate of Residency and Foreigners Affairs. GDRFA again. Bring your Emirates ID."
	got := ex.Extract(text)

	var orgs []string
	for _, e := range got.Entities {
		if e.Type == TypeOrganization {
			orgs = append(orgs, e.Text)
		}
	}
	want := []string{"General Directorate of Residency and Foreigners Affairs", "GDRFA", "Emirates ID"}
	if !reflect.DeepEqual(orgs, want) {
		t.Errorf("organizations = %v, want %v", orgs, want)
	}

	// Abbreviations are whole words only.
	got = ex.Extract("The CHMRS filing, MHRE and GDRFA2 codes")
	for _, e := range got.Entities {
		if e.Type == TypeOrganization {
			t.Errorf("unexpected organization %q", e.Text)
		}
	}
}

func TestExtract_References(t *testing.T) {
	ex := NewExtractor(nil)
	text := "Under Federal Decree No. 33 of 2021, Cabinet Resolution # 1 of 2022 and Law No. 5 of 1985, see Section 12 and article 7."
	got := ex.Extract(text)
	// Sweep order is pattern order: decree, resolution, article, section, law.
	want := []string{
		"Federal Decree No. 33 of 2021",
		"Cabinet Resolution # 1 of 2022",
		"article 7",
		"Section 12",
		"Law No. 5 of 1985",
	}
	if !reflect.DeepEqual(got.LawReferences, want) {
		t.Errorf("LawReferences = %v, want %v", got.LawReferences, want)
	}
}

func TestExtract_Dates(t *testing.T) {
	ex := NewExtractor(nil)
	got := ex.Extract("Signed 01/02/2024, effective 2024-03-15, renewed March 5, 2025 and Mar 5 2025; again 2024-03-15.")
	want := []string{"01/02/2024", "2024-03-15", "March 5, 2025", "Mar 5 2025"}
	if !reflect.DeepEqual(got.Dates, want) {
		t.Errorf("Dates = %v, want %v", got.Dates, want)
	}
}

func TestExtract_Amounts(t *testing.T) {
	ex := NewExtractor(nil)
	got := ex.Extract("Pay USD $1,200.50 or 500 Dirhams or EUR 30 or 20 euros.")
	want := []Amount{
		{Value: "USD $1,200.50", Currency: "USD"},
		{Value: "EUR 30", Currency: "EUR"},
		{Value: "500 Dirhams", Currency: "AED"},
		{Value: "20 euros", Currency: "EUR"},
	}
	if !reflect.DeepEqual(got.Amounts, want) {
		t.Errorf("Amounts = %+v, want %+v", got.Amounts, want)
	}
}

func TestExtract_DedupeKeepsFirstPositionLastRecord(t *testing.T) {
	ex := NewExtractor(nil)
	text := "visa then visa"
	got := ex.Extract(text)
	if len(got.Entities) != 1 {
		t.Fatalf("entities = %+v", got.Entities)
	}
	if got.Entities[0].Start != 10 {
		t.Errorf("deduped entity should carry the last record, got start %d", got.Entities[0].Start)
	}
	if !reflect.DeepEqual(got.KeyTerms, []string{"visa"}) {
		t.Errorf("KeyTerms = %v", got.KeyTerms)
	}
}

func TestExtract_Empty(t *testing.T) {
	got := NewExtractor(nil).Extract("")
	if got.Entities == nil || len(got.Entities) != 0 {
		t.Errorf("Entities = %v", got.Entities)
	}
	if got.KeyTerms == nil || got.LawReferences == nil || got.Dates == nil || got.Amounts == nil {
		t.Error("empty extraction should have non-nil slices")
	}
}

func TestParseCurrency(t *testing.T) {
	tests := map[string]string{
		"AED 100":     "AED",
		"aed 100":     "AED",
		"100 Dollars": "USD",
		"100 dirham":  "AED",
		"1,000":       "unknown",
		"100 Rupees":  "unknown",
	}
	for in, want := range tests {
		if got := ParseCurrency(in); got != want {
			t.Errorf("ParseCurrency(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTermRegistry(t *testing.T) {
	r := NewDefaultTermRegistry()
	if !r.IsLegalTerm("Gratuity") {
		t.Error("gratuity should be a legal term")
	}
	if r.IsLegalTerm("banana") {
		t.Error("banana should not be a legal term")
	}
	n := r.Len()

	r.AddCustomTerm("Arbitration", "Resolution of a dispute outside the courts", "civil")
	if r.Len() != n+1 {
		t.Errorf("Len = %d, want %d", r.Len(), n+1)
	}
	def, ok := r.Definition("arbitration")
	if !ok || def.Category != "civil" {
		t.Errorf("Definition = %+v, %v", def, ok)
	}

	r.AddCustomTerm("visa", "Updated definition", "immigration")
	if r.Len() != n+1 {
		t.Error("replacing a term should not grow the registry")
	}
	if def, _ := r.Definition("visa"); def.Definition != "Updated definition" {
		t.Errorf("visa definition = %q", def.Definition)
	}
	if r.Terms()[1].Term != "visa" {
		t.Error("replaced term should keep its position")
	}

	ex := NewExtractor(r)
	got := ex.Extract("Arbitrations are quicker.")
	if !reflect.DeepEqual(got.KeyTerms, []string{"Arbitrations"}) {
		t.Errorf("KeyTerms = %v", got.KeyTerms)
	}
}

func TestTermRegistry_Concurrent(t *testing.T) {
	r := NewDefaultTermRegistry()
	ex := NewExtractor(r)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.AddCustomTerm("escrow", "Funds held by a third party", "civil")
		}()
		go func() {
			defer wg.Done()
			_ = ex.Extract("escrow and custody")
		}()
	}
	wg.Wait()
	if !r.IsLegalTerm("escrow") {
		t.Error("escrow should be registered")
	}
}

func TestCitationIDs(t *testing.T) {
	text := "See [labor-1] and [Civil-2], again [labor-1], not [labor] or [x-y]; also [criminal-10]."
	want := []string{"labor-1", "civil-2", "criminal-10"}
	if got := CitationIDs(text); !reflect.DeepEqual(got, want) {
		t.Errorf("CitationIDs = %v, want %v", got, want)
	}
	if got := CitationIDs("no markers"); got == nil || len(got) != 0 {
		t.Errorf("CitationIDs = %v, want empty", got)
	}
}

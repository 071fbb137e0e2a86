package classify

import "strings"

// SpeciesEntry describes one plant the classifiers are trained to recognize.
type SpeciesEntry struct {
	ScientificName string
	CommonName     string
	HindiName      string
}

// speciesCatalog lists the medicinal species covered by the classifier label
// set. Lookup keys are lowercased scientific and common names.
var speciesCatalog = []SpeciesEntry{
	{ScientificName: "Ocimum tenuiflorum", CommonName: "Tulsi", HindiName: "तुलसी"},
	{ScientificName: "Azadirachta indica", CommonName: "Neem", HindiName: "नीम"},
	{ScientificName: "Aloe vera", CommonName: "Aloe Vera", HindiName: "घृतकुमारी"},
	{ScientificName: "Curcuma longa", CommonName: "Turmeric", HindiName: "हल्दी"},
	{ScientificName: "Zingiber officinale", CommonName: "Ginger", HindiName: "अदरक"},
	{ScientificName: "Mentha arvensis", CommonName: "Mint", HindiName: "पुदीना"},
	{ScientificName: "Withania somnifera", CommonName: "Ashwagandha", HindiName: "अश्वगंधा"},
	{ScientificName: "Phyllanthus emblica", CommonName: "Amla", HindiName: "आंवला"},
	{ScientificName: "Trigonella foenum-graecum", CommonName: "Fenugreek", HindiName: "मेथी"},
	{ScientificName: "Bacopa monnieri", CommonName: "Brahmi", HindiName: "ब्राह्मी"},
}

var speciesIndex = buildSpeciesIndex()

func buildSpeciesIndex() map[string]SpeciesEntry {
	index := make(map[string]SpeciesEntry, len(speciesCatalog)*2)
	for _, entry := range speciesCatalog {
		index[strings.ToLower(entry.ScientificName)] = entry
		index[strings.ToLower(entry.CommonName)] = entry
	}
	return index
}

// LookupSpecies resolves a classifier label, scientific or common, to the
// catalog entry.
func LookupSpecies(label string) (SpeciesEntry, bool) {
	entry, ok := speciesIndex[strings.ToLower(strings.TrimSpace(label))]
	return entry, ok
}

// Species returns the catalog in declaration order.
func Species() []SpeciesEntry {
	out := make([]SpeciesEntry, len(speciesCatalog))
	copy(out, speciesCatalog)
	return out
}

// seed.go: fixed sample dataset for the in-memory development store
package datastore

// seed resets the store and loads a small fixed dataset so the UI has
// content without a database. Called from Open, before any concurrent use.
func (ms *MemoryStore) seed() {
	ms.reset()

	users := []User{
		{Username: "admin", Email: "admin@mediplant.local", DisplayName: "Administrator", IsAdmin: true},
		{Username: "ayush_sharma", Email: "ayush@example.com", DisplayName: "Ayush Sharma"},
		{Username: "vaidya_meena", Email: "meena@example.com", DisplayName: "Vaidya Meena", ContributionCount: 5},
	}
	for i := range users {
		_ = ms.CreateUser(&users[i])
	}

	plants := []Plant{
		{
			Name:               "Tulsi",
			ScientificName:     "Ocimum tenuiflorum",
			HindiName:          "तुलसी",
			Description:        "Holy basil, an aromatic shrub cultivated across the Indian subcontinent.",
			Uses:               "Respiratory ailments, common cold, stress relief.",
			Preparation:        "Fresh leaves chewed or brewed as tea.",
			Region:             "Pan-India",
			VerificationStatus: PlantVerified,
			Translations: []PlantTranslation{
				{Language: "hi", Name: "तुलसी", Uses: "श्वसन रोग, सर्दी-जुकाम, तनाव से राहत।"},
			},
		},
		{
			Name:               "Neem",
			ScientificName:     "Azadirachta indica",
			HindiName:          "नीम",
			Description:        "Fast-growing tree, every part of which is used in traditional medicine.",
			Uses:               "Skin disorders, dental care, blood purification.",
			Preparation:        "Leaf paste applied topically; twigs as tooth cleaners.",
			Region:             "Pan-India",
			VerificationStatus: PlantVerified,
			Translations: []PlantTranslation{
				{Language: "hi", Name: "नीम", Uses: "त्वचा रोग, दंत चिकित्सा, रक्त शुद्धि।"},
			},
		},
		{
			Name:               "Ashwagandha",
			ScientificName:     "Withania somnifera",
			HindiName:          "अश्वगंधा",
			Description:        "Small woody shrub whose root is a staple adaptogen of Ayurveda.",
			Uses:               "Stress, fatigue, general vitality.",
			Preparation:        "Dried root powder with warm milk.",
			Region:             "Dry regions of India",
			VerificationStatus: PlantVerified,
		},
		{
			Name:               "Turmeric",
			ScientificName:     "Curcuma longa",
			HindiName:          "हल्दी",
			Description:        "Rhizomatous herb whose ground rhizome is used as medicine and spice.",
			Uses:               "Anti-inflammatory, wound healing, digestion.",
			Preparation:        "Powdered rhizome in milk or applied as paste.",
			Region:             "Pan-India",
			VerificationStatus: PlantVerified,
		},
		{
			Name:               "Brahmi",
			ScientificName:     "Bacopa monnieri",
			HindiName:          "ब्राह्मी",
			Description:        "Creeping marsh herb traditionally used to support memory.",
			Uses:               "Memory, concentration, anxiety.",
			Preparation:        "Fresh juice or dried herb powder.",
			Region:             "Wetlands across India",
			VerificationStatus: PlantPending,
		},
		{
			Name:               "Giloy",
			ScientificName:     "Tinospora cordifolia",
			HindiName:          "गिलोय",
			Description:        "Climbing shrub used as an immunity tonic.",
			Uses:               "Fever, immunity, chronic infections.",
			Preparation:        "Stem decoction.",
			Region:             "Tropical India",
			VerificationStatus: PlantPending,
		},
	}
	for i := range plants {
		_ = ms.CreatePlant(&plants[i])
	}

	contributions := []Contribution{
		{PlantID: 1, UserID: 3, ContributorName: "Vaidya Meena", Language: "en",
			Content: "Tulsi tea with ginger and honey works well for seasonal coughs.",
			Status:  ContributionApproved},
		{PlantID: 2, UserID: 2, ContributorName: "Ayush Sharma", Language: "en",
			Content: "Neem leaves dried in shade keep their potency longer than sun-dried ones.",
			Status:  ContributionPending},
		{PlantID: 4, UserID: 3, ContributorName: "Vaidya Meena", Language: "hi",
			Content: "हल्दी वाला दूध रात में पीने से जोड़ों के दर्द में आराम मिलता है।",
			Status:  ContributionPending},
	}
	for i := range contributions {
		_ = ms.CreateContribution(&contributions[i])
	}

	images := []PlantImage{
		{PlantID: 1, URL: "/images/tulsi-leaves.jpg", Caption: "Tulsi leaves, Krishna variety"},
		{PlantID: 2, URL: "/images/neem-tree.jpg", Caption: "Mature neem tree", Likes: 4},
	}
	for i := range images {
		_ = ms.CreatePlantImage(&images[i])
	}

	unknown := Identification{
		ImageURL:   "/images/unknown-herb.jpg",
		Confidence: 42,
		IsUnknown:  true,
		Provider:   "vision",
	}
	_ = ms.CreateIdentification(&unknown, []IdentificationCandidate{
		{Label: "Bacopa monnieri", Confidence: 42, Rank: 1},
		{Label: "Centella asiatica", Confidence: 31, Rank: 2},
	})
	_ = ms.CreateDiscussion(&Discussion{
		IdentificationID: unknown.ID,
		Author:           "vaidya_meena",
		Role:             "expert",
		Content:          "Leaf shape suggests Brahmi rather than Gotu Kola, can we see the flower?",
	})
}

// reset clears all entities and id counters.
func (ms *MemoryStore) reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.users = map[uint]User{}
	ms.plants = map[uint]Plant{}
	ms.contributions = map[uint]Contribution{}
	ms.images = map[uint]PlantImage{}
	ms.identifications = map[uint]Identification{}
	ms.discussions = map[uint]Discussion{}
	ms.recordings = map[uint]VoiceRecording{}
	ms.notifications = map[uint]Notification{}
	ms.nextID = map[string]uint{}
}

package testutil

import (
	"fmt"

	"github.com/starford/suppai/internal/models"
)

func (b *Backend) seed() {
	ginkgo := models.Agent{
		CUI:           GinkgoCUI,
		PreferredName: "Ginkgo biloba whole",
		Synonyms:      []string{"Ginkgo", "Maidenhair tree", "GBE"},
		Tradenames:    []string{"Ginkoba", "Ginkgold"},
		Definition:    "A tree whose leaf extract is used as a supplement.",
		Slug:          models.Slugify("Ginkgo biloba whole"),
		EntType:       models.AgentTypeSupplement,
	}
	warfarin := models.Agent{
		CUI:           WarfarinCUI,
		PreferredName: "Warfarin",
		Synonyms:      []string{"Coumadin"},
		Tradenames: []string{
			"Coumadin", "Jantoven", "Marevan", "Waran", "Warfant", "Lawarin",
			"Orfarin", "Uniwarfin", "Aldocumar", "Simarc-2", "Warfarin Sodium Tablets",
		},
		Definition:    "An anticoagulant.",
		Slug:          models.Slugify("Warfarin"),
		EntType:       models.AgentTypeDrug,
	}
	aspirin := models.Agent{
		CUI:           AspirinCUI,
		PreferredName: "Aspirin",
		Synonyms:      []string{"Acetylsalicylic acid"},
		Slug:          models.Slugify("Aspirin"),
		EntType:       models.AgentTypeDrug,
	}
	betaCarotene := models.Agent{
		CUI:           BetaCaroteneCUI,
		PreferredName: "β-Carotene",
		Synonyms:      []string{"Provitamin A"},
		Slug:          models.Slugify("β-Carotene"),
		EntType:       models.AgentTypeSupplement,
	}

	year := 2012
	gwEvidence := make([]models.Evidence, 0, 12)
	for i := range 12 {
		gwEvidence = append(gwEvidence, models.Evidence{
			Paper: models.Paper{
				PID:           fmt.Sprintf("paper-%02d", i),
				Title:         fmt.Sprintf("Ginkgo and warfarin study %d", i),
				Year:          &year,
				Venue:         "J Clin Pharm",
				ClinicalStudy: i%2 == 0,
			},
			Sentences: []models.SupportingSentence{sentence(int64(i), fmt.Sprintf("paper-%02d", i), ginkgo, warfarin)},
		})
	}
	gaEvidence := []models.Evidence{{
		Paper: models.Paper{PID: "paper-a", Title: "Bleeding risk with ginkgo and aspirin", AnimalStudy: true},
		Sentences: []models.SupportingSentence{
			sentence(100, "paper-a", ginkgo, aspirin),
		},
	}}

	ginkgo.InteractsWithCount = 2
	warfarin.InteractsWithCount = 1
	aspirin.InteractsWithCount = 1
	betaCarotene.InteractsWithCount = 1

	bwEvidence := []models.Evidence{{
		Paper:     models.Paper{PID: "paper-b", Title: "Carotenoids and anticoagulation", HumanStudy: true},
		Sentences: []models.SupportingSentence{sentence(200, "paper-b", betaCarotene, warfarin)},
	}}
	bwSlug := models.Slugify("β-Carotene warfarin")

	b.agents = map[string]models.Agent{
		GinkgoCUI:       ginkgo,
		WarfarinCUI:     warfarin,
		AspirinCUI:      aspirin,
		BetaCaroteneCUI: betaCarotene,
	}
	b.interactions = map[string][]models.InteractingAgent{
		GinkgoCUI: {
			{InteractionID: GinkgoWarfarinID, Slug: "ginkgo-biloba-whole-warfarin", Agent: warfarin, Evidence: gwEvidence},
			{InteractionID: GinkgoAspirinID, Slug: "aspirin-ginkgo-biloba-whole", Agent: aspirin, Evidence: gaEvidence},
		},
		WarfarinCUI: {
			{InteractionID: GinkgoWarfarinID, Slug: "ginkgo-biloba-whole-warfarin", Agent: ginkgo, Evidence: gwEvidence},
		},
		AspirinCUI: {
			{InteractionID: GinkgoAspirinID, Slug: "aspirin-ginkgo-biloba-whole", Agent: ginkgo, Evidence: gaEvidence},
		},
		BetaCaroteneCUI: {
			{InteractionID: BetaCaroteneWarfarinID, Slug: bwSlug, Agent: warfarin, Evidence: bwEvidence},
		},
	}
	b.definitions = map[string]models.InteractionDefinition{
		GinkgoWarfarinID: {
			InteractionID: GinkgoWarfarinID,
			Slug:          "ginkgo-biloba-whole-warfarin",
			Agents:        [2]models.Agent{ginkgo, warfarin},
			Evidence:      gwEvidence,
		},
		GinkgoAspirinID: {
			InteractionID: GinkgoAspirinID,
			Slug:          "aspirin-ginkgo-biloba-whole",
			Agents:        [2]models.Agent{aspirin, ginkgo},
			Evidence:      gaEvidence,
		},
		BetaCaroteneWarfarinID: {
			InteractionID: BetaCaroteneWarfarinID,
			Slug:          bwSlug,
			Agents:        [2]models.Agent{betaCarotene, warfarin},
			Evidence:      bwEvidence,
		},
	}
	b.meta = models.IndexMeta{
		Version:          "2019-09-01",
		InteractionCount: 59096,
		AgentCount:       2044,
		DataUpdatedOn:    "2019-09-01",
	}
}

func sentence(uid int64, paperID string, first, second models.Agent) models.SupportingSentence {
	return models.SupportingSentence{
		UID:        uid,
		PaperID:    paperID,
		SentenceID: int(uid),
		Spans: []models.SupportingSentenceSpan{
			{Text: "Concomitant use of "},
			{Text: first.PreferredName, CUI: first.CUI},
			{Text: " and "},
			{Text: second.PreferredName, CUI: second.CUI},
			{Text: " may increase bleeding risk."},
		},
	}
}

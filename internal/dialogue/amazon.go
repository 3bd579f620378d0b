package dialogue

// Scenario keys of the Amazon Basin investigation.
const (
	KeyIntro           Key = "intro"
	KeyClueSelection   Key = "clue_selection"
	KeyMODISAnalysis   Key = "modis_analysis"
	KeyASTERAnalysis   Key = "aster_analysis"
	KeyMISRAnalysis    Key = "misr_analysis"
	KeyVerdict         Key = "verdict"
	KeyMissionComplete Key = "mission_complete"
	KeySolutions       Key = "solutions"
	KeyMissionSummary  Key = "mission_summary"
	KeyTeamCredits     Key = "team_credits"
	KeyNASAInfo        Key = "nasa_info"
)

// RetryPrompt is shown together with the feedback of a wrong answer.
const RetryPrompt = "Let's try again. Look carefully at the data and make your best assessment."

// AmazonInvestigation is the scripted deforestation case told by Commander Terra.
func AmazonInvestigation() []Scenario {
	return []Scenario{
		{
			Key:  KeyIntro,
			Kind: KindCheckpoint,
			Message: "Welcome, Earth Detective! I'm Commander Terra. We've detected unusual activity in the Amazon " +
				"Basin. Ready to investigate?",
			Choices: []Choice{
				{Text: "Yes, let's investigate!", Correct: true, Next: KeyClueSelection},
				{Text: "I need more information first", Feedback: "Time is critical in environmental " +
					"investigations. Let's start with what we have and build from there."},
			},
			ShowProgress: true,
		},
		{
			Key:  KeyClueSelection,
			Kind: KindCheckpoint,
			Message: "Great! Our Terra instruments detected three anomalies. Which instrument should we examine " +
				"first to understand the deforestation pattern?",
			Choices: []Choice{
				{Text: "MODIS - Long-term vegetation data", Correct: true, Next: KeyMODISAnalysis},
				{Text: "ASTER - High-resolution imagery", Feedback: "ASTER is great for details! But we need the " +
					"big picture first. MODIS shows long-term trends that help us understand the overall pattern."},
				{Text: "MISR - Aerosol tracking", Feedback: "MISR is important for atmospheric effects! But first, " +
					"let's see what's happening to the vegetation itself with MODIS."},
			},
			ShowProgress: true,
		},
		{
			Key:     KeyMODISAnalysis,
			Kind:    KindCheckpoint,
			Message: "Perfect! Now examine the MODIS data. What does this show about forest health?",
			Choices: []Choice{
				{Text: "The forest is recovering", Feedback: "The NDVI values are actually decreasing over time. " +
					"Higher values indicate healthier vegetation, so the declining trend shows vegetation loss."},
				{Text: "The forest is losing vegetation", Correct: true, Next: KeyASTERAnalysis},
				{Text: "The data is inconclusive", Feedback: "The NDVI trend is actually quite clear - decreasing " +
					"values consistently indicate vegetation loss. The pattern shows a steady decline."},
			},
			ShowProgress: true,
			Clue:         "modis",
		},
		{
			Key:  KeyASTERAnalysis,
			Kind: KindCheckpoint,
			Message: "Now examine the ASTER imagery to see the before/after comparison. Look at the clearing " +
				"patterns. What do you observe?",
			Choices: []Choice{
				{Text: "Natural forest fires", Feedback: "The clearing patterns are very geometric and systematic " +
					"- this suggests human activity rather than natural fire spread, which typically follows more " +
					"organic, irregular boundaries."},
				{Text: "Systematic deforestation", Correct: true, Next: KeyMISRAnalysis},
				{Text: "Seasonal changes", Feedback: "The ASTER imagery shows permanent, structural changes to the " +
					"landscape rather than temporary seasonal variations. The patterns indicate long-term, " +
					"systematic alteration of the forest structure."},
			},
			ShowProgress: true,
			Clue:         "aster",
		},
		{
			Key:  KeyMISRAnalysis,
			Kind: KindCheckpoint,
			Message: "Now examine the MISR data to see the aerosol visualization. Look at the smoke plume " +
				"patterns. What does this tell us about the consequences?",
			Choices: []Choice{
				{Text: "No significant impact", Feedback: "The MISR data shows massive aerosol plumes that extend " +
					"far beyond the immediate deforestation area. These plumes represent significant air quality " +
					"degradation that affects thousands of people in surrounding communities."},
				{Text: "Major air quality impact on communities", Correct: true, Next: KeyVerdict},
				{Text: "Only local effects", Feedback: "Aerosol plumes from deforestation can travel hundreds of " +
					"kilometers downwind, affecting air quality in many communities far from the original source. " +
					"The MISR data shows these widespread atmospheric effects."},
			},
			ShowProgress: true,
			Clue:         "misr",
		},
		{
			Key:  KeyVerdict,
			Kind: KindCheckpoint,
			Message: "Excellent work! You've examined all the data - MODIS vegetation trends, ASTER imagery, and " +
				"MISR aerosol patterns. Based on this evidence, what's your verdict on the cause?",
			Choices: []Choice{
				{Text: "Natural climate change", Feedback: "The evidence shows systematic, geometric patterns of " +
					"deforestation that are characteristic of human activity rather than natural climate-driven " +
					"changes. The systematic nature of the clearing suggests deliberate human intervention."},
				{Text: "Human-caused deforestation and fires", Correct: true, Next: KeyMissionComplete},
				{Text: "Unknown causes", Feedback: "The evidence tells a clear story: the systematic patterns in " +
					"ASTER imagery, combined with the NDVI decline in MODIS data and the aerosol plumes in MISR " +
					"data, all point to human-caused deforestation with significant environmental consequences."},
			},
			ShowProgress: true,
		},
		{
			Key:  KeyMissionComplete,
			Kind: KindBriefing,
			Message: "🎉 Outstanding work, Detective! You've successfully identified human-caused deforestation in " +
				"the Amazon Basin. Your investigation revealed systematic destruction of forest ecosystems and its " +
				"impact on air quality for over 500,000 people. This is a critical environmental crisis that " +
				"demands immediate attention.",
			Links: []Link{
				{Text: "Learn What This Means & How to Take Action", Next: KeySolutions},
				{Text: "Learn More About NASA's Earth Science", Next: KeyNASAInfo},
			},
			ShowProgress: true,
		},
		{
			Key:  KeySolutions,
			Kind: KindBriefing,
			Message: "🌍 What This Means: Your investigation revealed systematic deforestation affecting over " +
				"500,000 people. This isn't just about trees - it's accelerating climate change, destroying " +
				"biodiversity, and threatening human health.\n\n🚀 How to Take Action: Support sustainable " +
				"agriculture and reforestation projects, advocate for stronger environmental policies, reduce your " +
				"carbon footprint, educate others about deforestation impacts, and support organizations fighting " +
				"deforestation. Every action counts in protecting our planet!",
			Links: []Link{
				{Text: "View Mission Summary", Next: KeyMissionSummary},
				{Text: "Learn More About NASA's Earth Science", Next: KeyNASAInfo},
			},
		},
		{
			Key:  KeyMissionSummary,
			Kind: KindBriefing,
			Message: "🎯 Mission Summary: You successfully identified human-caused deforestation in the Amazon " +
				"Basin using NASA satellite data. Your investigation revealed a 15% NDVI decline from MODIS data, " +
				"clear before/after deforestation patterns in ASTER imagery, and aerosol plumes affecting " +
				"500,000+ people from MISR data. This demonstrates the power of satellite data in environmental " +
				"monitoring and the urgent need for action.",
			Links: []Link{
				{Text: "Learn More About NASA's Earth Science", Next: KeyNASAInfo},
				{Text: "View Team Credits", Next: KeyTeamCredits},
			},
		},
		{
			Key:  KeyTeamCredits,
			Kind: KindBriefing,
			Message: "This investigation was made possible by our amazing team of Earth scientists and developers. " +
				"Thank you for helping protect our planet!",
			Links: []Link{
				{Text: "Learn More About NASA", Next: KeyNASAInfo},
				{Text: "Back to Home", Next: KeyIntro},
			},
		},
		{
			Key:  KeyNASAInfo,
			Kind: KindBriefing,
			Message: "🌍 NASA's Earth Science Division uses satellite data to monitor our planet's health. Your " +
				"investigation skills mirror those of real NASA scientists!\n\n🛰️ Where to Find NASA Data: Access " +
				"the NASA Earth Data Portal (earthdata.nasa.gov), MODIS data (modis.gsfc.nasa.gov), ASTER data " +
				"(asterweb.jpl.nasa.gov), MISR data (misr.jpl.nasa.gov), and real-time Earth observations " +
				"(worldview.earthdata.nasa.gov). These tools are used by scientists worldwide to monitor " +
				"deforestation, climate change, and environmental health!",
			Links: []Link{
				{Text: "Back to Main Menu", Next: KeyIntro},
			},
		},
	}
}

// NewAmazonTree builds the validated tree of [AmazonInvestigation].
func NewAmazonTree() (*Tree, error) {
	return NewTree(KeyIntro, AmazonInvestigation()...)
}

package domain

// AdviceSection is one titled group of mitigation tips.
type AdviceSection struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

// MitigationAdvice returns the fixed landslide mitigation guidance. The content
// does not depend on any stored reading.
func MitigationAdvice() []AdviceSection {
	return []AdviceSection{
		{
			Title: "Continuous Monitoring",
			Points: []string{
				"Watch for signs of ground movement: cracks, leaning trees or posts, water muddier than usual.",
				"Stay tuned to civil defense alerts and monitoring systems.",
				"Report any sign of danger to civil defense (199) immediately.",
			},
		},
		{
			Title: "Proper Drainage",
			Points: []string{
				"Keep gutters, ditches and drainage systems clean and unobstructed.",
				"Avoid water pooling on slopes and inclined ground.",
				"Build channels that carry rainwater to safe places away from slopes.",
			},
		},
		{
			Title: "Vegetation Cover",
			Points: []string{
				"Plant grass and native vegetation on slopes so roots help stabilize the soil.",
				"Avoid clearing or burning vegetation in risk areas or on slopes.",
				"Do not dump garbage or rubble on slopes; it blocks vegetation and can clog drainage.",
			},
		},
		{
			Title: "Safe Construction",
			Points: []string{
				"Do not build in known risk areas or on steep slopes without a professional technical assessment.",
				"Consult an engineer for slope retention projects when needed.",
				"Avoid cuts and fills that compromise ground stability without technical guidance.",
			},
		},
		{
			Title: "During an Alert or Imminent Risk",
			Points: []string{
				"Evacuate immediately to a safe, high location.",
				"Warn neighbors and help people with limited mobility (elderly, children, people with disabilities).",
				"Contact civil defense (phone 199) and follow their instructions.",
				"Do not return to the risk area until the authorities clear it.",
			},
		},
	}
}

package domain

import (
	"fmt"
	"strings"
)

// replyRule answers a chat message when any of its keywords appears in it.
type replyRule struct {
	keywords []string
	reply    func(observations []Observation) string
}

// replyRules are checked in order; the first match wins.
var replyRules = []replyRule{
	{
		keywords: []string{"weather", "alert", "warning"},
		reply: func([]Observation) string {
			return "Active warnings: frost in Western Cape, heavy rainfall in KwaZulu-Natal and strong wind in Free State. " +
				"Conditions refresh every 30 minutes. Ask about a province for details."
		},
	},
	{
		keywords: []string{"temperature", "hot", "sunny"},
		reply:    temperatureReply,
	},
	{
		keywords: []string{"province", "location"},
		reply: func([]Observation) string {
			names := make([]string, 0, len(regions))
			for _, r := range regions {
				names = append(names, r.Name)
			}
			return fmt.Sprintf("Live conditions are available for all %d provinces: %s. Which one do you need?",
				len(names), strings.Join(names, ", "))
		},
	},
	{
		keywords: []string{"frost", "cold"},
		reply: func([]Observation) string {
			return "Frost warning for Western Cape: temperatures may fall below -2°C tonight. " +
				"Cover sensitive crops, shelter livestock and bring potted plants indoors."
		},
	},
	{
		keywords: []string{"rain", "flood"},
		reply: func([]Observation) string {
			return "Heavy rainfall alert for KwaZulu-Natal over the next 48 hours, with flooding likely in low-lying areas. " +
				"Clear drainage channels and move equipment to higher ground."
		},
	},
	{
		keywords: []string{"wind", "storm"},
		reply: func([]Observation) string {
			return "Wind advisory for Free State: gusts up to 60 km/h. " +
				"Secure greenhouse panels, tie down equipment and check buildings for loose structures."
		},
	},
	{
		keywords: []string{"emergency", "help", "sos"},
		reply: func([]Observation) string {
			return "For an immediate emergency call 10111. You can also file an emergency report so local authorities are notified."
		},
	},
	{
		keywords: []string{"crop", "farm", "agriculture"},
		reply: func([]Observation) string {
			return "Agricultural safety tips:\n" +
				"• Frost: cover sensitive plants and shelter livestock\n" +
				"• Flooding: clear drainage and move equipment to higher ground\n" +
				"• Wind: secure greenhouse structures and equipment\n" +
				"• Keep emergency numbers at hand: 10111 (emergency), 10177 (police)"
		},
	},
	{
		keywords: []string{"thank"},
		reply: func([]Observation) string {
			return "You're welcome. Stay safe, and reach out whenever you need an update."
		},
	},
}

// Reply produces the assistant's scripted answer to a chat message.
// observations supply the live temperatures quoted in replies.
func Reply(message string, observations []Observation) string {
	input := strings.ToLower(message)
	for _, rule := range replyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(input, kw) {
				return rule.reply(observations)
			}
		}
	}
	return "I can help with:\n" +
		"• Current weather warnings\n" +
		"• Live conditions per province\n" +
		"• Emergency procedures and reporting\n" +
		"• Agricultural safety tips\n" +
		"What would you like to know?"
}

func temperatureReply(observations []Observation) string {
	if len(observations) == 0 {
		return "Live temperatures are not available yet. Please try again shortly."
	}
	parts := make([]string, 0, len(observations))
	for _, o := range observations {
		parts = append(parts, fmt.Sprintf("%s: %g°C", o.Region, o.Temperature))
	}
	return "Current temperatures: " + strings.Join(parts, ", ") + "."
}

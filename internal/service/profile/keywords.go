package profile

// TopicRule maps a topic label to the substrings that trigger it.
// The tables below are configuration data; pass your own rules to New to
// extend detection without touching the algorithm.
type TopicRule struct {
	Label    string
	Triggers []string
}

// DefaultTopics covers the conversation themes the companion keeps track
// of. Triggers are matched case-folded, Korean first.
var DefaultTopics = []TopicRule{
	{Label: "health", Triggers: []string{
		"건강", "아프", "병원", "약", "몸이", "허리", "무릎",
		"health", "sick", "pain", "hospital", "medicine", "doctor",
	}},
	{Label: "family", Triggers: []string{
		"가족", "아들", "딸", "손주", "손자", "며느리", "자식",
		"family", "son", "daughter", "grandchild", "grandson",
	}},
	{Label: "loneliness", Triggers: []string{
		"외로", "혼자", "쓸쓸", "심심", "적적",
		"lonely", "alone", "bored",
	}},
	{Label: "money", Triggers: []string{
		"돈", "연금", "생활비", "비싸",
		"money", "pension", "expensive", "bills",
	}},
	{Label: "daily-life", Triggers: []string{
		"밥", "식사", "잠", "산책", "날씨", "텔레비전",
		"meal", "sleep", "walk", "weather",
	}},
}

// DefaultConcernTriggers flag negative affect; a match turns the most recent
// matching message into a remembered concern excerpt.
var DefaultConcernTriggers = []string{
	"걱정", "불안", "힘들", "무섭", "아프", "슬프", "답답",
	"worried", "worry", "anxious", "afraid", "scared", "difficult", "hard", "sad",
}

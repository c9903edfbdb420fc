package chat

import "strings"

type Category string

const (
	CategoryGreeting   Category = "hello"
	CategoryIdentity   Category = "name"
	CategoryContact    Category = "contact"
	CategoryExam       Category = "jee"
	CategoryUniversity Category = "university"
	CategoryYouTube    Category = "youtube"
	CategorySkills     Category = "skills"
	CategoryProjects   Category = "projects"
	CategoryLocation   Category = "location"
	CategoryHobby      Category = "hobby"
	CategoryDefault    Category = "default"
)

var cannedReplies = map[Category]string{
	CategoryContact:    "You can reach Zeeshan at mdzeeshan08886@gmail.com or call +91 9088260058. He's also on LinkedIn at linkedin.com/in/tipz-gaming-1431262a5! 📬",
	CategoryExam:       "Zeeshan achieved JEE Advanced Rank 9,591 and JEE Mains Rank 21,571 — a remarkable feat! He now channels that experience into mentoring JEE aspirants through his YouTube channel. 🎯",
	CategoryUniversity: "Zeeshan is pursuing B.E. in Information Technology at Jadavpur University — consistently ranked among India's top engineering institutions. 🎓",
	CategoryYouTube:    "Zeeshan has been running a YouTube channel since 2022, dedicated to JEE guidance and mentorship. He helps thousands of students crack one of the toughest exams in India! 📺",
	CategorySkills:     "Zeeshan is skilled in Python, HTML/CSS, JavaScript, and React (beginner-intermediate level), plus advanced video editing with DaVinci Resolve and Premiere Pro. He also has strong soft skills in problem-solving and analytical thinking. 💻",
	CategoryProjects:   "Zeeshan's key projects include his YouTube JEE mentorship channel, this portfolio website, and a video editing internship. His motto is 'Rational Thinking Only' — and it shows in his work! 🚀",
	CategoryLocation:   "Zeeshan is based in Kolkata, India and is currently a student at Jadavpur University. 📍",
	CategoryHobby:      "Beyond tech and studies, Zeeshan enjoys gaming, writing, and music. 🎮🎵",
	CategoryGreeting:   "Hey there! 👋 I'm Zeeshan's AI assistant. I can tell you all about his education, JEE journey, skills, projects, and how to reach him. What would you like to know?",
	CategoryIdentity:   "MD Zeeshan (Mohammed Zeeshan) is an IT student at Jadavpur University, a JEE mentor, and content creator from Kolkata, India.",
	CategoryDefault:    "That's a great question! I'm Zeeshan's portfolio assistant. I can help with info about his education, JEE ranks, skills, projects, or contact details. Try asking one of those! 😊",
}

type rule struct {
	category Category
	keywords []string // substring match
	exact    []string // whole-message match
}

// priority is evaluated top to bottom and the first hit wins. Keyword sets
// overlap ("hi" is inside "him", "edit" inside "editing"), so reordering
// rows changes which reply a message gets.
//
//	 #  category    keywords
//	 1  greeting    hi hello hey | exact: yes ok
//	 2  identity    name who
//	 3  contact     contact email phone reach linkedin
//	 4  exam        jee rank exam iit
//	 5  university  university college jadavpur education study degree
//	 6  youtube     youtube channel video mentor
//	 7  skills      skill python react code javascript programming tech
//	 8  projects    project work edit portfolio
//	 9  location    location kolkata india where
//	10  hobby       hobby hobbies game music interest
//	 -  default
var priority = []rule{
	{category: CategoryGreeting, keywords: []string{"hi", "hello", "hey"}, exact: []string{"yes", "ok"}},
	{category: CategoryIdentity, keywords: []string{"name", "who"}},
	{category: CategoryContact, keywords: []string{"contact", "email", "phone", "reach", "linkedin"}},
	{category: CategoryExam, keywords: []string{"jee", "rank", "exam", "iit"}},
	{category: CategoryUniversity, keywords: []string{"university", "college", "jadavpur", "education", "study", "degree"}},
	{category: CategoryYouTube, keywords: []string{"youtube", "channel", "video", "mentor"}},
	{category: CategorySkills, keywords: []string{"skill", "python", "react", "code", "javascript", "programming", "tech"}},
	{category: CategoryProjects, keywords: []string{"project", "work", "edit", "portfolio"}},
	{category: CategoryLocation, keywords: []string{"location", "kolkata", "india", "where"}},
	{category: CategoryHobby, keywords: []string{"hobby", "hobbies", "game", "music", "interest"}},
}

// Categorize returns the first category in the priority table whose
// keywords appear in message.
func Categorize(message string) Category {
	msg := strings.ToLower(message)
	for _, r := range priority {
		if r.matches(msg) {
			return r.category
		}
	}
	return CategoryDefault
}

// Classify returns the canned reply for message. It never returns "".
func Classify(message string) string {
	return CannedReply(Categorize(message))
}

// CannedReply returns the fixed text for a category, or the default reply
// for an unknown one.
func CannedReply(c Category) string {
	if reply, ok := cannedReplies[c]; ok {
		return reply
	}
	return cannedReplies[CategoryDefault]
}

func (r rule) matches(msg string) bool {
	for _, e := range r.exact {
		if msg == e {
			return true
		}
	}
	for _, kw := range r.keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

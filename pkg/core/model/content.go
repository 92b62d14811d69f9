package model

import "time"

// Opportunity is a volunteering programme listed on the volunteer page
type Opportunity struct {
	Title       string
	Location    string
	Time        string
	Description string
	Skills      []string
	// Schedule is an optional RFC 5545 RRULE. Empty means the programme has no fixed sessions.
	Schedule string
	// NextSession is filled in when the page is rendered
	NextSession *time.Time
}

type ImpactArea struct {
	Title       string
	Description string
	Stat        string
}

type Testimonial struct {
	Quote  string
	Author string
	Role   string
}

type TeamMember struct {
	Name string
	Role string
	Bio  string
}

type Value struct {
	Title       string
	Description string
}

type Stat struct {
	Figure string
	Label  string
}

var DefaultOpportunities = []Opportunity{
	{
		Title:       "Community Garden Project",
		Location:    "Local Communities",
		Time:        "Weekends",
		Description: "Help establish sustainable food gardens in underserved communities.",
		Skills:      []string{"Gardening", "Community Outreach", "Environmental"},
		Schedule:    "FREQ=WEEKLY;BYDAY=SA;BYHOUR=9;BYMINUTE=0;BYSECOND=0",
	},
	{
		Title:       "Education Support",
		Location:    "Schools & Centers",
		Time:        "Flexible",
		Description: "Assist with tutoring, mentoring, and educational program development.",
		Skills:      []string{"Teaching", "Mentoring", "Curriculum Development"},
	},
	{
		Title:       "Digital Literacy Training",
		Location:    "Community Centers",
		Time:        "Evenings",
		Description: "Teach basic computer and internet skills to adults and seniors.",
		Skills:      []string{"Technology", "Training", "Patience"},
		Schedule:    "FREQ=WEEKLY;BYDAY=TU,TH;BYHOUR=18;BYMINUTE=30;BYSECOND=0",
	},
	{
		Title:       "Event Organization",
		Location:    "Various Venues",
		Time:        "Event-based",
		Description: "Help plan and execute fundraising events and community gatherings.",
		Skills:      []string{"Event Planning", "Coordination", "Communication"},
	},
}

var ImpactAreas = []ImpactArea{
	{
		Title:       "Education & Literacy",
		Description: "Providing quality education and literacy programs to underserved communities worldwide.",
		Stat:        "15,000+ students supported",
	},
	{
		Title:       "Environmental Conservation",
		Description: "Protecting our planet through sustainable practices and conservation initiatives.",
		Stat:        "50+ reforestation projects",
	},
	{
		Title:       "Healthcare Access",
		Description: "Ensuring basic healthcare reaches remote and marginalized communities.",
		Stat:        "100+ health clinics supported",
	},
	{
		Title:       "Community Development",
		Description: "Empowering communities to build sustainable livelihoods and infrastructure.",
		Stat:        "200+ communities transformed",
	},
}

var Testimonials = []Testimonial{
	{
		Quote:  "Volunteering with HopeConnect changed my perspective on life. I've seen firsthand how small actions can create ripple effects of positive change.",
		Author: "Maria Santos",
		Role:   "Volunteer since 2020",
	},
	{
		Quote:  "The education program helped my daughter learn to read. Now she dreams of becoming a teacher to help other children in our village.",
		Author: "James Kiprotich",
		Role:   "Community Member, Kenya",
	},
	{
		Quote:  "Being part of this organization means being part of a family that truly cares about making the world a better place.",
		Author: "Dr. Sarah Ahmed",
		Role:   "Medical Volunteer",
	},
}

var TeamMembers = []TeamMember{
	{Name: "Sarah Johnson", Role: "Executive Director", Bio: "15+ years in nonprofit leadership, passionate about sustainable development."},
	{Name: "Michael Chen", Role: "Program Manager", Bio: "Expert in community outreach with a background in social work."},
	{Name: "Dr. Aisha Patel", Role: "Research Director", Bio: "PhD in Environmental Science, leading our impact measurement initiatives."},
	{Name: "David Rodriguez", Role: "Operations Director", Bio: "Former corporate strategist, now dedicated to optimizing our mission delivery."},
}

var Values = []Value{
	{Title: "Compassion", Description: "We lead with empathy and understanding in everything we do."},
	{Title: "Impact", Description: "We focus on measurable, sustainable change in communities."},
	{Title: "Collaboration", Description: "We believe in the power of working together towards common goals."},
	{Title: "Global Reach", Description: "We think globally while acting locally in diverse communities."},
}

var ImpactStats = []Stat{
	{Figure: "8", Label: "Years of Service"},
	{Figure: "50+", Label: "Countries Served"},
	{Figure: "100+", Label: "Active Projects"},
	{Figure: "1M+", Label: "Lives Touched"},
}

var VolunteerReasons = []Value{
	{Title: "Make Real Impact", Description: "See the direct results of your efforts in the communities we serve. Every hour you contribute creates meaningful change."},
	{Title: "Join a Community", Description: "Connect with like-minded individuals who share your passion for making a difference. Build lasting friendships and networks."},
	{Title: "Develop Skills", Description: "Gain valuable experience, learn new skills, and enhance your professional development while contributing to a worthy cause."},
}

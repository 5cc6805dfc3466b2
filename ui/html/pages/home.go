package pages

type Feature struct {
	Title       string
	Description string
	Image       string
}

type Testimonial struct {
	Name        string
	Designation string
	Company     string
	Text        string
}

var features = []Feature{
	{"Discover Hidden Deals", "Uncover exclusive offers and limited-time discounts.", "/static/img/cake.svg"},
	{"Trusted by Thousands", "Shop with confidence with verified user reviews.", "/static/img/cookies.svg"},
	{"Shop Smarter", "Get instant recommendations tailored to your taste.", "/static/img/candy.svg"},
}

var testimonials = []Testimonial{
	{
		Name:        "Aisha Rahman",
		Designation: "Food Blogger",
		Company:     "TastyTravels",
		Text:        "Kata Sweet Shop is a hidden gem! Their sweets are rich, authentic, and always fresh. Every visit feels like a journey through childhood flavors.",
	},
	{
		Name:        "Ahmed Malik",
		Designation: "Local Resident",
		Company:     "Regular Customer",
		Text:        "I've been a loyal customer for over 3 years. Their mithai is the best in town, soft and flavorful. Kata never disappoints.",
	},
	{
		Name:        "Fatima Siddiqui",
		Designation: "Event Planner",
		Company:     "Elegant Events",
		Text:        "We source our sweets from Kata for corporate events and weddings. Presentation and taste are exceptional.",
	},
	{
		Name:        "Bibi Jaan",
		Designation: "Retired School Teacher",
		Company:     "Loyal Elder Customer",
		Text:        "The barfi, gulab jamun and laddoos taste just like they did decades ago.",
	},
}

package planner

// Activity is one suggestible activity with the weather categories it
// suits. The tables below are package-private and never mutated; all
// operations iterate them read-only.
type Activity struct {
	Name            string
	Description     string
	SuitableWeather []Category
	Duration        string
	Type            string
}

// Restaurant is one curated restaurant entry.
type Restaurant struct {
	Name      string
	Type      string
	Price     string
	Specialty string
}

var indoorActivities = []Activity{
	{
		Name:            "Museums and Art Galleries",
		Description:     "Visit museums, galleries, exhibitions",
		SuitableWeather: []Category{CategoryRain, CategoryCold, CategorySnow},
		Duration:        "2-4 hours",
		Type:            "culture",
	},
	{
		Name:            "Shopping Centers",
		Description:     "Malls, covered boutiques",
		SuitableWeather: []Category{CategoryRain, CategoryCold, CategoryHot},
		Duration:        "2-3 hours",
		Type:            "shopping",
	},
	{
		Name:            "Cinema or Theater",
		Description:     "Movies, theater shows, indoor concerts",
		SuitableWeather: []Category{CategoryRain, CategoryCold, CategoryHot},
		Duration:        "2-3 hours",
		Type:            "entertainment",
	},
	{
		Name:            "Spa and Wellness Centers",
		Description:     "Relaxation, massages, thermal baths",
		SuitableWeather: []Category{CategoryRain, CategoryCold},
		Duration:        "2-4 hours",
		Type:            "relax",
	},
	{
		Name:            "Historic Restaurants and Cafes",
		Description:     "Indoor food tour",
		SuitableWeather: []Category{CategoryRain, CategoryCold, CategoryHot},
		Duration:        "1-2 hours",
		Type:            "food",
	},
}

var outdoorActivities = []Activity{
	{
		Name:            "Parks and Gardens",
		Description:     "Walks, picnics, outdoor relaxation",
		SuitableWeather: []Category{CategorySunny, CategoryMild, CategoryPartlyCloudy},
		Duration:        "1-3 hours",
		Type:            "nature",
	},
	{
		Name:            "Architectural Walking Tours",
		Description:     "Discover monuments and architecture",
		SuitableWeather: []Category{CategorySunny, CategoryMild, CategoryPartlyCloudy},
		Duration:        "2-4 hours",
		Type:            "culture",
	},
	{
		Name:            "Open-Air Markets",
		Description:     "Local markets, street food",
		SuitableWeather: []Category{CategorySunny, CategoryMild},
		Duration:        "1-2 hours",
		Type:            "shopping",
	},
	{
		Name:            "Sports Activities",
		Description:     "Cycling, jogging, sports",
		SuitableWeather: []Category{CategorySunny, CategoryMild},
		Duration:        "1-3 hours",
		Type:            "sport",
	},
	{
		Name:            "Open-Air Aperitivo",
		Description:     "Bars with terraces, rooftops",
		SuitableWeather: []Category{CategorySunny, CategoryMild},
		Duration:        "1-2 hours",
		Type:            "food",
	},
}

var mixedActivities = []Activity{
	{
		Name:            "Guided City Tours",
		Description:     "Tourist buses, mixed guided tours",
		SuitableWeather: []Category{CategoryAny},
		Duration:        "3-4 hours",
		Type:            "culture",
	},
	{
		Name:            "Cooking Class",
		Description:     "Local cooking courses",
		SuitableWeather: []Category{CategoryAny},
		Duration:        "2-3 hours",
		Type:            "food",
	},
}

var restaurantsByCity = map[string][]Restaurant{
	"Milano": {
		{Name: "Trattoria Milanese", Type: "traditional", Price: "€€", Specialty: "Milanese cuisine"},
		{Name: "Luini", Type: "street_food", Price: "€", Specialty: "Panzerotti"},
		{Name: "Eataly Smeraldo", Type: "food_hall", Price: "€€", Specialty: "Italian products"},
	},
	"Roma": {
		{Name: "Roscioli", Type: "bistrot", Price: "€€€", Specialty: "Roman cuisine"},
		{Name: "Trapizzino", Type: "street_food", Price: "€", Specialty: "Trapizzini"},
	},
}

// defaultRestaurants covers any city without a curated list.
var defaultRestaurants = []Restaurant{
	{Name: "Local Restaurant", Type: "traditional", Price: "€€", Specialty: "Local cuisine"},
}

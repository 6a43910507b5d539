package instagram

// PopularProfile is a suggested account shown before the first search
type PopularProfile struct {
	Username string
	Name     string
	Category string
}

// PopularProfiles are offered as one-click searches
var PopularProfiles = []PopularProfile{
	{Username: "cristiano", Name: "Cristiano Ronaldo", Category: "Sport"},
	{Username: "leomessi", Name: "Lionel Messi", Category: "Sport"},
	{Username: "kyliejenner", Name: "Kylie Jenner", Category: "Influencer"},
	{Username: "therock", Name: "Dwayne Johnson", Category: "Entertainment"},
	{Username: "selenagomez", Name: "Selena Gomez", Category: "Music"},
	{Username: "kimkardashian", Name: "Kim Kardashian", Category: "Influencer"},
	{Username: "beyonce", Name: "Beyoncé", Category: "Music"},
	{Username: "justinbieber", Name: "Justin Bieber", Category: "Music"},
	{Username: "arianagrande", Name: "Ariana Grande", Category: "Music"},
	{Username: "kendalljenner", Name: "Kendall Jenner", Category: "Fashion"},
	{Username: "taylorswift", Name: "Taylor Swift", Category: "Music"},
	{Username: "neymarjr", Name: "Neymar Jr", Category: "Sport"},
}

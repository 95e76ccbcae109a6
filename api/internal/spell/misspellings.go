package spell

// CommonMisspellings maps frequent misspellings to their corrections. It
// backs both the replacement table consulted before distance ranking and the
// static fallback used when no dictionary is available.
var CommonMisspellings = map[string]string{
	"teh":         "the",
	"seperate":    "separate",
	"recieve":     "receive",
	"recieved":    "received",
	"doctr":       "doctor",
	"definately":  "definitely",
	"occured":     "occurred",
	"untill":      "until",
	"wich":        "which",
	"becuase":     "because",
	"adress":      "address",
	"accomodate":  "accommodate",
	"acheive":     "achieve",
	"begining":    "beginning",
	"beleive":     "believe",
	"calender":    "calendar",
	"commited":    "committed",
	"enviroment":  "environment",
	"goverment":   "government",
	"neccessary":  "necessary",
	"occurence":   "occurrence",
	"tommorow":    "tomorrow",
	"tomorow":     "tomorrow",
	"truely":      "truly",
	"wierd":       "weird",
	"existance":   "existence",
	"independant": "independent",
	"publically":  "publicly",
	"recomend":    "recommend",
	"succesful":   "successful",
	"thier":       "their",
	"alot":        "a lot",
	"shedule":     "schedule",
	"emial":       "email",
	"promt":       "prompt",
}

// doubledLetterFixes are whole-word fixes for doubled-letter typos of short
// common words. They join the misspelling table.
var doubledLetterFixes = []struct{ from, to string }{
	{"mistt", "mist"},
	{"helpp", "help"},
	{"thiss", "this"},
	{"withh", "with"},
	{"thatt", "that"},
	{"whatt", "what"},
	{"andd", "and"},
	{"forr", "for"},
	{"yourr", "your"},
	{"fromm", "from"},
}

package gci

// brevityNames maps DCS type designators to the NATO reporting names and
// nicknames pilots actually use on the radio.
var brevityNames = map[string]string{
	"Tornado GR4":    "tornado",
	"Tornado IDS":    "tornado",
	"F/A-18A":        "hornet",
	"F/A-18C":        "hornet",
	"FA-18C_hornet":  "hornet",
	"F-14A":          "tomcat",
	"F-14B":          "tomcat",
	"F-14A-135-GR":   "tomcat",
	"Tu-22M3":        "backfire",
	"F-4E":           "phantom",
	"B-52H":          "stratofortress",
	"MiG-23MLD":      "flogger",
	"MiG-27K":        "flogger",
	"Su-27":          "flanker",
	"Su-30":          "flanker",
	"Su-33":          "flanker",
	"J-11A":          "flanker",
	"Su-25":          "frogfoot",
	"Su-25TM":        "frogfoot",
	"Su-25T":         "frogfoot",
	"MiG-25PD":       "foxbat",
	"MiG-25RBT":      "foxbat",
	"Su-17M4":        "fitter",
	"MiG-31":         "foxhound",
	"Tu-95MS":        "bear",
	"Tu-142":         "bear",
	"Su-24M":         "fencer",
	"Su-24MR":        "fencer",
	"Tu-160":         "blackjack",
	"F-117A":         "nighthawk",
	"B-1B":           "lancer",
	"S-3B":           "viking",
	"S-3B Tanker":    "viking",
	"M-2000C":        "mirage",
	"Mirage 2000-5":  "mirage",
	"F-15C":          "eagle",
	"F-15E":          "eagle",
	"F-15ESE":        "eagle",
	"MiG-29A":        "fulcrum",
	"MiG-29G":        "fulcrum",
	"MiG-29S":        "fulcrum",
	"C-130":          "hercules",
	"An-26B":         "curl",
	"An-30M":         "clank",
	"C-17A":          "globemaster",
	"A-50":           "mainstay",
	"E-3A":           "sentry",
	"IL-78M":         "midas",
	"E-2C":           "hawkeye",
	"IL-76MD":        "candid",
	"F-16A":          "viper",
	"F-16A MLU":      "viper",
	"F-16C_50":       "viper",
	"F-16C bl.50":    "viper",
	"F-16C bl.52d":   "viper",
	"RQ-1A Predator": "predator",
	"Yak-40":         "codling",
	"KC-130":         "hercules tanker",
	"KC-135":         "stratotanker",
	"KC135MPRS":      "stratotanker",
	"A-20G":          "havok",
	"A-10A":          "warthog",
	"A-10C":          "warthog",
	"A-10C_2":        "warthog",
	"AJS37":          "viggen",
	"AV8BNA":         "harrier",
	"C-101EB":        "aviojet",
	"C-101CC":        "aviojet",
	"JF-17":          "thunder",
	"KJ-2000":        "mainring",
	"WingLoong-I":    "wing loong",
	"F-5E":           "tiger",
	"F-5E-3":         "tiger",
	"F-86F Sabre":    "saber",
	"Hawk":           "hawk",
	"L-39C":          "albatros",
	"L-39ZA":         "albatros",
	"MQ-9 Reaper":    "reaper",
	"MiG-15bis":      "fagot",
	"MiG-19P":        "farmer",
	"MiG-21Bis":      "fishbed",
	"Su-34":          "fullback",
	"Ka-50":          "black shark",
	"Ka-50_3":        "black shark",
	"Mi-24V":         "hind",
	"Mi-24P":         "hind",
	"Mi-8MT":         "hip",
	"Mi-26":          "halo",
	"Ka-27":          "helix",
	"UH-60A":         "black hawk",
	"CH-53E":         "super stallion",
	"CH-47D":         "chinook",
	"SH-3W":          "sea king",
	"AH-64A":         "apache",
	"AH-64D":         "apache",
	"AH-64D_BLK_II":  "apache",
	"AH-1W":          "cobra",
	"SH-60B":         "seahawk",
	"UH-1H":          "huey",
	"Mi-28N":         "havoc",
	"OH-58D":         "kiowa",
	"SA342M":         "gazelle",
	"SA342L":         "gazelle",
	"SA342Mistral":   "gazelle",
	"SA342Minigun":   "gazelle",
}

// BrevityName translates an aircraft type designator into its radio
// brevity name. Designators without a known brevity name are spoken as-is;
// a missing designator reads "unknown".
func BrevityName(name *string) string {
	if name == nil {
		return "unknown"
	}
	if brevity, ok := brevityNames[*name]; ok {
		return brevity
	}
	return *name
}

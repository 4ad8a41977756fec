package nominatim

import "cineplan/internal/geo"

// aliases maps vague French regional labels to the city we actually geocode.
// Keys are stored in geo.Normalize form so accent and dash variants of the
// same label ("Île-de-France", "ile de france") land on one entry.
var aliases = map[string]string{}

func init() {
	for k, v := range map[string]string{
		"région parisienne":           "Paris, France",
		"idf":                         "Paris, France",
		"île-de-france":               "Paris, France",
		"ile de france":               "Paris, France",
		"sud":                         "Marseille, France",
		"le sud":                      "Marseille, France",
		"paca":                        "Marseille, France",
		"provence-alpes-côte d'azur":  "Marseille, France",
		"nord":                        "Lille, France",
		"le nord":                     "Lille, France",
		"hauts-de-france":             "Lille, France",
		"bretagne":                    "Rennes, France",
		"côte d'azur":                 "Nice, France",
		"rhône-alpes":                 "Lyon, France",
		"auvergne-rhône-alpes":        "Lyon, France",
		"aquitaine":                   "Bordeaux, France",
		"nouvelle-aquitaine":          "Bordeaux, France",
		"alsace":                      "Strasbourg, France",
		"grand est":                   "Strasbourg, France",
		"france":                      "Paris, France",
		"territoire français":         "Paris, France",
		"ouest":                       "Nantes, France",
		"normandie":                   "Rouen, France",
		"centre":                      "Orléans, France",
		"centre-val de loire":         "Orléans, France",
		"auvergne":                    "Clermont-Ferrand, France",
	} {
		aliases[geo.Normalize(k)] = v
	}
}

func resolveAlias(label string) (string, bool) {
	v, ok := aliases[geo.Normalize(label)]
	return v, ok
}

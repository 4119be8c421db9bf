// Package league infers a competition from a squad name using static
// rosters of the Big 5 European leagues.
package league

import "strings"

// League names as exposed throughout the pipeline.
const (
	PremierLeague = "Premier League"
	LaLiga        = "La Liga"
	Bundesliga    = "Bundesliga"
	SerieA        = "Serie A"
	Ligue1        = "Ligue 1"
	Unknown       = "Unknown"

	// All is the sentinel filter value meaning no league restriction.
	All = "All"
)

// Squad rosters, keyed exactly as squads appear in FBRef exports.
// Lookup is exact-match, case- and accent-sensitive as stored. Renamed or
// ambiguous squads not present here silently classify as Unknown.
var rosters = map[string][]string{
	PremierLeague: {
		"Arsenal", "Chelsea", "Liverpool", "Manchester City", "Manchester Utd",
		"Tottenham", "Newcastle Utd", "Brighton", "Aston Villa", "West Ham",
		"Crystal Palace", "Fulham", "Wolves", "Everton", "Brentford",
		"Nott'ham Forest", "Sheffield Utd", "Burnley", "Luton Town", "Bournemouth",
	},
	LaLiga: {
		"Real Madrid", "Barcelona", "Atlético Madrid", "Sevilla", "Real Sociedad",
		"Betis", "Villarreal", "Valencia", "Athletic Club", "Espanyol",
		"Getafe", "Osasuna", "Celta Vigo", "Mallorca", "Cádiz",
	},
	Bundesliga: {
		"Bayern Munich", "Dortmund", "RB Leipzig", "Union Berlin", "Freiburg",
		"Bayer Leverkusen", "Eintracht Frankfurt", "Wolfsburg", "Mainz 05",
		"Borussia Mönchengladbach", "Köln", "Augsburg", "Werder Bremen",
		"Schalke 04", "Hoffenheim", "VfB Stuttgart", "Hertha BSC",
	},
	SerieA: {
		"Juventus", "Inter", "AC Milan", "Napoli", "Lazio", "Roma", "Atalanta",
		"Fiorentina", "Torino", "Sassuolo", "Udinese", "Bologna", "Empoli",
		"Monza", "Lecce", "Cagliari", "Genoa", "Frosinone", "Salernitana", "Verona",
	},
	Ligue1: {
		"Paris S-G", "Marseille", "Monaco", "Lille", "Rennes", "Nice", "Lyon",
		"Montpellier", "Lens", "Strasbourg", "Nantes", "Reims", "Toulouse",
		"Lorient", "Le Havre", "Metz", "Brest", "Clermont Foot",
	},
}

var squadToLeague = buildIndex()

func buildIndex() map[string]string {
	index := make(map[string]string)
	for name, squads := range rosters {
		for _, squad := range squads {
			index[squad] = name
		}
	}
	return index
}

// Classify maps a squad name to its league. Whitespace is trimmed before
// lookup; an empty name or a squad outside the rosters returns Unknown.
func Classify(squad string) string {
	squad = strings.TrimSpace(squad)
	if squad == "" {
		return Unknown
	}
	if name, ok := squadToLeague[squad]; ok {
		return name
	}
	return Unknown
}

// Names returns the supported league names in display order.
func Names() []string {
	return []string{PremierLeague, LaLiga, Bundesliga, SerieA, Ligue1}
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// Region identifies one of the known sailing regions.
type Region string

const RegionUnknown Region = "unknown"

type regionBox struct {
	name                           Region
	latMin, latMax, lonMin, lonMax float64
	url                            string
}

const localWindsEurope = "https://en.wikipedia.org/wiki/List_of_local_winds#Europe"

// regionBoxes is ordered small to large so a position inside the British
// Isles resolves to british_isles, not the enclosing north_atlantic.
var regionBoxes = []regionBox{
	{"british_isles", 49, 61, -12, 2, localWindsEurope},
	{"western_europe_coast", 35, 50, -10, 5, localWindsEurope},
	{"north_sea_baltic", 50, 65, -5, 30, localWindsEurope},
	{"mediterranean_northwest", 38, 48, -10, 15, localWindsEurope},
	{"mediterranean_southwest", 30, 38, -10, 15, localWindsEurope},
	{"mediterranean_northeast", 38, 48, 15, 40, localWindsEurope},
	{"mediterranean_southeast", 30, 38, 15, 40, localWindsEurope},
	{"caribbean", 5, 30, -100, -50, "https://en.wikipedia.org/wiki/List_of_local_winds#Caribbean"},
	{"american_east_coast", 25, 50, -85, -60, "https://en.wikipedia.org/wiki/List_of_local_winds#North_America"},
	{"north_atlantic", 30, 60, -80, 0, ""},
}

// DetermineRegion resolves a position to a region, its display name, and a
// reference URL. Positions outside every box resolve to RegionUnknown.
func DetermineRegion(lat, lon float64) (Region, string, string) {
	if IsMissing(lat) || IsMissing(lon) {
		return RegionUnknown, "unknown", "none"
	}
	for _, r := range regionBoxes {
		if lat >= r.latMin && lat <= r.latMax && lon >= r.lonMin && lon <= r.lonMax {
			name := strings.ReplaceAll(string(r.name), "_", " ")
			name = strings.ToUpper(name[:1]) + name[1:]
			return r.name, name, r.url
		}
	}
	return RegionUnknown, "unknown", "none"
}

// defaultNormalPressure is used when no regional climatology is known.
const defaultNormalPressure = 1015.0

// monthlyNormals holds rough monthly mean sea-level pressures per region,
// January first. Coarse climatology: winter lows over the storm-track
// regions, the summer Azores ridge over the eastern Atlantic.
var monthlyNormals = map[Region][12]float64{
	"british_isles":           {1011, 1012, 1013, 1014, 1016, 1016, 1016, 1015, 1014, 1012, 1011, 1010},
	"western_europe_coast":    {1016, 1016, 1016, 1015, 1016, 1018, 1019, 1018, 1017, 1015, 1015, 1016},
	"north_sea_baltic":        {1010, 1011, 1012, 1013, 1015, 1014, 1014, 1013, 1013, 1011, 1010, 1009},
	"mediterranean_northwest": {1017, 1016, 1015, 1013, 1014, 1015, 1015, 1014, 1014, 1014, 1015, 1016},
	"mediterranean_southwest": {1018, 1017, 1016, 1014, 1014, 1015, 1014, 1013, 1014, 1015, 1016, 1018},
	"mediterranean_northeast": {1016, 1015, 1014, 1012, 1013, 1012, 1011, 1011, 1013, 1015, 1016, 1017},
	"mediterranean_southeast": {1017, 1016, 1014, 1012, 1011, 1009, 1007, 1008, 1011, 1014, 1016, 1018},
	"caribbean":               {1016, 1016, 1015, 1014, 1013, 1014, 1015, 1013, 1012, 1012, 1014, 1016},
	"american_east_coast":     {1017, 1016, 1015, 1014, 1014, 1014, 1015, 1015, 1015, 1016, 1017, 1017},
	"north_atlantic":          {1011, 1012, 1013, 1014, 1016, 1017, 1018, 1017, 1015, 1013, 1011, 1010},
}

// NormalPressure returns the climatological normal sea-level pressure for a
// region and month, falling back to a global default for unknown regions.
func NormalPressure(region Region, month time.Month) float64 {
	normals, ok := monthlyNormals[region]
	if !ok {
		return defaultNormalPressure
	}
	return normals[int(month)-1]
}

// windSystem is one named local/regional wind with its active bounding box.
type windSystem struct {
	latMin, latMax, lonMin, lonMax float64
	description                    string
	url                            string
}

var windSystemCatalog = map[string]windSystem{
	"Tramontane":        {40, 48, -10, 6, "Dry, strong N wind over Southern France and Spain.", "https://en.wikipedia.org/wiki/Tramontane"},
	"Mistral":           {38, 44, -6, 10, "Cold, dry NW wind, clearing skies in the Western Med.", "https://en.wikipedia.org/wiki/Mistral_(wind)"},
	"Libeccio":          {30, 45, -18, 10, "SW wind, stormy in autumn and winter, high waves.", "https://en.wikipedia.org/wiki/Libeccio"},
	"Sirocco":           {30, 45, -10, 25, "Hot, dusty SE wind, humid near coasts.", "https://en.wikipedia.org/wiki/Sirocco"},
	"Bora":              {38, 48, 12, 20, "Cold NE wind in the Adriatic, sudden strong gusts.", "https://en.wikipedia.org/wiki/Bora_(wind)"},
	"Meltemi":           {34, 48, 20, 30, "Strong summer winds, rough seas, strongest in afternoons.", "https://en.wikipedia.org/wiki/Etesian"},
	"Khamsin":           {25, 38, 20, 35, "Hot, dusty wind from the Sahara, lasts for days.", "https://en.wikipedia.org/wiki/Khamsin"},
	"Gregale":           {30, 42, 12, 25, "Strong NE wind from the Balkans, causes rough seas.", "https://en.wikipedia.org/wiki/Gregale"},
	"Ponente":           {36, 44, -6, 15, "Mild W wind, freshens air and clears skies.", "https://en.wikipedia.org/wiki/West_wind"},
	"Jugo":              {38, 45, 12, 20, "Warm, humid SE wind, bringing storms and rough seas.", "https://en.wikipedia.org/wiki/Sirocco"},
	"Ghibli":            {25, 40, 10, 20, "Intense, hot desert wind, causes sandstorms.", "https://en.wikipedia.org/wiki/Sirocco"},
	"Ostro":             {30, 45, 5, 20, "Warm, humid S wind from Africa, linked to Sirocco.", "https://en.wikipedia.org/wiki/Ostro"},
	"Levantadis":        {35, 42, 18, 28, "Local Levante wind in Ionian and Aegean Seas.", "https://en.wikipedia.org/wiki/Llevantades"},
	"Maestro":           {38, 45, 12, 24, "Gentle NW breeze, pleasant summer weather.", ""},
	"Zephyr":            {35, 45, -10, 20, "Gentle summer westerly, brings pleasant weather.", ""},
	"Marin":             {36, 44, -6, 4, "Moist SE wind, heavy rain and storms in Gulf of Lion.", "https://en.wikipedia.org/wiki/Marin_(wind)"},
	"Datoo":             {30, 40, -5, 15, "Hot, dry wind from North Africa, like the Khamsin.", "https://en.wikipedia.org/wiki/Khamsin"},
	"Levante":           {34, 40, -10, 10, "Warm, moist E wind, often brings fog and rain.", "https://en.wikipedia.org/wiki/Levant_(wind)"},
	"Levanter":          {35, 37, -7, -5, "Easterly wind in the Strait of Gibraltar, bringing fog and humidity.", ""},
	"Trade Winds":       {20, 30, -85, -60, "Steady easterly winds steering storms and tropical systems.", ""},
	"Brisas":            {10, 25, -90, -55, "Coastal sea breezes, onshore by day, offshore at night.", ""},
	"El Norte":          {15, 30, -95, -70, "Strong winter N-NW winds after cold fronts.", ""},
	"Chubasco":          {5, 20, -90, -55, "Sudden tropical squalls with gusty winds.", ""},
	"Tehuantepecer":     {10, 20, -98, -90, "Violent N winds from Mexico, big waves.", ""},
	"Hurricane Alley":   {20, 40, -85, -60, "A major track for hurricanes forming in the Atlantic.", ""},
	"Westerlies":        {48, 61, -15, 5, "Changeable winds across the UK and Ireland.", ""},
	"Nor'easters":       {35, 50, -85, -60, "Intense coastal storms with strong winds and heavy rain or snow.", ""},
	"Bermuda High":      {20, 40, -80, -50, "Subtropical high-pressure system steering storms and summer heat.", ""},
	"Azores High":       {30, 45, -40, 10, "Affects Europe and North Atlantic weather.", ""},
	"Icelandic Low":     {50, 65, -50, -10, "Strong low-pressure system, frequent storms.", ""},
	"Greenland High":    {60, 75, -50, -10, "Arctic high pressure, very cold air masses.", ""},
	"Polar Jet Stream":  {35, 50, -90, -60, "Fast-moving air current steering storms and cold outbreaks.", ""},
	"Arctic Outflow":    {60, 75, -80, -10, "Cold air from the Arctic, strong winds.", ""},
	"North Sea Storms":  {50, 62, -5, 10, "Sudden squalls, common in autumn and winter.", ""},
	"Channel Winds":     {49, 52, -5, 2, "Strong funneling winds in the English Channel.", ""},
	"Bay of Biscay Gales": {43, 50, -10, 0, "Intense storms and strong winds, common in autumn and winter.", ""},
	"Portuguese Northerlies": {35, 44, -10, -5, "Strong summer winds from the north, cooling Portuguese coastal waters.", ""},
	"Galician Trade Winds":   {41, 45, -10, -6, "Persistent NW winds along Galicia, strengthening in summer.", ""},
	"Brittany Westerlies":    {47, 50, -8, 2, "Strong westerlies hitting the Breton coast, especially in winter.", ""},
	"Iberian Low Pressure Winds": {35, 45, -10, 0, "Unstable, humid winds driven by low pressure over Spain and Portugal.", ""},
	"Cantabrian Gusts":       {42, 45, -10, -2, "Strong local winds on Spain's N coast, driven by Atlantic storms.", ""},
	"North Sea Westerlies":   {50, 65, -5, 10, "Frequent westerly storms and strong gales over the North Sea.", ""},
	"Baltic Easterlies":      {53, 65, 10, 30, "Cold and dry in winter, humid and unstable in summer.", ""},
	"Katabatic Winds":        {55, 65, 5, 30, "Cold descending winds along Scandinavian coasts.", ""},
	"Gulf of Finland Wind":   {58, 61, 20, 30, "Variable winds funneled through narrow Baltic straits.", ""},
	"Scandinavian High":      {55, 65, 10, 30, "Cold, dry high-pressure winds from Scandinavia.", ""},
	"Skagerrak Gales":        {55, 60, 5, 15, "Strong westerly gales in the Skagerrak Strait.", ""},
	"North Atlantic Lows":    {50, 65, -10, 5, "Stormy conditions from low-pressure systems.", ""},
	"Danish Straits Winds":   {53, 57, 10, 15, "Rapidly shifting winds through Danish straits.", ""},
	"North Atlantic Drift":   {45, 60, -20, 5, "Warm ocean current moderating UK climate.", ""},
	"Gulf Stream Winds":      {25, 45, -80, -60, "Warm ocean currents fueling storms and moderating temperatures.", ""},
	"Appalachian Downslope Winds": {30, 45, -85, -70, "Gusty, dry winds descending from the Appalachians.", ""},
	"Coastal Sea Breezes":    {25, 40, -85, -65, "Daily shifts between land and sea breezes along the coast.", ""},
	"Cape Hatteras Cyclones": {30, 40, -85, -65, "Low-pressure systems intensifying off the Carolina coast.", ""},
	"Great Lakes Outflow":    {40, 50, -85, -70, "Cold air from the Great Lakes fueling snow and strong winds.", ""},
}

// windSystemIndex maps (region, 16-point direction) to the candidate named
// wind systems there. Candidates still have to pass the catalog's bounding
// box before they are reported.
var windSystemIndex = map[Region]map[string][]string{
	"mediterranean_northwest": {
		"N": {"Tramontane", "Mistral"}, "N-NW": {"Tramontane"}, "NW": {"Mistral"},
		"W-NW": {"Maestro", "Zephyr"}, "W": {"Ponente", "Zephyr"}, "W-SW": {"Libeccio", "Marin"},
		"SW": {"Libeccio"}, "S-SW": {"Ostro", "Ghibli"}, "S": {"Ostro", "Khamsin", "Datoo"},
		"S-SE": {"Ghibli", "Sirocco"}, "SE": {"Levante", "Sirocco"}, "E-SE": {"Levante", "Sirocco"},
		"E": {"Levante"}, "E-NE": {"Gregale"}, "NE": {"Gregale"}, "N-NE": {"Tramontane"},
	},
	"mediterranean_southwest": {
		"N": {"Mistral"}, "N-NW": {"Tramontane"}, "NW": {"Mistral"}, "W": {"Ponente"},
		"W-SW": {"Libeccio", "Marin"}, "SW": {"Libeccio"}, "S-SW": {"Ostro", "Khamsin"},
		"S": {"Ostro", "Ghibli", "Jugo"}, "S-SE": {"Ghibli", "Sirocco"}, "SE": {"Sirocco", "Levantadis"},
		"E-SE": {"Sirocco", "Levantadis"}, "E": {"Sirocco", "Levantadis"}, "E-NE": {"Gregale"},
		"NE": {"Gregale"}, "N-NE": {"Tramontane"},
	},
	"mediterranean_northeast": {
		"N": {"Bora", "Meltemi"}, "N-NW": {"Bora", "Meltemi"}, "NW": {"Meltemi"}, "W-NW": {"Maestro"},
		"W": {"Ponente"}, "W-SW": {"Libeccio"}, "SW": {"Libeccio"}, "S-SW": {"Ostro", "Ghibli", "Jugo"},
		"S": {"Ostro", "Khamsin", "Jugo"}, "S-SE": {"Ghibli", "Jugo", "Sirocco"},
		"SE": {"Levante", "Gregale", "Sirocco", "Levantadis"}, "E-SE": {"Levante", "Gregale", "Sirocco"},
		"E": {"Levante", "Gregale", "Meltemi", "Levantadis"}, "E-NE": {"Gregale", "Meltemi", "Bora"},
		"NE": {"Bora", "Meltemi"}, "N-NE": {"Bora", "Meltemi"},
	},
	"mediterranean_southeast": {
		"N": {"Meltemi"}, "N-NW": {"Meltemi"}, "NW": {"Meltemi"}, "W-NW": {"Maestro"},
		"W": {"Ponente"}, "W-SW": {"Libeccio"}, "SW": {"Libeccio"}, "S-SW": {"Ostro", "Khamsin"},
		"S": {"Ostro", "Ghibli", "Jugo"}, "S-SE": {"Ghibli", "Sirocco"}, "SE": {"Sirocco", "Levantadis"},
		"E-SE": {"Sirocco", "Levantadis"}, "E": {"Gregale", "Levantadis"}, "E-NE": {"Gregale"},
		"NE": {"Gregale"}, "N-NE": {"Meltemi"},
	},
	"caribbean": {
		"N": {"El Norte", "Tehuantepecer"}, "N-NW": {"El Norte"}, "NW": {"El Norte"},
		"W": {"Chubasco"}, "W-SW": {"Chubasco"}, "S-SW": {"Brisas"}, "S": {"Brisas"},
		"S-SE": {"Brisas"}, "SE": {"Trade Winds"}, "E": {"Trade Winds", "Hurricane Alley"},
		"NE": {"Trade Winds"},
	},
	"north_atlantic": {
		"N": {"Icelandic Low", "Greenland High", "Arctic Outflow"},
		"N-NE": {"Nor'easters", "Icelandic Low", "Polar Jet Stream"},
		"NE":   {"Nor'easters", "Westerlies"}, "E-NE": {"Azores High", "Westerlies"},
		"E": {"Azores High", "Bermuda High"}, "E-SE": {"Azores High", "Bermuda High", "Trade Winds"},
		"SE": {"Bermuda High", "Trade Winds", "Hurricane Alley"}, "S-SE": {"Bermuda High", "Azores High"},
		"S": {"Bermuda High", "Hurricane Alley"}, "S-SW": {"Bermuda High", "Gulf Stream Winds"},
		"SW": {"Westerlies", "Gulf Stream Winds"}, "W-SW": {"Westerlies", "Gulf Stream Winds"},
		"W": {"Westerlies", "North Atlantic Drift"}, "W-NW": {"Westerlies", "Icelandic Low"},
		"NW": {"Icelandic Low", "Polar Jet Stream", "Greenland High"},
		"N-NW": {"Icelandic Low", "Greenland High", "Arctic Outflow"},
	},
	"british_isles": {
		"N": {"Icelandic Low", "North Sea Storms"}, "N-NE": {"North Sea Storms"},
		"NE": {"North Sea Storms"}, "E-NE": {"North Sea Storms"}, "E": {"Westerlies"},
		"SE": {"Channel Winds"}, "S-SE": {"Azores High"}, "S": {"Azores High", "Channel Winds"},
		"S-SW": {"Channel Winds", "Westerlies"}, "SW": {"Westerlies", "North Atlantic Drift"},
		"W-SW": {"North Atlantic Drift", "Westerlies"}, "W": {"Westerlies", "North Atlantic Drift"},
		"W-NW": {"Westerlies", "Icelandic Low"}, "NW": {"Icelandic Low", "North Atlantic Drift"},
		"N-NW": {"Icelandic Low", "North Sea Storms"},
	},
	"western_europe_coast": {
		"N": {"Portuguese Northerlies"}, "N-NE": {"Portuguese Northerlies", "Galician Trade Winds"},
		"NE": {"Galician Trade Winds", "Bay of Biscay Gales"}, "E-NE": {"Levanter"}, "E": {"Levanter"},
		"E-SE": {"Levanter", "Iberian Low Pressure Winds"}, "SE": {"Iberian Low Pressure Winds"},
		"S-SE": {"Iberian Low Pressure Winds"}, "S": {"Iberian Low Pressure Winds"},
		"S-SW": {"Iberian Low Pressure Winds"}, "SW": {"Bay of Biscay Gales", "Cantabrian Gusts"},
		"W-SW": {"Brittany Westerlies", "Bay of Biscay Gales"}, "W": {"Brittany Westerlies", "Bay of Biscay Gales"},
		"W-NW": {"Bay of Biscay Gales", "Cantabrian Gusts"}, "NW": {"Bay of Biscay Gales", "Portuguese Northerlies"},
		"N-NW": {"Portuguese Northerlies"},
	},
	"north_sea_baltic": {
		"N": {"Scandinavian High", "Katabatic Winds"}, "N-NE": {"Scandinavian High", "Baltic Easterlies"},
		"NE": {"Baltic Easterlies", "Gulf of Finland Wind"}, "E-NE": {"Baltic Easterlies", "Gulf of Finland Wind", "Danish Straits Winds"},
		"E": {"Baltic Easterlies", "Danish Straits Winds"}, "E-SE": {"Baltic Easterlies", "Danish Straits Winds"},
		"SE": {"Danish Straits Winds", "Baltic Easterlies", "Skagerrak Gales"},
		"S-SE": {"Danish Straits Winds", "North Sea Westerlies", "Skagerrak Gales"},
		"S": {"North Sea Westerlies", "Skagerrak Gales", "North Atlantic Lows"},
		"S-SW": {"North Sea Westerlies", "North Atlantic Lows"}, "SW": {"North Sea Westerlies", "North Atlantic Lows"},
		"W-SW": {"North Sea Westerlies", "Skagerrak Gales"}, "W": {"North Sea Westerlies", "Skagerrak Gales", "North Atlantic Lows"},
		"W-NW": {"North Atlantic Lows", "North Sea Westerlies"}, "NW": {"North Atlantic Lows", "Scandinavian High"},
		"N-NW": {"Scandinavian High", "Katabatic Winds"},
	},
	"american_east_coast": {
		"N": {"Nor'easters", "Polar Jet Stream", "Great Lakes Outflow"}, "N-NE": {"Nor'easters", "Great Lakes Outflow"},
		"NE": {"Nor'easters", "Cape Hatteras Cyclones"}, "E-NE": {"Bermuda High", "Trade Winds"},
		"E": {"Bermuda High", "Trade Winds", "Gulf Stream Winds"}, "E-SE": {"Bermuda High", "Trade Winds", "Gulf Stream Winds"},
		"SE": {"Bermuda High", "Trade Winds", "Hurricane Alley"}, "S-SE": {"Bermuda High", "Hurricane Alley", "Coastal Sea Breezes"},
		"S": {"Bermuda High", "Hurricane Alley", "Coastal Sea Breezes"}, "S-SW": {"Gulf Stream Winds", "Hurricane Alley", "Coastal Sea Breezes"},
		"SW": {"Gulf Stream Winds", "Coastal Sea Breezes"}, "W-SW": {"Coastal Sea Breezes", "Appalachian Downslope Winds"},
		"W": {"Appalachian Downslope Winds", "Polar Jet Stream"}, "W-NW": {"Appalachian Downslope Winds", "Great Lakes Outflow"},
		"NW": {"Great Lakes Outflow", "Polar Jet Stream"}, "N-NW": {"Great Lakes Outflow", "Polar Jet Stream"},
	},
}

// regionDefaultWind is the fallback description when no named system applies.
var regionDefaultWind = map[Region]string{
	"british_isles":           "changeable Atlantic westerlies dominate the British Isles.",
	"western_europe_coast":    "Atlantic westerlies and Biscay lows dominate the western European coast.",
	"north_sea_baltic":        "westerly storm tracks dominate the North Sea and Baltic.",
	"mediterranean_northwest": "local thermal and valley winds dominate the northwest Mediterranean.",
	"mediterranean_southwest": "local thermal winds dominate the southwest Mediterranean.",
	"mediterranean_northeast": "local thermal and channel winds dominate the northeast Mediterranean.",
	"mediterranean_southeast": "local thermal winds dominate the southeast Mediterranean.",
	"caribbean":               "the easterly trades dominate the Caribbean.",
	"american_east_coast":     "jet-stream driven systems dominate the American east coast.",
	"north_atlantic":          "mid-latitude westerlies dominate the open North Atlantic.",
}

// WindSystemInfo is the folklore lookup result.
type WindSystemInfo struct {
	Description string
	SourceURL   string
}

// LookupWindSystems names the local wind systems plausibly active for the
// current direction and position. Candidates come from the per-region index
// and must contain the station inside their catalog bounding box. Calm air
// (under 5 kn) reports no active system.
func LookupWindSystems(region Region, regionURL string, lat, lon float64, windDir16 string, windSpeed float64) WindSystemInfo {
	def := regionDefaultWind[region]
	if def == "" {
		def = "no wind description available."
	}

	if IsMissing(windSpeed) || windSpeed < 5 {
		return WindSystemInfo{Description: "No wind, so " + def, SourceURL: regionURL}
	}

	candidates := windSystemIndex[region][windDir16]
	if len(candidates) == 0 {
		return WindSystemInfo{Description: "No systems in region, so " + def, SourceURL: regionURL}
	}

	var descriptions []string
	var urls []string
	for _, name := range candidates {
		sys, ok := windSystemCatalog[name]
		if !ok {
			continue
		}
		if lat >= sys.latMin && lat <= sys.latMax && lon >= sys.lonMin && lon <= sys.lonMax {
			descriptions = append(descriptions, fmt.Sprintf("%s: %s", name, sys.description))
			if sys.url != "" {
				urls = append(urls, sys.url)
			}
		}
	}
	if len(descriptions) == 0 {
		return WindSystemInfo{Description: def, SourceURL: regionURL}
	}
	if regionURL != "" && regionURL != "none" {
		urls = append(urls, regionURL)
	}
	return WindSystemInfo{
		Description: strings.Join(descriptions, "\n"),
		SourceURL:   strings.Join(urls, " "),
	}
}

package slot

import "github.com/baditaflorin/go_slot_normalizer/internal/core/domain"

// DontCare is the canonical "no preference" value.
const DontCare = "do n't care"

// NotMentioned is the literal annotators use for an absent value.
const NotMentioned = "not mentioned"

// indifferent holds every spelling of DontCare seen in annotations.
var indifferent = map[string]bool{
	"dont care":     true,
	"don't care":    true,
	"do nt care":    true,
	"doesn't care":  true,
	"doesnt care":   true,
	"does not care": true,
}

// corrections maps a canonical value to the malformed spellings it replaces.
// The empty canonical value drops the annotation.
type corrections map[string][]string

// slotRule describes the corrections for one (domain, slot) pair.
type slotRule struct {
	// rename replaces the slot key when set.
	rename string
	fixes  corrections
	// vocabulary, when set, is the closed set of accepted values. Values
	// outside it, other than don't-care spellings, are dropped.
	vocabulary []string
	// timeValued slots get periods turned into colons and are re-run
	// through the time rules.
	timeValued bool

	lookup map[string]string
}

// domainTable is keyed by lowercase slot name. Aliases share a rule.
type domainTable map[string]*slotRule

var (
	attractionArea = &slotRule{fixes: corrections{
		"centre": {"town centre", "cent", "center", "ce"},
		"":       {"ely", "in town", "museum", "norwich", "same area as hotel"},
		"west":   {"we"},
	}}
	attractionName = &slotRule{fixes: corrections{
		"":                {"t"},
		"trinity college": {"trinity"},
	}}
	attractionType = &slotRule{fixes: corrections{
		"museum":          {"m", "mus", "musuem"},
		"architecture":    {"art", "architectural"},
		"church":          {"churches"},
		"college":         {"coll"},
		"concert hall":    {"concert", "concerthall"},
		"nightclub":       {"night club"},
		"multiple sports": {"mutiple sports", "mutliple sports", "sports", "galleria"},
		"":                {"ol", "science", "gastropub", "la raza"},
		"swimming pool":   {"swimmingpool", "pool"},
		"entertainment":   {"fun"},
	}}

	hotelArea = &slotRule{fixes: corrections{
		"centre": {"cen", "centre of town", "near city center", "center"},
		"east":   {"east area", "east side"},
		"north":  {"in the north", "north part of town"},
		"west":   {"we"},
	}}
	hotelDay = &slotRule{fixes: corrections{
		"monday":  {"monda"},
		"tuesday": {"t"},
	}}
	hotelName = &slotRule{fixes: corrections{
		"university arms hotel":    {"uni", "university arms"},
		"acorn guest house":        {"acron"},
		"ashley hotel":             {"ashley"},
		"arbury lodge guest house": {"arbury lodge guesthouse"},
		"la margherit":             {"la"},
		"":                         {"no"},
	}}
	hotelInternet = &slotRule{fixes: corrections{
		"no":  {"does not"},
		"yes": {"y", "free", "free internet"},
		"":    {"4"},
	}}
	hotelParking = &slotRule{fixes: corrections{
		"no":  {"n"},
		"yes": {"free parking", "y"},
	}}
	hotelPriceRange = &slotRule{rename: "pricerange", fixes: corrections{
		"moderate": {"moderately"},
		DontCare:   {"any"},
		"cheap":    {"inexpensive"},
		"":         {"2", "4"},
	}}
	hotelStars = &slotRule{fixes: corrections{
		"2": {"two"},
		"3": {"three"},
		"4": {"4-star", "4 stars", "4 star", "four star", "four stars"},
	}}
	hotelType = &slotRule{
		fixes: corrections{
			"":            {"0 star rarting"},
			"guest house": {"guesthouse"},
		},
		vocabulary: []string{"hotel", "guest house", DontCare},
	}

	restaurantArea = &slotRule{
		fixes: corrections{
			"centre": {"center", "scentre", "center of town", "city center", "cb30aq",
				"town center", "centre of cambridge", "city centre"},
			"west":  {"west part of town"},
			"north": {"n"},
			"south": {"the south"},
		},
		vocabulary: []string{"centre", "south", DontCare, "west", "east", "north"},
	}
	restaurantDay = &slotRule{fixes: corrections{
		"monday":  {"monda"},
		"tuesday": {"t"},
	}}
	restaurantPriceRange = &slotRule{rename: "pricerange", fixes: corrections{
		"moderate": {"moderately", "mode", "mo"},
		"":         {"not"},
		"cheap":    {"inexpensive", "ch"},
	}}
	restaurantFood = &slotRule{fixes: corrections{
		"barbeque": {"barbecue"},
	}}
	restaurantTime = &slotRule{fixes: corrections{
		"09:00": {"9:00", "9"},
		"09:45": {"9:45"},
		"09:15": {"9:15"},
		"09:30": {"9:30"},
		"13:30": {"1330"},
		"14:30": {"1430"},
		"18:30": {"1830"},
		"14:00": {"2:00"},
		"13:00": {"1:00"},
		"15:00": {"3:00"},
	}}

	taxiArriveBy = &slotRule{rename: "arriveby", timeValued: true, fixes: corrections{
		"15:30": {"1530"},
		"":      {"15 minutes"},
	}}
	taxiLeaveAt = &slotRule{rename: "leaveat", timeValued: true, fixes: corrections{
		"01:00": {"1:00"},
		"21:04": {"21:4"},
		"04:15": {"4:15"},
		"05:45": {"5:45"},
		"07:00": {"0700"},
		"04:45": {"4:45"},
		"08:30": {"8:30"},
		"09:30": {"9:30"},
	}}

	trainArriveBy = &slotRule{rename: "arriveby", timeValued: true, fixes: corrections{
		"01:00":  {"1"},
		DontCare: {"does not care", "doesnt care", "doesn't care"},
		"08:30":  {"8:30"},
		"":       {"not 15:45"},
	}}
	trainDay = &slotRule{fixes: corrections{
		DontCare: {"doesnt care", "doesn't care"},
	}}
	trainLeaveAt = &slotRule{rename: "leaveat", timeValued: true, fixes: corrections{
		"02:30":  {"2:30"},
		"07:54":  {"7:54"},
		"17:45":  {"after 5:45 pm"},
		"":       {"early evening", "friday", "sunday", "tuesday", "afternoon"},
		"12:00":  {"12"},
		"10:30":  {"1030"},
		"17:00":  {"1700"},
		DontCare: {"does not care", "doesnt care", "do nt care", "doesn't care"},
	}}
)

var correctionTable = map[domain.Domain]domainTable{
	domain.Attraction: {
		"area": attractionArea,
		"name": attractionName,
		"type": attractionType,
	},
	domain.Hotel: {
		"area":        hotelArea,
		"day":         hotelDay,
		"name":        hotelName,
		"internet":    hotelInternet,
		"parking":     hotelParking,
		"pricerange":  hotelPriceRange,
		"price range": hotelPriceRange,
		"stars":       hotelStars,
		"type":        hotelType,
	},
	domain.Restaurant: {
		"area":        restaurantArea,
		"day":         restaurantDay,
		"pricerange":  restaurantPriceRange,
		"price range": restaurantPriceRange,
		"food":        restaurantFood,
		"time":        restaurantTime,
	},
	domain.Taxi: {
		"arriveby":  taxiArriveBy,
		"arrive by": taxiArriveBy,
		"leaveat":   taxiLeaveAt,
		"leave at":  taxiLeaveAt,
	},
	domain.Train: {
		"arriveby":  trainArriveBy,
		"arrive by": trainArriveBy,
		"day":       trainDay,
		"leaveat":   trainLeaveAt,
		"leave at":  trainLeaveAt,
	},
}

func init() {
	for _, table := range correctionTable {
		for _, rule := range table {
			if rule.lookup != nil {
				continue
			}
			rule.lookup = make(map[string]string)
			for canonical, malformed := range rule.fixes {
				for _, m := range malformed {
					rule.lookup[m] = canonical
				}
			}
		}
	}
}

func (r *slotRule) admits(value string) bool {
	if indifferent[value] {
		return true
	}
	for _, v := range r.vocabulary {
		if v == value {
			return true
		}
	}
	return false
}

// correct applies the table entry to an already normalized value.
func (r *slotRule) correct(value string) (string, bool) {
	if fixed, ok := r.lookup[value]; ok {
		return fixed, true
	}
	if len(r.vocabulary) > 0 && !r.admits(value) {
		return "", true
	}
	return value, false
}

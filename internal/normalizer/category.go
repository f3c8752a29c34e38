package normalizer

import (
	"strings"

	"eventpipe/internal/models"
)

// synonym maps a lowercase keyword to a category. The table is ordered;
// the first keyword contained in the hint wins, which keeps inference
// deterministic for hints matching several rows.
type synonym struct {
	keyword  string
	category models.Category
}

var categorySynonyms = []synonym{
	{"live music", models.CategoryMusic},
	{"open mic", models.CategoryMusic},
	{"concert", models.CategoryMusic},
	{"jazz", models.CategoryMusic},
	{"band", models.CategoryMusic},
	{"dj", models.CategoryMusic},
	{"music", models.CategoryMusic},
	{"theatre", models.CategoryTheater},
	{"theater", models.CategoryTheater},
	{"musical", models.CategoryTheater},
	{"improv", models.CategoryTheater},
	{"comedy", models.CategoryTheater},
	{"play", models.CategoryTheater},
	{"lecture", models.CategoryLectures},
	{"author talk", models.CategoryLectures},
	{"book reading", models.CategoryLectures},
	{"reading", models.CategoryLectures},
	{"seminar", models.CategoryLectures},
	{"talk", models.CategoryLectures},
	{"museum", models.CategoryArtsCulture},
	{"exhibit", models.CategoryArtsCulture},
	{"gallery", models.CategoryArtsCulture},
	{"film", models.CategoryArtsCulture},
	{"movie", models.CategoryArtsCulture},
	{"dance", models.CategoryArtsCulture},
	{"art", models.CategoryArtsCulture},
	{"tasting", models.CategoryFoodDrink},
	{"brunch", models.CategoryFoodDrink},
	{"dinner", models.CategoryFoodDrink},
	{"beer", models.CategoryFoodDrink},
	{"wine", models.CategoryFoodDrink},
	{"food", models.CategoryFoodDrink},
	{"tournament", models.CategorySports},
	{"sports", models.CategorySports},
	{"race", models.CategorySports},
	{"game", models.CategorySports},
	{"run", models.CategorySports},
	{"festival", models.CategoryCommunity},
	{"farmers market", models.CategoryCommunity},
	{"volunteer", models.CategoryCommunity},
	{"community", models.CategoryCommunity},
	{"meetup", models.CategoryCommunity},
	{"fair", models.CategoryCommunity},
}

// InferCategory maps a free-text category hint onto the enumeration.
// Unrecognized text maps to the catch-all category, never an error.
func InferCategory(hint string) models.Category {
	text := strings.ToLower(strings.TrimSpace(hint))
	if text == "" {
		return models.CategoryOther
	}

	// Exact enumeration values pass through.
	if c := models.Category(text); c.Valid() {
		return c
	}

	for _, s := range categorySynonyms {
		if strings.Contains(text, s.keyword) {
			return s.category
		}
	}

	return models.CategoryOther
}

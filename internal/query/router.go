package query

const (
	// PageSize is used for every upstream query.
	PageSize = 7

	Country  = "us"
	Language = "en"

	// allKeyword is the catch-all keyword behind the "all" category.
	allKeyword   = "latest"
	generalTopic = "general"
)

// topics maps categories with an upstream topic equivalent.
var topics = map[Category]string{
	CategoryBusiness: "business",
	CategoryTech:     "technology",
}

// keywordTopics are categories the upstream has no topic for; they are
// served as keyword queries instead.
var keywordTopics = map[Category]string{
	CategoryPolitics: "politics",
	CategoryWorld:    "world",
}

// Route maps a selection onto an upstream query. Rules are evaluated in
// order; the first match wins.
func Route(sel Selection) Description {
	if sel.DebouncedQuery != "" {
		return Description{Kind: KindSearch, Keyword: sel.DebouncedQuery, Language: Language, PageSize: PageSize}
	}

	switch c := sel.Category; {
	case c == CategoryAll:
		return Description{Kind: KindEverything, Keyword: allKeyword, Language: Language, PageSize: PageSize}
	case c == CategoryTopStories:
		return Description{Kind: KindTopHeadlines, Country: Country, PageSize: PageSize}
	case topics[c] != "":
		return Description{Kind: KindTopHeadlines, Country: Country, Topic: topics[c], PageSize: PageSize}
	case keywordTopics[c] != "":
		return Description{Kind: KindEverything, Keyword: keywordTopics[c], Language: Language, PageSize: PageSize}
	default:
		return Description{Kind: KindTopHeadlines, Country: Country, Topic: generalTopic, PageSize: PageSize}
	}
}

package quasarr

// User agents double as routing hints for the mock upstream.
const (
	UAMovie = "movie-client"
	UATV    = "tv-client"
	UADoc   = "doc-client"
)

// Category is the download category passed to addurl.
type Category string

const (
	CategoryNone   Category = ""
	CategoryMovies Category = "movies"
	CategoryTV     Category = "tv"
	CategoryDocs   Category = "docs"
)

// UserAgent picks the agent for an add request. No category means movie.
func (c Category) UserAgent() string {
	switch c {
	case CategoryTV:
		return UATV
	case CategoryDocs:
		return UADoc
	default:
		return UAMovie
	}
}

// Kind selects one of the three feeds and searches.
type Kind int

const (
	KindMovie Kind = iota
	KindTV
	KindDoc
)

// Kinds lists every kind in menu order.
var Kinds = []Kind{KindMovie, KindTV, KindDoc}

func (k Kind) String() string {
	switch k {
	case KindTV:
		return "TV"
	case KindDoc:
		return "Doc"
	default:
		return "Movie"
	}
}

// Category is the add category results of this kind are filed under.
func (k Kind) Category() Category {
	switch k {
	case KindTV:
		return CategoryTV
	case KindDoc:
		return CategoryDocs
	default:
		return CategoryMovies
	}
}

func (k Kind) UserAgent() string {
	return k.Category().UserAgent()
}

// searchType is the Newznab t= value.
func (k Kind) searchType() string {
	switch k {
	case KindTV:
		return "tvsearch"
	case KindDoc:
		return "book"
	default:
		return "movie"
	}
}

// newznabCategory is the Newznab cat= value.
func (k Kind) newznabCategory() string {
	switch k {
	case KindTV:
		return "5000"
	case KindDoc:
		return "7000"
	default:
		return "2000"
	}
}

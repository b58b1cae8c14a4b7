package searcherator

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Query defaults, matching the API's own.
const (
	DefaultResultCount = 5
	DefaultCountry     = "us"
	DefaultLanguage    = "en"
)

// Query describes one search. The zero value of every field except Term
// means "use the default", so literal structs work:
//
//	client.Search(ctx, searcherator.Query{Term: "golang"})
//
// Timeout overrides the client timeout for this one call; it does not
// participate in cache identity, so two queries differing only in Timeout
// share a cache entry. Queries are value types; a Query is never mutated
// after being handed to Search.
type Query struct {
	Term       string
	Count      int
	Country    string
	Language   string
	Spellcheck bool
	Timeout    time.Duration
}

// NewQuery returns a Query for term with all defaults applied.
func NewQuery(term string) Query {
	return Query{Term: term}.withDefaults()
}

func (q Query) withDefaults() Query {
	if q.Count < 1 {
		q.Count = DefaultResultCount
	}
	if q.Country == "" {
		q.Country = DefaultCountry
	}
	if q.Language == "" {
		q.Language = DefaultLanguage
	}
	return q
}

// CacheKey returns the cache identity of the query. Two queries with the
// same term, language, country, and result count are the same cached
// search; spellcheck does not participate.
func (q Query) CacheKey() string {
	q = q.withDefaults()
	return fmt.Sprintf("%s (%s %s %d)", q.Term, q.Language, q.Country, q.Count)
}

// Values returns the wire parameters for the search endpoint.
func (q Query) Values() url.Values {
	q = q.withDefaults()
	v := url.Values{}
	v.Set("q", q.Term)
	v.Set("count", strconv.Itoa(q.Count))
	v.Set("country", q.Country)
	v.Set("search_lang", q.Language)
	v.Set("spellcheck", strconv.FormatBool(q.Spellcheck))
	return v
}

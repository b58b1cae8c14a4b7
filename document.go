package searcherator

import "encoding/json"

// Document is the decoded JSON body of one successful search. The API's
// response shape varies by plan and query, so the tree is kept as-is;
// WebResults and URLs cover the common projections and anything else can
// be reached through plain map indexing.
type Document map[string]any

func decodeDocument(body []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// WebResults returns the entries under web.results, in response order.
// Returns nil when the document has no web results.
func (d Document) WebResults() []map[string]any {
	web, ok := d["web"].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := web["results"].([]any)
	if !ok {
		return nil
	}

	results := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			results = append(results, m)
		}
	}
	return results
}

// URLs returns the url of every web result, in response order. Results
// without a url are skipped.
func (d Document) URLs() []string {
	results := d.WebResults()
	urls := make([]string, 0, len(results))
	for _, r := range results {
		if u, ok := r["url"].(string); ok {
			urls = append(urls, u)
		}
	}
	return urls
}

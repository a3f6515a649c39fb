package dto

import (
	"encoding/json"
	"errors"

	"github.com/bull/iris-search/internal/search"
)

var errNotObject = errors.New("search body is not a JSON object")

// SearchRequest is the body of POST /api/search. Fields are loosely typed so
// a wrong type on one field degrades that field instead of the whole body.
type SearchRequest struct {
	Query          any `json:"query"`
	Source         any `json:"source"`
	Type           any `json:"type"`
	Collection     any `json:"collection"`
	ConversationID any `json:"conversationId"`
}

// DecodeSearchRequest parses a search body. Anything other than a JSON
// object, including null, is an error.
func DecodeSearchRequest(data []byte) (SearchRequest, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return SearchRequest{}, err
	}
	if fields == nil {
		return SearchRequest{}, errNotObject
	}
	return SearchRequest{
		Query:          fields["query"],
		Source:         fields["source"],
		Type:           fields["type"],
		Collection:     fields["collection"],
		ConversationID: fields["conversationId"],
	}, nil
}

// ToSearchRequest converts the body. ok is false when query is not a string.
func (r SearchRequest) ToSearchRequest() (search.Request, bool) {
	query, ok := r.Query.(string)
	return search.Request{
		Query:      query,
		Filter:     search.ParseFilter(stringOf(r.Source)),
		Type:       stringOf(r.Type),
		Collection: stringOf(r.Collection),
	}, ok
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

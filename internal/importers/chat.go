package importers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mrlokans/bookcatalog/internal/catalog"
)

// RecommendationTool is the name of the function the assistant calls to
// propose a book.
const RecommendationTool = "showBookRecommendation"

// ChatCandidate decodes the arguments of a showBookRecommendation tool call.
// Numbers are kept as json.Number so the coercer sees them exactly as the
// model sent them.
func ChatCandidate(args json.RawMessage) (catalog.RawCandidate, error) {
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("invalid %s arguments: %w", RecommendationTool, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("invalid %s arguments: expected an object", RecommendationTool)
	}

	return JSONCandidate(fields), nil
}

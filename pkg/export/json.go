package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

// WriteJSON writes the result using its renderer field names.
func WriteJSON(w io.Writer, res *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

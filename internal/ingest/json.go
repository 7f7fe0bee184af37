package ingest

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/andestravel/feerules/internal/model"
)

// ReadJSON loads an already-canonical rule catalog: an array of rule objects
// as produced by the JSON exporter or the persistence layer. Unlike the
// tabular readers, rules arrive fully normalized and are taken as-is.
func ReadJSON(r io.Reader) ([]model.Rule, error) {
	var rules []model.Rule
	if err := json.NewDecoder(r).Decode(&rules); err != nil {
		return nil, eris.Wrap(err, "ingest: decode rules json")
	}

	for i := range rules {
		if rules[i].ExcludesGroups == nil {
			rules[i].ExcludesGroups = []string{}
		}
		if rules[i].Status == "" {
			rules[i].Status = model.StatusOK
		}
	}

	return rules, nil
}

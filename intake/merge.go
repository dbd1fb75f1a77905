package intake

import (
	"fmt"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// DefaultIntentLevel is applied whenever intent_level resolves to an
// empty string after a merge.
const DefaultIntentLevel = "Medium"

// Merge applies a partial delta onto current with RFC 7386 merge-patch
// semantics: every recognized key present in delta overwrites, every
// other key keeps its current value, and nothing is ever deleted. Keys
// outside the schema never enter the result. Both inputs are left
// untouched.
func (s *Schema) Merge(current, delta FieldSet) (FieldSet, error) {
	filtered := s.Filter(delta)
	if len(filtered) == 0 {
		return s.normalize(current.Clone()), nil
	}

	currentJSON, err := sonic.Marshal(current.Clone())
	if err != nil {
		return nil, fmt.Errorf("marshal current fields: %w", err)
	}
	deltaJSON, err := sonic.Marshal(filtered)
	if err != nil {
		return nil, fmt.Errorf("marshal field delta: %w", err)
	}

	mergedJSON, err := jsonpatch.MergePatch(currentJSON, deltaJSON)
	if err != nil {
		return nil, fmt.Errorf("apply merge patch: %w", err)
	}

	var merged FieldSet
	if err := sonic.Unmarshal(mergedJSON, &merged); err != nil {
		return nil, fmt.Errorf("unmarshal merged fields: %w", err)
	}
	return s.normalize(merged), nil
}

func (s *Schema) normalize(fields FieldSet) FieldSet {
	if v, ok := fields["intent_level"]; ok && v == "" && s.Has("intent_level") {
		fields["intent_level"] = DefaultIntentLevel
	}
	return fields
}

package engine

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Conversly/clinic-assist/internal/loaders"
)

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// parseTimeRanges decodes the model's slot-extraction output. The prompt
// forbids anything outside the JSON array, but fenced or prefixed output
// is tolerated by slicing from the first '[' to the last ']'.
func parseTimeRanges(raw string) ([]loaders.TimeRange, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in model output: %q", raw)
	}

	var ranges []loaders.TimeRange
	if err := json.Unmarshal([]byte(raw[start:end+1]), &ranges); err != nil {
		return nil, fmt.Errorf("failed to decode time ranges: %w", err)
	}
	if len(ranges) == 0 {
		return nil, fmt.Errorf("model output contained no time ranges")
	}

	for _, r := range ranges {
		if !hhmmPattern.MatchString(r.Start) || !hhmmPattern.MatchString(r.End) {
			return nil, fmt.Errorf("invalid time range %s-%s", r.Start, r.End)
		}
		if r.Start >= r.End {
			return nil, fmt.Errorf("time range %s-%s ends before it starts", r.Start, r.End)
		}
	}
	return ranges, nil
}

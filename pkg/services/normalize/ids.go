package normalize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/softservesoftware/stig-bee/pkg/models/domain"
)

// assignIDs gives every finding a unique id. Missing ids are derived from
// rule content so reloading the same file yields the same ids; duplicates are
// renamed to <id>_<n> in document order.
func assignIDs(ctx context.Context, findings []domain.Finding) []domain.Finding {
	logger := zerolog.Ctx(ctx)

	taken := make(map[string]bool, len(findings))
	for _, f := range findings {
		if f.ID != "" {
			taken[f.ID] = true
		}
	}

	seen := make(map[string]bool, len(findings))
	for i := range findings {
		f := &findings[i]
		if f.ID == "" {
			f.ID = syntheticID(f.RuleID, f.RuleTitle, i)
			if taken[f.ID] {
				f.ID = nextFree(f.ID, taken)
			}
			logger.Warn().
				Int("position", i).
				Str("rule_id", f.RuleID).
				Str("id", f.ID).
				Msg("finding has no id, derived one from its rule")
		}
		if seen[f.ID] {
			renamed := nextFree(f.ID, taken)
			logger.Warn().
				Str("id", f.ID).
				Str("renamed", renamed).
				Msg("duplicate finding id")
			f.ID = renamed
		}
		seen[f.ID] = true
		taken[f.ID] = true
	}
	return findings
}

func nextFree(id string, taken map[string]bool) string {
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", id, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

func syntheticID(ruleID, ruleTitle string, ordinal int) string {
	h := sha256.New()
	h.Write([]byte(ruleID))
	h.Write([]byte{0})
	h.Write([]byte(ruleTitle))
	if ruleID == "" && ruleTitle == "" {
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(ordinal)))
	}
	return "V-" + hex.EncodeToString(h.Sum(nil))[:12]
}

// Package checksum produces stable content fingerprints for sync items.
//
// Normalization strips sync-volatile bookkeeping fields before hashing so
// that rewrites which change nothing semantic never look like content
// changes, and the aggregate checksum sorts by record identity so two
// independently built snapshots of the same logical state compare equal.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/promptkit/promptsync/internal/events"
	"github.com/promptkit/promptsync/internal/models"
)

// volatileKeys are dropped during normalization. They change on every
// write without representing a real content change.
var volatileKeys = map[string]bool{
	"id":        true,
	"createdAt": true,
	"updatedAt": true,
	"syncTime":  true,
}

// Normalize recursively rewrites a JSON-like value: primitives pass
// through, arrays map element-wise, objects lose volatile keys. Key
// ordering is left to encoding/json, which marshals map keys sorted.
func Normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			if volatileKeys[key] {
				continue
			}
			out[key] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = Normalize(val)
		}
		return out
	default:
		return v
	}
}

// ItemChecksum returns the SHA-256 hex digest of the normalized content.
func ItemChecksum(content map[string]any) (string, error) {
	data, err := json.Marshal(Normalize(content))
	if err != nil {
		return "", fmt.Errorf("marshal normalized content: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// AggregateChecksum computes an order-independent digest over a set of
// items. Items lacking a string uuid/id in their content cannot be
// identified stably; they are skipped with a warning and never contribute.
// An empty or all-invalid input hashes the literal "empty" to keep
// "legitimately no data" distinguishable downstream.
func AggregateChecksum(items []models.SyncItem, logger *events.Logger) string {
	type keyed struct {
		identity string
		checksum string
	}

	valid := make([]keyed, 0, len(items))
	for i := range items {
		identity, ok := items[i].ContentIdentity()
		if !ok {
			logger.WithFields(map[string]interface{}{
				"item_id": items[i].ID,
				"type":    items[i].Type,
			}).Warn("Item has no usable content identity, excluded from aggregate checksum")
			continue
		}
		valid = append(valid, keyed{identity: identity, checksum: items[i].Metadata.Checksum})
	}

	if len(valid) == 0 {
		sum := sha256.Sum256([]byte("empty"))
		return hex.EncodeToString(sum[:])
	}

	sort.Slice(valid, func(a, b int) bool {
		return valid[a].identity < valid[b].identity
	})

	var sb strings.Builder
	for _, k := range valid {
		sb.WriteString(k.checksum)
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

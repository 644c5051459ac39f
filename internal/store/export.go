package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Export is an owner's active memory and proposal queue in the persisted
// record format.
type Export struct {
	OwnerID   string           `json:"owner_id"`
	Memory    []MemoryRecord   `json:"memory"`
	Proposals []ProposalRecord `json:"proposals"`
}

// ExportOwner returns all active items and all proposals of an owner.
// Deleted items are not exported.
func ExportOwner(ctx context.Context, ms MemoryStore, ps ProposalStore, ownerID string) (*Export, error) {
	items, err := ms.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list memory: %w", err)
	}
	proposals, err := ps.ListProposals(ctx, ownerID, "")
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}

	out := &Export{
		OwnerID:   ownerID,
		Memory:    make([]MemoryRecord, 0, len(items)),
		Proposals: make([]ProposalRecord, 0, len(proposals)),
	}
	for _, it := range items {
		out.Memory = append(out.Memory, RecordFromItem(it))
	}
	for _, p := range proposals {
		out.Proposals = append(out.Proposals, RecordFromProposal(p))
	}
	return out, nil
}

// RecordSchemas returns JSON Schemas for one element of each persisted file,
// keyed by file name.
func RecordSchemas() (map[string]json.RawMessage, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}

	out := make(map[string]json.RawMessage, 2)
	for name, v := range map[string]any{
		"memory.json":    &MemoryRecord{},
		"proposals.json": &ProposalRecord{},
	} {
		b, err := reflector.Reflect(v).MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		out[name] = b
	}
	return out, nil
}

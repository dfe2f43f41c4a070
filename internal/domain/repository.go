package domain

import "context"

// SnapshotSource reads a full workbook snapshot: recap listings, the
// master catalog, and brand aliases.
type SnapshotSource interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// LabelWriter writes Mode A label decisions back to the source rows
// they were computed from.
type LabelWriter interface {
	WriteLabels(ctx context.Context, store string, status StockStatus, decisions []LabelDecision) error
}

// MatchTableWriter renders a comparison run back into the workbook's
// result sheet.
type MatchTableWriter interface {
	WriteMatchTable(ctx context.Context, run *MatchRun) error
}

// RunRepository persists matching runs and ingested snapshots.
type RunRepository interface {
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
	SaveRun(ctx context.Context, run *MatchRun) error
	GetRun(ctx context.Context, id string) (*MatchRun, error)
}

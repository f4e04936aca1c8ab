package tracing

// Span attribute keys for composite lifecycle tracing.
const (
	AttrCompositeID  = "composite.id"
	AttrPairKind     = "composite.pair_kind"
	AttrGhostCount   = "reconcile.ghost_count"
	AttrSeedCount    = "seed.placeholder_count"
	AttrSnapshotSize = "snapshot.size"
	AttrErrorMessage = "error.message"
)

// Span names used by the coordinator and store.
const (
	SpanAddOrUpdate = "bar.add_or_update_composite"
	SpanSeed        = "bar.seed_placeholders"
	SpanReconcile   = "bar.reconcile_after_extensions_ready"
	SpanRemove      = "bar.remove_composite"
	SpanShutdown    = "bar.shutdown"
	SpanStoreLoad   = "store.load"
	SpanStoreSave   = "store.save"
)

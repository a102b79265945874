package events

// Topics emitted by the widget's input sources. Every topic ultimately
// re-triggers reconciliation; the distinctions exist so handlers can update
// per-widget state (variation, VAT cache, cart snapshot) before the pass.
const (
	TopicQuantityChanged   = "quantity.changed"
	TopicVariationFound    = "variation.found"
	TopicVariationReset    = "variation.reset"
	TopicOptionsChanged    = "options.changed"
	TopicDimensionsChanged = "dimensions.changed"
	TopicCartUpdated       = "cart.updated"
	TopicCartAdded         = "cart.added"
)

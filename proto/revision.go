package proto

// ProtocolVersion is the TCP protocol revision this driver speaks. It is
// sent during the handshake and used both as "client revision" and, until
// the server Hello is read, as the assumed "server revision" for encoding
// the initial Hello itself.
const ProtocolVersion = 54465

// Revision gates named in spec.md §4.8: fields only appear on the wire
// once the negotiated revision (the lower of client/server Hello values)
// reaches the threshold.
const (
	MinRevisionWithClientInfo               = 54032
	MinRevisionWithServerTimezone           = 54058
	MinRevisionWithQuotaKeyInClientInfo     = 54060
	MinRevisionWithDisplayName              = 54372
	MinRevisionWithVersionPatch             = 54401
	MinRevisionWithServerLogs               = 54406
	MinRevisionWithClientWriteInfo          = 54420
	MinRevisionWithSettingsSerializedAsStrings = 54429
	MinRevisionWithInterserverSecret        = 54441
	MinRevisionWithOpenTelemetry            = 54442
	MinRevisionWithDistributedDepth         = 54448
	MinRevisionWithInitialQueryStartTime    = 54449
	MinRevisionWithIncrementalProfileEvents = 54451
	MinRevisionWithParameters               = 54459
	MinRevisionWithCustomSerialization      = 54454
	MinRevisionWithParallelReplicas         = 54453
)

// Feature is a named revision gate, kept as a distinct type (rather than a
// bare int comparison at every call site) so call sites read as
// proto.FeatureParameters.In(rev) the way query.go already expects.
type Feature int

const (
	FeatureClientInfo Feature = iota
	FeatureServerTimezone
	FeatureQuotaKeyInClientInfo
	FeatureDisplayName
	FeatureVersionPatch
	FeatureServerLogs
	FeatureTempTables
	FeatureClientWriteInfo
	FeatureInterserverSecret
	FeatureOpenTelemetry
	FeatureDistributedDepth
	FeatureInitialQueryStartTime
	FeatureIncrementalProfileEvents
	FeatureParameters
	FeatureParallelReplicas
)

var featureRevisions = map[Feature]int{
	FeatureClientInfo:               MinRevisionWithClientInfo,
	FeatureServerTimezone:           MinRevisionWithServerTimezone,
	FeatureQuotaKeyInClientInfo:     MinRevisionWithQuotaKeyInClientInfo,
	FeatureDisplayName:              MinRevisionWithDisplayName,
	FeatureVersionPatch:             MinRevisionWithVersionPatch,
	FeatureServerLogs:               MinRevisionWithServerLogs,
	FeatureTempTables:               MinRevisionWithServerLogs,
	FeatureClientWriteInfo:          MinRevisionWithClientWriteInfo,
	FeatureInterserverSecret:        MinRevisionWithInterserverSecret,
	FeatureOpenTelemetry:            MinRevisionWithOpenTelemetry,
	FeatureDistributedDepth:         MinRevisionWithDistributedDepth,
	FeatureInitialQueryStartTime:    MinRevisionWithInitialQueryStartTime,
	FeatureIncrementalProfileEvents: MinRevisionWithIncrementalProfileEvents,
	FeatureParameters:               MinRevisionWithParameters,
	FeatureParallelReplicas:         MinRevisionWithParallelReplicas,
}

// In reports whether rev is new enough to carry this feature's fields.
func (f Feature) In(rev int) bool { return rev >= featureRevisions[f] }

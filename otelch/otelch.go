// Package otelch holds the OpenTelemetry attribute keys this driver
// attaches to the span it opens around Session.Query, grounded on the
// teacher's own otelch.* call sites in query.go (otelch.ProtocolVersion,
// otelch.QuotaKey, otelch.BlocksSent, ...).
package otelch

import "go.opentelemetry.io/otel/attribute"

const namespace = "clickhouse"

func ProtocolVersion(v int) attribute.KeyValue {
	return attribute.Int(namespace+".protocol_version", v)
}

func QuotaKey(v string) attribute.KeyValue {
	return attribute.String(namespace+".quota_key", v)
}

func QueryID(v string) attribute.KeyValue {
	return attribute.String(namespace+".query_id", v)
}

func BlocksSent(v int) attribute.KeyValue {
	return attribute.Int(namespace+".blocks_sent", v)
}

func BlocksReceived(v int) attribute.KeyValue {
	return attribute.Int(namespace+".blocks_received", v)
}

func RowsReceived(v int) attribute.KeyValue {
	return attribute.Int(namespace+".rows_received", v)
}

func ColumnsReceived(v int) attribute.KeyValue {
	return attribute.Int(namespace+".columns_received", v)
}

func Rows(v int) attribute.KeyValue {
	return attribute.Int(namespace+".rows", v)
}

func Bytes(v int) attribute.KeyValue {
	return attribute.Int(namespace+".bytes", v)
}

func ErrorCode(v int) attribute.KeyValue {
	return attribute.Int(namespace+".error_code", v)
}

func ErrorName(v string) attribute.KeyValue {
	return attribute.String(namespace+".error_name", v)
}

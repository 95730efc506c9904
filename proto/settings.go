package proto

// Setting is a single query or session setting, e.g. ("max_threads", "4",
// important=false). Encoded as a flat key/importance/value triple,
// terminated by an empty key (spec §4.8 step 4).
type Setting struct {
	Key       string
	Value     string
	Important bool
}

// EncodeSettings writes settings in insertion order, terminated by an
// empty-string key.
func EncodeSettings(b *Buffer, settings []Setting) {
	for _, s := range settings {
		b.PutString(s.Key)
		if s.Important {
			b.PutUVarint(1)
		} else {
			b.PutUVarint(0)
		}
		b.PutString(s.Value)
	}
	b.PutString("")
}
